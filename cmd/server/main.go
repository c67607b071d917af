package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"daymate/internal/assistantcfg"
	"daymate/internal/bus"
	"daymate/internal/config"
	"daymate/internal/content"
	"daymate/internal/database"
	"daymate/internal/handlers"
	"daymate/internal/health"
	"daymate/internal/jobs"
	"daymate/internal/logging"
	"daymate/internal/middleware"
	"daymate/internal/services"
	"daymate/internal/trigger"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting Daymate Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	cfg := config.Load()
	loc := cfg.Location()
	log.Printf("📋 Configuration loaded (Port: %s, TZ: %s, poll: %s)", cfg.Port, cfg.Timezone, cfg.PollInterval)

	// SQLite database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("❌ Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// MongoDB (optional - conversation archival)
	var mongoDB *database.MongoDB
	if cfg.MongoURI != "" {
		log.Println("🔗 Connecting to MongoDB...")
		mongoDB, err = database.NewMongoDB(cfg.MongoURI)
		if err != nil {
			log.Printf("⚠️ Failed to connect to MongoDB: %v (conversation archival disabled)", err)
			mongoDB = nil
		} else {
			defer mongoDB.Close(context.Background())
		}
	}

	// Redis (optional - shared trigger mark store)
	var redisService *services.RedisService
	var markStore trigger.Store
	if cfg.RedisURL != "" {
		redisService, err = services.NewRedisService(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️ Failed to connect to Redis: %v (falling back to SQLite mark store)", err)
		}
	}
	if redisService != nil {
		defer redisService.Close()
		markStore = trigger.NewRedisStore(redisService.Client())
		log.Println("✅ Trigger marks backed by Redis")
	} else {
		markStore = trigger.NewSQLiteStore(db)
		log.Println("✅ Trigger marks backed by SQLite")
	}

	// In-process event bus
	eventBus := bus.New()

	// Services
	scheduleService := services.NewScheduleService(db, eventBus, loc)
	messageService := services.NewMessageService(db, eventBus, mongoDB)
	goalService := services.NewGoalService(db)
	trendService := services.NewTrendService(db)

	recurrenceService, err := services.NewRecurrenceService(db, eventBus, loc)
	if err != nil {
		log.Fatalf("❌ Failed to create recurrence service: %v", err)
	}

	// Content resolver
	contentClient := content.NewClient(cfg.ContentAPIURL, cfg.ContentTimeout)

	// Trigger evaluator
	classifier := trigger.NewClassifier(nil)
	evaluator := trigger.NewEvaluator(
		trigger.NewClock(loc),
		trigger.NewRand(),
		markStore,
		classifier,
		contentClient,
		messageService,
		goalService,
		trendService,
	)

	// Assistant config (optional) + hot reload
	applyAssistantConfig := func(acfg *assistantcfg.Config) {
		contentClient.Reconfigure(acfg.ContentAPIURL, acfg.Fallbacks)
		if rules := acfg.ClassifierRules(); rules != nil {
			evaluator.SetClassifier(trigger.NewClassifier(rules))
		}
	}
	if acfg, err := assistantcfg.Load(cfg.AssistantConfigPath); err == nil {
		applyAssistantConfig(acfg)
		log.Printf("✅ Assistant config loaded from %s", cfg.AssistantConfigPath)
		go assistantcfg.Watch(cfg.AssistantConfigPath, applyAssistantConfig)
	} else {
		log.Printf("ℹ️  No assistant config at %s, using defaults", cfg.AssistantConfigPath)
	}

	// Recurring schedule rules
	if err := recurrenceService.Start(context.Background()); err != nil {
		log.Printf("⚠️ Failed to start recurrence service: %v", err)
	}

	// Background jobs: trigger poller + retention cleanup
	jobScheduler := jobs.NewJobScheduler()
	jobScheduler.Register("trigger-poller", jobs.NewTriggerPoller(evaluator, scheduleService, eventBus, cfg.PollInterval))
	jobScheduler.Register("retention-cleanup", jobs.NewRetentionCleanupJob(db, cfg.MessageRetentionDays))
	if err := jobScheduler.Start(); err != nil {
		log.Fatalf("❌ Failed to start job scheduler: %v", err)
	}

	// First evaluation pass happens immediately, not one interval from now
	if err := jobScheduler.RunNow("trigger-poller"); err != nil {
		log.Printf("⚠️ Initial trigger pass failed: %v", err)
	}

	// Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Daymate Server",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("daymate")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	// CORS configuration with environment-based origins
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept",
		AllowCredentials: allowedOrigins != "*",
	}))

	// Rate limiting
	rateLimitConfig := middleware.DefaultRateLimitConfig()
	app.Use("/api", middleware.GlobalAPIRateLimiter(rateLimitConfig))

	// Dependency health checks for /health
	healthService := health.NewService()
	healthService.Register("sqlite", true, func(ctx context.Context) error {
		return db.PingContext(ctx)
	})
	if redisService != nil {
		healthService.Register("redis", false, func(ctx context.Context) error {
			return redisService.Ping(ctx)
		})
	}
	if mongoDB != nil {
		healthService.Register("mongodb", false, func(ctx context.Context) error {
			return mongoDB.Ping(ctx)
		})
	}

	// Handlers
	healthHandler := handlers.NewHealthHandler(healthService)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, recurrenceService)
	conversationHandler := handlers.NewConversationHandler(messageService)
	goalHandler := handlers.NewGoalHandler(goalService)
	trendHandler := handlers.NewTrendHandler(trendService)

	// Routes
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api")
	mutation := middleware.MutationRateLimiter(rateLimitConfig)

	api.Get("/schedules/today", scheduleHandler.ListToday)
	api.Get("/schedules/rules", scheduleHandler.ListRules)
	api.Post("/schedules/rules", mutation, scheduleHandler.CreateRule)
	api.Delete("/schedules/rules/:id", mutation, scheduleHandler.DeleteRule)
	api.Post("/schedules", mutation, scheduleHandler.Create)
	api.Patch("/schedules/:id", mutation, scheduleHandler.Update)
	api.Delete("/schedules/:id", mutation, scheduleHandler.Delete)

	api.Get("/conversation", conversationHandler.List)
	api.Post("/conversation", mutation, conversationHandler.Append)

	api.Get("/goals", goalHandler.List)
	api.Post("/goals", mutation, goalHandler.Create)
	api.Patch("/goals/:id", mutation, goalHandler.Update)
	api.Delete("/goals/:id", mutation, goalHandler.Delete)

	api.Get("/trends", trendHandler.List)
	api.Post("/trends", mutation, trendHandler.Create)
	api.Post("/trends/:id/read", mutation, trendHandler.MarkRead)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		jobScheduler.Stop()
		if err := recurrenceService.Stop(); err != nil {
			log.Printf("⚠️ Recurrence shutdown error: %v", err)
		}

		// Let in-flight content fetches land their messages
		evaluator.Wait()

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️ Server shutdown error: %v", err)
		}
	}()

	log.Printf("🌐 Server listening on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server error: %v", err)
	}

	log.Println("✅ Server stopped")
}
