package services

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"daymate/internal/bus"
	"daymate/internal/database"
	"daymate/internal/models"
)

// RecurrenceService owns recurring schedule rules and materializes them
// into concrete schedules for each matching day. The cron expression
// (standard 5-field) selects the days; the rule's own start/end times
// set the activity's span.
type RecurrenceService struct {
	db        *database.DB
	bus       *bus.Bus
	loc       *time.Location
	scheduler gocron.Scheduler
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// NewRecurrenceService creates a recurrence service
func NewRecurrenceService(db *database.DB, b *bus.Bus, loc *time.Location) (*RecurrenceService, error) {
	if loc == nil {
		loc = time.Local
	}
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to create recurrence scheduler: %w", err)
	}
	return &RecurrenceService{db: db, bus: b, loc: loc, scheduler: scheduler}, nil
}

// Start materializes today's rules immediately and schedules the daily
// materialization shortly after midnight
func (s *RecurrenceService) Start(ctx context.Context) error {
	log.Println("⏰ Starting recurrence service...")

	if err := s.MaterializeToday(ctx); err != nil {
		log.Printf("⚠️ Initial rule materialization failed: %v", err)
	}

	_, err := s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.MaterializeToday(ctx); err != nil {
				log.Printf("⚠️ Daily rule materialization failed: %v", err)
			}
		}),
		gocron.WithName("materialize-schedule-rules"),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule materialization job: %w", err)
	}

	s.scheduler.Start()
	log.Println("✅ Recurrence service started")
	return nil
}

// Stop shuts down the recurrence scheduler
func (s *RecurrenceService) Stop() error {
	log.Println("⏹️ Stopping recurrence service...")
	return s.scheduler.Shutdown()
}

// CreateRule validates and inserts a recurring rule, then materializes
// it for today if it applies
func (s *RecurrenceService) CreateRule(ctx context.Context, req *models.CreateScheduleRuleRequest) (*models.ScheduleRule, error) {
	if req.Text == "" || req.StartTime == "" {
		return nil, fmt.Errorf("text and start_time are required")
	}
	if _, err := cronParser.Parse(req.CronExpression); err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	rule := &models.ScheduleRule{
		ID:             uuid.New().String(),
		Text:           req.Text,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		CronExpression: req.CronExpression,
		Enabled:        true,
		CreatedAt:      time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO schedule_rules (id, text, start_time, end_time, cron_expression, enabled, created_at)
		VALUES (?, ?, ?, ?, ?, 1, ?)`,
		rule.ID, rule.Text, rule.StartTime, rule.EndTime, rule.CronExpression, rule.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create rule: %w", err)
	}

	if err := s.MaterializeToday(ctx); err != nil {
		log.Printf("⚠️ Materialization after rule create failed: %v", err)
	}
	return rule, nil
}

// ListRules returns all recurring rules
func (s *RecurrenceService) ListRules(ctx context.Context) ([]models.ScheduleRule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, start_time, end_time, cron_expression, enabled, created_at
		FROM schedule_rules ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var rules []models.ScheduleRule
	for rows.Next() {
		var r models.ScheduleRule
		if err := rows.Scan(&r.ID, &r.Text, &r.StartTime, &r.EndTime, &r.CronExpression, &r.Enabled, &r.CreatedAt); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// DeleteRule removes a recurring rule (already materialized schedules stay)
func (s *RecurrenceService) DeleteRule(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM schedule_rules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MaterializeToday creates today's schedule for every enabled rule
// whose cron expression fires today. Materialized schedules carry a
// deterministic ID per (rule, day), so repeated runs are no-ops.
func (s *RecurrenceService) MaterializeToday(ctx context.Context) error {
	rules, err := s.ListRules(ctx)
	if err != nil {
		return err
	}

	now := time.Now().In(s.loc)
	day := now.Format("2006-01-02")
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	nextMidnight := midnight.Add(24 * time.Hour)

	created := 0
	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		sched, err := cronParser.Parse(rule.CronExpression)
		if err != nil {
			log.Printf("⚠️ Rule %s has invalid cron %q: %v", rule.ID, rule.CronExpression, err)
			continue
		}
		next := sched.Next(midnight.Add(-time.Minute))
		if next.Before(midnight) || !next.Before(nextMidnight) {
			continue
		}

		id := fmt.Sprintf("rule:%s:%s", rule.ID, day)
		ts := time.Now().UTC()
		result, err := s.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO schedules (id, text, start_time, end_time, date, completed, skipped, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, 0, 0, ?, ?)`,
			id, rule.Text, rule.StartTime, rule.EndTime, day, ts, ts)
		if err != nil {
			log.Printf("⚠️ Failed to materialize rule %s: %v", rule.ID, err)
			continue
		}
		if n, _ := result.RowsAffected(); n > 0 {
			created++
		}
	}

	if created > 0 {
		log.Printf("✅ Materialized %d recurring schedules for %s", created, day)
		s.bus.Publish(bus.TopicSchedulesChanged, day)
	}
	return nil
}
