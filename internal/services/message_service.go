package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"daymate/internal/bus"
	"daymate/internal/database"
	"daymate/internal/models"
)

// MessageService is the conversation log: an append-only message store
// that the trigger engine writes into. Appends are fire-and-forget from
// the engine's point of view; persistence problems stay in here.
type MessageService struct {
	db      *database.DB
	bus     *bus.Bus
	archive *mongo.Collection // nil when archival is disabled
}

// NewMessageService creates a message service. mongoDB may be nil.
func NewMessageService(db *database.DB, b *bus.Bus, mongoDB *database.MongoDB) *MessageService {
	svc := &MessageService{db: db, bus: b}
	if mongoDB != nil {
		svc.archive = mongoDB.Database().Collection(database.CollectionMessageArchive)
	}
	return svc
}

// Append adds an assistant message to the conversation log. Implements
// the trigger engine's sink; errors are logged, never propagated.
func (s *MessageService) Append(ctx context.Context, content, triggerKey string) {
	msg := models.Message{
		ID:         uuid.New().String(),
		Role:       models.RoleAssistant,
		Content:    content,
		TriggerKey: triggerKey,
		Timestamp:  time.Now().UTC(),
	}
	if err := s.insert(ctx, msg); err != nil {
		log.Printf("⚠️ Failed to append assistant message (key %s): %v", triggerKey, err)
		return
	}
	s.bus.Publish(bus.TopicChatMessage, msg)
	s.archiveAsync(msg)
}

// AppendUser adds a user-authored message to the conversation log
func (s *MessageService) AppendUser(ctx context.Context, content string) (*models.Message, error) {
	msg := models.Message{
		ID:        uuid.New().String(),
		Role:      models.RoleUser,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	if err := s.insert(ctx, msg); err != nil {
		return nil, err
	}
	s.bus.Publish(bus.TopicChatMessage, msg)
	s.archiveAsync(msg)
	return &msg, nil
}

func (s *MessageService) insert(ctx context.Context, msg models.Message) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, role, content, trigger_key, timestamp)
		VALUES (?, ?, ?, ?, ?)`,
		msg.ID, msg.Role, msg.Content, msg.TriggerKey, msg.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// archiveAsync mirrors the message to MongoDB in the background.
// Archival is best-effort; a failure never affects the primary log.
func (s *MessageService) archiveAsync(msg models.Message) {
	if s.archive == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		doc := models.ArchivedMessage{
			MessageID:  msg.ID,
			Role:       msg.Role,
			Content:    msg.Content,
			TriggerKey: msg.TriggerKey,
			Timestamp:  msg.Timestamp,
			ArchivedAt: time.Now().UTC(),
		}
		if _, err := s.archive.InsertOne(ctx, doc); err != nil {
			log.Printf("⚠️ Failed to archive message %s: %v", msg.ID, err)
		}
	}()
}

// List returns messages ordered by timestamp, newest last, capped at limit
func (s *MessageService) List(ctx context.Context, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, content, trigger_key, timestamp FROM (
			SELECT id, role, content, trigger_key, timestamp
			FROM messages ORDER BY timestamp DESC, id DESC LIMIT ?
		) ORDER BY timestamp ASC, id ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.TriggerKey, &m.Timestamp); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
