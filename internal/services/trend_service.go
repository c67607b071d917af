package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"daymate/internal/database"
	"daymate/internal/models"
)

// TrendService owns trend-briefing items and serves the briefing
// trigger's unread reads
type TrendService struct {
	db *database.DB
}

// NewTrendService creates a trend service
func NewTrendService(db *database.DB) *TrendService {
	return &TrendService{db: db}
}

// Create adds a trend item (arrives unread)
func (s *TrendService) Create(ctx context.Context, req *models.CreateTrendItemRequest) (*models.TrendItem, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	item := &models.TrendItem{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Source:    req.Source,
		URL:       req.URL,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trend_items (id, title, source, url, read, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`,
		item.ID, item.Title, item.Source, item.URL, item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create trend item: %w", err)
	}
	return item, nil
}

// MarkRead flags a trend item as read
func (s *TrendService) MarkRead(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE trend_items SET read = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark trend item read: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns all trend items, newest first
func (s *TrendService) List(ctx context.Context) ([]models.TrendItem, error) {
	return s.list(ctx, `SELECT id, title, source, url, read, created_at FROM trend_items ORDER BY created_at DESC`)
}

// UnreadTrends returns unread items, oldest first; implements the
// trigger engine's trend source
func (s *TrendService) UnreadTrends(ctx context.Context) ([]models.TrendItem, error) {
	return s.list(ctx, `SELECT id, title, source, url, read, created_at FROM trend_items WHERE read = 0 ORDER BY created_at`)
}

func (s *TrendService) list(ctx context.Context, query string) ([]models.TrendItem, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query trend items: %w", err)
	}
	defer rows.Close()

	var items []models.TrendItem
	for rows.Next() {
		var t models.TrendItem
		if err := rows.Scan(&t.ID, &t.Title, &t.Source, &t.URL, &t.Read, &t.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
