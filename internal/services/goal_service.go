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

var validGoalPeriods = map[string]bool{
	models.GoalPeriodWeekly:  true,
	models.GoalPeriodMonthly: true,
	models.GoalPeriodYearly:  true,
}

// GoalService owns long-term goals and serves the goal-reminder
// trigger's active-goal reads
type GoalService struct {
	db *database.DB
}

// NewGoalService creates a goal service
func NewGoalService(db *database.DB) *GoalService {
	return &GoalService{db: db}
}

// Create inserts a new goal
func (s *GoalService) Create(ctx context.Context, req *models.CreateGoalRequest) (*models.Goal, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	if !validGoalPeriods[req.Period] {
		return nil, fmt.Errorf("invalid period %q", req.Period)
	}

	now := time.Now().UTC()
	goal := &models.Goal{
		ID:        uuid.New().String(),
		Title:     req.Title,
		Period:    req.Period,
		CreatedAt: now,
		UpdatedAt: now,
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO goals (id, title, period, progress, completed, created_at, updated_at)
		VALUES (?, ?, ?, 0, 0, ?, ?)`,
		goal.ID, goal.Title, goal.Period, goal.CreatedAt, goal.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}
	return goal, nil
}

// Update applies a partial update to a goal
func (s *GoalService) Update(ctx context.Context, id string, req *models.UpdateGoalRequest) (*models.Goal, error) {
	goal, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		goal.Title = *req.Title
	}
	if req.Progress != nil {
		p := *req.Progress
		if p < 0 {
			p = 0
		}
		if p > 100 {
			p = 100
		}
		goal.Progress = p
	}
	if req.Completed != nil {
		goal.Completed = *req.Completed
	}
	goal.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE goals SET title = ?, progress = ?, completed = ?, updated_at = ? WHERE id = ?`,
		goal.Title, goal.Progress, goal.Completed, goal.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update goal: %w", err)
	}
	return goal, nil
}

// Get fetches one goal by ID
func (s *GoalService) Get(ctx context.Context, id string) (*models.Goal, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, period, progress, completed, created_at, updated_at
		FROM goals WHERE id = ?`, id)
	var g models.Goal
	err := row.Scan(&g.ID, &g.Title, &g.Period, &g.Progress, &g.Completed, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// List returns all goals
func (s *GoalService) List(ctx context.Context) ([]models.Goal, error) {
	return s.list(ctx, `SELECT id, title, period, progress, completed, created_at, updated_at FROM goals ORDER BY created_at`)
}

// ActiveGoals returns incomplete goals; implements the trigger
// engine's goal source
func (s *GoalService) ActiveGoals(ctx context.Context) ([]models.Goal, error) {
	return s.list(ctx, `SELECT id, title, period, progress, completed, created_at, updated_at FROM goals WHERE completed = 0 ORDER BY created_at`)
}

// Delete removes a goal
func (s *GoalService) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (s *GoalService) list(ctx context.Context, query string) ([]models.Goal, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.Title, &g.Period, &g.Progress, &g.Completed, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}
