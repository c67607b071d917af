package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"daymate/internal/bus"
	"daymate/internal/database"
	"daymate/internal/models"
)

// ScheduleService owns schedule CRUD and the today-snapshot read the
// trigger engine performs each tick. Every mutation publishes
// schedules.changed so the poller re-evaluates promptly.
type ScheduleService struct {
	db  *database.DB
	bus *bus.Bus
	loc *time.Location
}

// NewScheduleService creates a schedule service
func NewScheduleService(db *database.DB, b *bus.Bus, loc *time.Location) *ScheduleService {
	if loc == nil {
		loc = time.Local
	}
	return &ScheduleService{db: db, bus: b, loc: loc}
}

func (s *ScheduleService) today() string {
	return time.Now().In(s.loc).Format("2006-01-02")
}

// Create inserts a new schedule
func (s *ScheduleService) Create(ctx context.Context, req *models.CreateScheduleRequest) (*models.Schedule, error) {
	if req.Text == "" || req.StartTime == "" {
		return nil, fmt.Errorf("text and start_time are required")
	}
	date := req.Date
	if date == "" {
		date = s.today()
	}

	now := time.Now().UTC()
	schedule := &models.Schedule{
		ID:        uuid.New().String(),
		Text:      req.Text,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO schedules (id, text, start_time, end_time, date, completed, skipped, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, 0, ?, ?)`,
		schedule.ID, schedule.Text, schedule.StartTime, schedule.EndTime, schedule.Date,
		schedule.CreatedAt, schedule.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	s.bus.Publish(bus.TopicSchedulesChanged, schedule.ID)
	return schedule, nil
}

// Update applies a partial update to a schedule
func (s *ScheduleService) Update(ctx context.Context, id string, req *models.UpdateScheduleRequest) (*models.Schedule, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		existing.Text = *req.Text
	}
	if req.StartTime != nil {
		existing.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		existing.EndTime = *req.EndTime
	}
	if req.Completed != nil {
		existing.Completed = *req.Completed
		if existing.Completed {
			existing.Skipped = false
		}
	}
	if req.Skipped != nil {
		existing.Skipped = *req.Skipped
		if existing.Skipped {
			existing.Completed = false
		}
	}
	existing.UpdatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		UPDATE schedules SET text = ?, start_time = ?, end_time = ?, completed = ?, skipped = ?, updated_at = ?
		WHERE id = ?`,
		existing.Text, existing.StartTime, existing.EndTime,
		existing.Completed, existing.Skipped, existing.UpdatedAt, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}

	s.bus.Publish(bus.TopicSchedulesChanged, id)
	return existing, nil
}

// Delete removes a schedule
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	s.bus.Publish(bus.TopicSchedulesChanged, id)
	return nil
}

// Get fetches one schedule by ID
func (s *ScheduleService) Get(ctx context.Context, id string) (*models.Schedule, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, text, start_time, end_time, date, completed, skipped, created_at, updated_at
		FROM schedules WHERE id = ?`, id)
	return scanSchedule(row)
}

// ListToday returns today's activity snapshot, ordered by start time.
// The trigger engine re-reads this in full each tick and treats it as
// read-only.
func (s *ScheduleService) ListToday(ctx context.Context) ([]models.Schedule, error) {
	return s.ListByDate(ctx, s.today())
}

// ListByDate returns the schedules for one calendar day
func (s *ScheduleService) ListByDate(ctx context.Context, date string) ([]models.Schedule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, start_time, end_time, date, completed, skipped, created_at, updated_at
		FROM schedules WHERE date = ? ORDER BY start_time, id`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []models.Schedule
	for rows.Next() {
		sc, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *sc)
	}
	return schedules, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSchedule(row rowScanner) (*models.Schedule, error) {
	var sc models.Schedule
	err := row.Scan(&sc.ID, &sc.Text, &sc.StartTime, &sc.EndTime, &sc.Date,
		&sc.Completed, &sc.Skipped, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sc, nil
}
