package jobs

import (
	"context"
	"log"
	"time"

	"daymate/internal/database"
)

// RetentionCleanupJob prunes old messages and stale trigger marks.
// Marks never need pruning for correctness (new days produce new keys);
// this just keeps the tables from growing forever.
type RetentionCleanupJob struct {
	db            *database.DB
	retentionDays int
}

// NewRetentionCleanupJob creates a retention cleanup job
func NewRetentionCleanupJob(db *database.DB, retentionDays int) *RetentionCleanupJob {
	if retentionDays <= 0 {
		retentionDays = 90
	}
	return &RetentionCleanupJob{db: db, retentionDays: retentionDays}
}

// Run deletes rows older than the retention window
func (j *RetentionCleanupJob) Run(ctx context.Context) error {
	log.Println("[RETENTION] Starting retention cleanup...")
	startTime := time.Now()

	cutoff := time.Now().UTC().AddDate(0, 0, -j.retentionDays)

	totalDeleted := int64(0)
	for _, table := range []struct{ name, column string }{
		{"messages", "timestamp"},
		{"trigger_marks", "created_at"},
	} {
		result, err := j.db.ExecContext(ctx,
			"DELETE FROM "+table.name+" WHERE "+table.column+" < ?", cutoff)
		if err != nil {
			log.Printf("[RETENTION] Failed to clean %s: %v", table.name, err)
			continue
		}
		n, _ := result.RowsAffected()
		totalDeleted += n
	}

	log.Printf("[RETENTION] Cleanup complete: deleted %d rows in %v", totalDeleted, time.Since(startTime))
	return nil
}

// GetNextRunTime returns when the job should run next (daily)
func (j *RetentionCleanupJob) GetNextRunTime() time.Time {
	return time.Now().Add(24 * time.Hour)
}
