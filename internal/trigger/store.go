package trigger

import (
	"context"
	"log/slog"
	"time"

	"daymate/internal/database"
)

// Store is the idempotency mark store: at most one firing per key.
// Has treats a read failure as "not fired" (fail open) so a broken
// backend can never permanently silence a trigger family. Mark is the
// atomic claim: it reports whether this caller created the mark, so
// concurrent claimants resolve to one winner. Mark failures are fatal
// for that key only.
type Store interface {
	Has(ctx context.Context, key string) bool
	Mark(ctx context.Context, key string) (bool, error)
}

// SQLiteStore persists marks in the trigger_marks table. Marks survive
// process restarts; day/hour scoping lives in the key itself, so no
// expiry logic is needed beyond the retention job.
type SQLiteStore struct {
	db *database.DB
}

// NewSQLiteStore creates a SQLite-backed mark store
func NewSQLiteStore(db *database.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Has reports whether the key was already marked
func (s *SQLiteStore) Has(ctx context.Context, key string) bool {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM trigger_marks WHERE mark_key = ?`, key).Scan(&one)
	if err != nil {
		// sql.ErrNoRows and real failures both land here; fail open
		return false
	}
	return true
}

// Mark records the key. The affected-row count says whether this
// caller inserted the mark or lost the race to another claimant.
func (s *SQLiteStore) Mark(ctx context.Context, key string) (bool, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO trigger_marks (mark_key, created_at) VALUES (?, ?)`,
		key, time.Now().UTC())
	if err != nil {
		slog.Error("failed to persist trigger mark", "key", key, "error", err)
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
