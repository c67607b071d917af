package trigger

import (
	"context"
	"testing"

	"daymate/internal/database"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Initialize(); err != nil {
		t.Fatalf("initialize database: %v", err)
	}
	return db
}

func TestSQLiteStoreMarkOnce(t *testing.T) {
	store := NewSQLiteStore(newTestDB(t))
	ctx := context.Background()

	if store.Has(ctx, "start_a1_2026-09-01") {
		t.Fatal("fresh store should have no marks")
	}
	won, err := store.Mark(ctx, "start_a1_2026-09-01")
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !won {
		t.Fatal("first mark of a key should win the claim")
	}
	if !store.Has(ctx, "start_a1_2026-09-01") {
		t.Fatal("mark not visible after write")
	}

	// Re-marking the same key loses the claim without erroring
	won, err = store.Mark(ctx, "start_a1_2026-09-01")
	if err != nil {
		t.Fatalf("re-mark: %v", err)
	}
	if won {
		t.Fatal("re-mark reported a win for an already-claimed key")
	}

	if store.Has(ctx, "start_a1_2026-09-02") {
		t.Fatal("different day key leaked")
	}
}

func TestSQLiteStoreSurvivesAcrossInstances(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := NewSQLiteStore(db).Mark(ctx, "news_2026-09-01_09"); err != nil {
		t.Fatalf("mark: %v", err)
	}
	if !NewSQLiteStore(db).Has(ctx, "news_2026-09-01_09") {
		t.Fatal("mark should be visible to a new store over the same database")
	}
}
