package server

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/evendeadiamthehero05-dot/thevaiya-paiya/internal/database"
	"github.com/evendeadiamthehero05-dot/thevaiya-paiya/internal/game"
	"github.com/evendeadiamthehero05-dot/thevaiya-paiya/internal/migrations"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestDB opens a migrated, dare-seeded in-memory database.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}
	if err := SeedDares(ctx, discardLogger(), db); err != nil {
		t.Fatalf("seeding dares: %v", err)
	}
	return db
}

// newTestRouter wires the full route tree against an in-memory
// database, mirroring server.New without the listener.
func newTestRouter(t *testing.T) (*chi.Mux, *SQLiteStore) {
	t.Helper()

	db := newTestDB(t)
	logger := discardLogger()
	store := NewSQLiteStore(db)
	engine := game.NewEngine(store, game.NewDareProvider(store), logger)
	tracker := NewConnTracker()
	gateway := NewGateway(store, tracker, logger)

	r := chi.NewRouter()
	addRoutes(r, logger, db, store, engine, tracker, gateway)
	return r, store
}
