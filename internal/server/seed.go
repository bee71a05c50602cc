package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// starterDares is the classroom-safe catalogue loaded on first boot.
var starterDares = []string{
	"Sing the national anthem",
	"Do your best celebrity impression",
	"Tell a joke",
	"Do 10 pushups",
	"Speak in a British accent for 30 seconds",
	"Say the alphabet backwards",
	"Do a dance",
	"High-five everyone in the room",
	"Compliment the person to your left",
	"Say everything backwards for 30 seconds",
	"Pretend to be a dinosaur",
	"Read a text message in a funny voice",
	"Stand on one leg and sing",
	"Do your best animal impression",
	"Recite a tongue twister fast",
	"Describe your day using only emojis",
	"Do a handstand (or try!)",
	"Narrate your next action like a sports commentator",
	"Do your best robot impression",
	"Sing Happy Birthday loudly",
}

// SeedDares loads the starter dare catalogue. Idempotent: dares are
// keyed by text, existing rows keep their usage counts.
func SeedDares(ctx context.Context, logger *slog.Logger, db *sql.DB) error {
	inserted := 0
	for _, text := range starterDares {
		res, err := db.ExecContext(ctx, `
			INSERT OR IGNORE INTO dares (text, classroom_safe, used_count) VALUES (?, 1, 0)
		`, text)
		if err != nil {
			return fmt.Errorf("seeding dare %q: %w", text, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 1 {
			inserted++
		}
	}
	if inserted > 0 {
		logger.Info("dare catalogue seeded", "inserted", inserted)
	}
	return nil
}
