package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/evendeadiamthehero05-dot/thevaiya-paiya/internal/game"
)

func addRoutes(r chi.Router, logger *slog.Logger, db *sql.DB, store game.RoomStore, engine *game.Engine, tracker *ConnTracker, gateway *Gateway) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Thevaiya Paiya API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	// Realtime game channel.
	r.Get("/ws/game", handleGameSocket(logger, store, engine, gateway, tracker))

	// Room CRUD.
	r.Route("/api/rooms", func(r chi.Router) {
		r.Post("/", handleCreateRoom(engine))
		r.Post("/{roomID}/join", handleJoinRoom(engine, gateway))
		r.Get("/{roomID}", handleGetRoom(store, tracker))
		r.Get("/{roomID}/players/{playerID}/role", handleGetPlayerRole(store))
	})
}
