package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/evendeadiamthehero05-dot/thevaiya-paiya/internal/game"
)

type CreateRoomRequest struct {
	PlayerName string `json:"playerName"`
}

type PlayerResponse struct {
	UID    string `json:"uid"`
	Name   string `json:"name"`
	IsHost bool   `json:"isHost"`
}

type CreateRoomResponse struct {
	RoomID string         `json:"roomId"`
	Player PlayerResponse `json:"player"`
}

func handleCreateRoom(engine *game.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateRoomRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.PlayerName = strings.TrimSpace(req.PlayerName)
		if req.PlayerName == "" {
			writeError(w, http.StatusBadRequest, "playerName is required")
			return
		}

		roomID, host, err := engine.CreateRoom(r.Context(), req.PlayerName)
		if err != nil {
			writeGameError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, CreateRoomResponse{
			RoomID: roomID,
			Player: PlayerResponse{UID: host.UID, Name: host.Name, IsHost: true},
		})
	}
}

type JoinRoomRequest struct {
	PlayerName string `json:"playerName"`
}

type JoinRoomResponse struct {
	Player PlayerResponse `json:"player"`
}

func handleJoinRoom(engine *game.Engine, gateway *Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")

		var req JoinRoomRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.PlayerName = strings.TrimSpace(req.PlayerName)
		if req.PlayerName == "" {
			writeError(w, http.StatusBadRequest, "playerName is required")
			return
		}

		player, err := engine.Join(r.Context(), roomID, req.PlayerName)
		if err != nil {
			writeGameError(w, err)
			return
		}

		// Anyone already on the socket sees the lobby grow.
		gateway.BroadcastRoom(r.Context(), roomID)

		writeJSON(w, http.StatusOK, JoinRoomResponse{
			Player: PlayerResponse{UID: player.UID, Name: player.Name},
		})
	}
}

// handleGetRoom returns the room projection for an HTTP caller. The
// requester identifies itself with ?playerId= so its own role stays
// visible; everyone else's unrevealed roles are filtered out.
func handleGetRoom(store game.RoomStore, tracker *ConnTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")

		room, err := store.GetRoom(r.Context(), roomID)
		if err != nil {
			writeGameError(w, err)
			return
		}
		players, err := store.ListPlayers(r.Context(), roomID)
		if err != nil {
			writeGameError(w, err)
			return
		}

		recipient := r.URL.Query().Get("playerId")
		writeJSON(w, http.StatusOK, buildProjection(room, players, tracker.Connected(roomID), recipient))
	}
}

type PlayerRoleResponse struct {
	Role string `json:"role"`
}

// handleGetPlayerRole is the private role lookup: a player fetching
// their own secret role, typically after a reconnect of the UI.
func handleGetPlayerRole(store game.RoomStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID := chi.URLParam(r, "roomID")
		playerID := chi.URLParam(r, "playerID")

		players, err := store.ListPlayers(r.Context(), roomID)
		if err != nil {
			writeGameError(w, err)
			return
		}
		for _, p := range players {
			if p.UID == playerID {
				writeJSON(w, http.StatusOK, PlayerRoleResponse{Role: p.Role.String()})
				return
			}
		}
		writeError(w, http.StatusNotFound, "player not found")
	}
}
