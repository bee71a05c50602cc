package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/evendeadiamthehero05-dot/thevaiya-paiya/internal/game"
)

// Outbound event types.
const (
	evRoomState        = "ROOM_STATE"
	evAccusationResult = "ACCUSATION_RESULT"
	evGameAborted      = "GAME_ABORTED"
	evError            = "ERROR"
)

// outEvent is the envelope for every message pushed to a client.
type outEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// PlayerView is one player as a given recipient is allowed to see
// them. Role is present only when that recipient may see it.
type PlayerView struct {
	UID         string `json:"uid"`
	Name        string `json:"name"`
	Role        string `json:"role,omitempty"`
	Points      int    `json:"points"`
	HasRevealed bool   `json:"hasRevealed"`
	IsHost      bool   `json:"isHost"`
	Connected   bool   `json:"connected"`
}

// RoomProjection is the tailored room state pushed to one recipient.
type RoomProjection struct {
	RoomID           string       `json:"roomId"`
	Status           string       `json:"status"`
	CurrentSeekerID  string       `json:"currentSeekerId,omitempty"`
	CurrentRoleIndex int          `json:"currentRoleIndex"`
	TargetRole       string       `json:"targetRole,omitempty"`
	LastAccusedID    string       `json:"lastAccusedPlayerId,omitempty"`
	TimerEndsAt      *time.Time   `json:"timerEndsAt,omitempty"`
	Players          []PlayerView `json:"players"`
}

// buildProjection filters room state for one recipient: a player's
// role is visible only once the game has ended, once that player is
// revealed, or to the player themselves.
func buildProjection(room game.Room, players []game.Player, online map[string]bool, recipientID string) RoomProjection {
	proj := RoomProjection{
		RoomID:           room.ID,
		Status:           string(room.Status),
		CurrentSeekerID:  room.SeekerID,
		CurrentRoleIndex: room.RoleIndex,
		LastAccusedID:    room.LastAccusedID,
		TimerEndsAt:      room.TimerEndsAt,
		Players:          make([]PlayerView, 0, len(players)),
	}
	if room.Status == game.StatusPlaying && room.RoleIndex < len(game.RoleOrder) {
		proj.TargetRole = game.RoleOrder[room.RoleIndex].String()
	}

	for _, p := range players {
		view := PlayerView{
			UID:         p.UID,
			Name:        p.Name,
			Points:      p.Points,
			HasRevealed: p.Revealed,
			IsHost:      p.IsHost,
			Connected:   online[p.UID],
		}
		if p.Role != game.RoleNone {
			if room.Status == game.StatusEnded || p.Revealed || p.UID == recipientID {
				view.Role = p.Role.String()
			}
		}
		proj.Players = append(proj.Players, view)
	}
	return proj
}

// Gateway pushes privacy-filtered room state to every connection in a
// room after a committed state change.
type Gateway struct {
	store   game.RoomStore
	tracker *ConnTracker
	logger  *slog.Logger
}

func NewGateway(store game.RoomStore, tracker *ConnTracker, logger *slog.Logger) *Gateway {
	return &Gateway{store: store, tracker: tracker, logger: logger}
}

// BroadcastRoom reads the latest committed room state and pushes a
// per-recipient projection to each live connection. Recipients get
// individually tailored payloads; no one sees a role the filter hides
// from them.
func (g *Gateway) BroadcastRoom(ctx context.Context, roomID string) {
	room, err := g.store.GetRoom(ctx, roomID)
	if err != nil {
		g.logger.Error("broadcast: fetching room failed", "room", roomID, "error", err)
		return
	}
	players, err := g.store.ListPlayers(ctx, roomID)
	if err != nil {
		g.logger.Error("broadcast: listing players failed", "room", roomID, "error", err)
		return
	}

	online := g.tracker.Connected(roomID)
	for _, c := range g.tracker.Snapshot(roomID) {
		proj := buildProjection(room, players, online, c.playerID)
		data, err := json.Marshal(outEvent{Type: evRoomState, Payload: proj})
		if err != nil {
			// One bad payload must not starve the rest of the room.
			g.logger.Error("broadcast: encoding projection failed", "room", roomID, "error", err)
			continue
		}
		c.send(data)
	}
}

// Publish sends the same event to every connection in the room.
func (g *Gateway) Publish(roomID, typ string, payload any) {
	data, err := json.Marshal(outEvent{Type: typ, Payload: payload})
	if err != nil {
		g.logger.Error("broadcast: encoding event failed", "room", roomID, "type", typ, "error", err)
		return
	}
	for _, c := range g.tracker.Snapshot(roomID) {
		c.send(data)
	}
}
