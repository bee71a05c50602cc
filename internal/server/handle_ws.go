package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/evendeadiamthehero05-dot/thevaiya-paiya/internal/game"
)

// Inbound event types.
const (
	evJoinRoom       = "JOIN_ROOM"
	evStartGame      = "START_GAME"
	evMakeAccusation = "MAKE_ACCUSATION"
	evResetGame      = "RESET_GAME"
	evDareCompleted  = "DARE_COMPLETED"
)

type inEvent struct {
	Type      string `json:"type"`
	RoomID    string `json:"roomId"`
	PlayerID  string `json:"playerId"`
	SeekerID  string `json:"seekerId"`
	AccusedID string `json:"accusedId"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type darePayload struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type accusationResultPayload struct {
	IsCorrect    bool         `json:"isCorrect"`
	NewSeekerID  string       `json:"newSeekerId"`
	NextRole     *string      `json:"nextRole"`
	PointsEarned int          `json:"pointsEarned,omitempty"`
	Dare         *darePayload `json:"dare,omitempty"`
	GameEnded    bool         `json:"gameEnded,omitempty"`
}

type abortPayload struct {
	Reason   string `json:"reason"`
	PlayerID string `json:"playerId"`
}

// handleGameSocket is the realtime game channel. A client joins its
// room with JOIN_ROOM and then drives the game with START_GAME,
// MAKE_ACCUSATION, RESET_GAME and DARE_COMPLETED. State is pushed as
// per-recipient ROOM_STATE projections; a dropped connection aborts
// the player's room.
func handleGameSocket(logger *slog.Logger, store game.RoomStore, engine *game.Engine, gateway *Gateway, tracker *ConnTracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer ws.CloseNow()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		var (
			bound    *conn
			roomID   string
			playerID string
		)

		sendError := func(msg string) {
			data, err := json.Marshal(outEvent{Type: evError, Payload: errorPayload{Message: msg}})
			if err != nil {
				return
			}
			if bound != nil {
				bound.send(data)
				return
			}
			if err := ws.Write(ctx, websocket.MessageText, data); err != nil {
				logger.Debug("websocket write failed", "error", err)
			}
		}

		for {
			_, data, err := ws.Read(ctx)
			if err != nil {
				logger.Debug("websocket read ended", "error", err)
				break
			}

			var ev inEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				sendError("invalid message")
				continue
			}

			switch ev.Type {
			case evJoinRoom:
				if bound != nil {
					sendError("already joined a room")
					continue
				}
				if !playerInRoom(ctx, store, ev.RoomID, ev.PlayerID) {
					sendError("room or player not found")
					continue
				}
				roomID, playerID = ev.RoomID, ev.PlayerID
				bound = tracker.Register(roomID, playerID)
				go writePump(ctx, ws, bound.ch, logger)
				logger.Info("player connected", "room", roomID, "player", playerID)
				gateway.BroadcastRoom(ctx, roomID)

			case evStartGame:
				if err := engine.Start(ctx, ev.RoomID); err != nil {
					sendError(userMessage(err))
					continue
				}
				gateway.BroadcastRoom(ctx, ev.RoomID)

			case evMakeAccusation:
				res, err := engine.Accuse(ctx, ev.RoomID, ev.SeekerID, ev.AccusedID)
				if err != nil {
					sendError(userMessage(err))
					continue
				}
				gateway.Publish(ev.RoomID, evAccusationResult, accusationPayload(res))
				gateway.BroadcastRoom(ctx, ev.RoomID)

			case evResetGame:
				if err := engine.Reset(ctx, ev.RoomID); err != nil {
					sendError(userMessage(err))
					continue
				}
				gateway.BroadcastRoom(ctx, ev.RoomID)

			case evDareCompleted:
				// The dare itself carries no state; everyone just gets a
				// fresh look at the room.
				gateway.BroadcastRoom(ctx, ev.RoomID)

			default:
				sendError("unknown event type")
			}
		}

		if bound == nil {
			return
		}

		// The request context is gone once the socket drops; the abort
		// still has to commit and be announced.
		tracker.Unregister(roomID, bound)
		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dcancel()

		departed, aborted, err := engine.Abort(dctx, roomID, playerID)
		if err != nil {
			logger.Error("abort after disconnect failed", "room", roomID, "player", playerID, "error", err)
			return
		}
		if aborted {
			name := departed.Name
			if name == "" {
				name = "a player"
			}
			gateway.Publish(roomID, evGameAborted, abortPayload{
				Reason:   name + " disconnected",
				PlayerID: playerID,
			})
			gateway.BroadcastRoom(dctx, roomID)
		}
	}
}

func playerInRoom(ctx context.Context, store game.RoomStore, roomID, playerID string) bool {
	players, err := store.ListPlayers(ctx, roomID)
	if err != nil {
		return false
	}
	for _, p := range players {
		if p.UID == playerID {
			return true
		}
	}
	return false
}

func accusationPayload(res game.AccusationResult) accusationResultPayload {
	payload := accusationResultPayload{
		IsCorrect:    res.Correct,
		NewSeekerID:  res.NewSeekerID,
		PointsEarned: res.PointsEarned,
		GameEnded:    res.GameEnded,
	}
	if res.NextRole != nil {
		name := res.NextRole.String()
		payload.NextRole = &name
	}
	if res.Dare != nil {
		payload.Dare = &darePayload{ID: res.Dare.ID, Text: res.Dare.Text}
	}
	return payload
}

// userMessage keeps engine taxonomy messages and hides everything
// else behind a generic line.
func userMessage(err error) string {
	if game.IsTaxonomy(err) {
		return err.Error()
	}
	return "something went wrong, please try again"
}

func writePump(ctx context.Context, ws *websocket.Conn, ch <-chan []byte, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-ch:
			if err := ws.Write(ctx, websocket.MessageText, data); err != nil {
				logger.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}
