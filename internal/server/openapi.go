package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Thevaiya Paiya API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Thevaiya Paiya party game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /ws/game
	getWSGame, _ := r.NewOperationContext(http.MethodGet, "/ws/game")
	getWSGame.SetSummary("Game channel")
	getWSGame.SetDescription("Upgrades to the realtime WebSocket game channel. Send JOIN_ROOM first, then START_GAME / MAKE_ACCUSATION / RESET_GAME / DARE_COMPLETED.")
	getWSGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWSGame)

	// POST /api/rooms
	postRoom, _ := r.NewOperationContext(http.MethodPost, "/api/rooms")
	postRoom.SetSummary("Create room")
	postRoom.SetDescription("Creates a new room with the caller as host. Returns the room code and host player.")
	postRoom.AddReqStructure(CreateRoomRequest{})
	postRoom.AddRespStructure(CreateRoomResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postRoom)

	// POST /api/rooms/{roomID}/join
	postJoin, _ := r.NewOperationContext(http.MethodPost, "/api/rooms/{roomID}/join")
	postJoin.SetSummary("Join room")
	postJoin.SetDescription("Joins a waiting room by code. Fails once the game has started or the room holds six players.")
	postJoin.AddReqStructure(JoinRoomRequest{})
	postJoin.AddRespStructure(JoinRoomResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postJoin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postJoin)

	// GET /api/rooms/{roomID}
	getRoom, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{roomID}")
	getRoom.SetSummary("Get room state")
	getRoom.SetDescription("Returns the room projection. Pass playerId to keep your own role visible; unrevealed roles of others are hidden.")
	getRoom.AddRespStructure(RoomProjection{}, openapi.WithHTTPStatus(http.StatusOK))
	getRoom.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getRoom)

	// GET /api/rooms/{roomID}/players/{playerID}/role
	getRole, _ := r.NewOperationContext(http.MethodGet, "/api/rooms/{roomID}/players/{playerID}/role")
	getRole.SetSummary("Get own role")
	getRole.SetDescription("Private role lookup for a single player.")
	getRole.AddRespStructure(PlayerRoleResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getRole.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getRole)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
