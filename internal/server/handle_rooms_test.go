package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/evendeadiamthehero05-dot/thevaiya-paiya/internal/game"
)

func createRoom(t *testing.T, r *chi.Mux, hostName string) CreateRoomResponse {
	t.Helper()

	body, _ := json.Marshal(CreateRoomRequest{PlayerName: hostName})
	req := httptest.NewRequest(http.MethodPost, "/api/rooms", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("create room: status = %d, body %s", rec.Code, rec.Body)
	}
	var resp CreateRoomResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding create response: %v", err)
	}
	return resp
}

func joinRoom(t *testing.T, r *chi.Mux, roomID, name string) (JoinRoomResponse, int) {
	t.Helper()

	body, _ := json.Marshal(JoinRoomRequest{PlayerName: name})
	req := httptest.NewRequest(http.MethodPost, "/api/rooms/"+roomID+"/join", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var resp JoinRoomResponse
	json.Unmarshal(rec.Body.Bytes(), &resp)
	return resp, rec.Code
}

func TestCreateRoom(t *testing.T) {
	r, _ := newTestRouter(t)

	resp := createRoom(t, r, "maya")
	if len(resp.RoomID) != roomCodeLength {
		t.Errorf("room code %q, want %d characters", resp.RoomID, roomCodeLength)
	}
	if !resp.Player.IsHost {
		t.Error("creator is not host")
	}
	if resp.Player.UID == "" {
		t.Error("host has no uid")
	}
}

func TestCreateRoomValidation(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/rooms", bytes.NewReader([]byte(`{"playerName":"  "}`)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestJoinRoom(t *testing.T) {
	r, _ := newTestRouter(t)
	room := createRoom(t, r, "maya")

	resp, code := joinRoom(t, r, room.RoomID, "arun")
	if code != http.StatusOK {
		t.Fatalf("join: status = %d", code)
	}
	if resp.Player.UID == "" || resp.Player.IsHost {
		t.Errorf("joined player = %+v, want non-host with uid", resp.Player)
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	r, _ := newTestRouter(t)

	_, code := joinRoom(t, r, "NOSUCH", "arun")
	if code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", code, http.StatusNotFound)
	}
}

func TestJoinFullRoomRejected(t *testing.T) {
	r, _ := newTestRouter(t)
	room := createRoom(t, r, "maya")

	for i := range 5 {
		if _, code := joinRoom(t, r, room.RoomID, fmt.Sprintf("p%d", i)); code != http.StatusOK {
			t.Fatalf("join %d: status = %d", i, code)
		}
	}

	_, code := joinRoom(t, r, room.RoomID, "seventh")
	if code != http.StatusConflict {
		t.Fatalf("seventh join: status = %d, want %d", code, http.StatusConflict)
	}
}

func TestGetRoomHidesRoles(t *testing.T) {
	r, store := newTestRouter(t)
	room := createRoom(t, r, "maya")
	for i := range 5 {
		joinRoom(t, r, room.RoomID, fmt.Sprintf("p%d", i))
	}

	// Start the game directly through the engine.
	engine := game.NewEngine(store, game.NewDareProvider(store), discardLogger())
	if err := engine.Start(context.Background(), room.RoomID); err != nil {
		t.Fatalf("start: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/"+room.RoomID+"?playerId="+room.Player.UID, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var proj RoomProjection
	if err := json.Unmarshal(rec.Body.Bytes(), &proj); err != nil {
		t.Fatalf("decoding projection: %v", err)
	}

	if proj.Status != string(game.StatusPlaying) {
		t.Errorf("status = %s, want playing", proj.Status)
	}
	for _, p := range proj.Players {
		if p.UID == room.Player.UID {
			if p.Role == "" {
				t.Error("requester's own role hidden")
			}
			continue
		}
		if p.Role != "" {
			t.Errorf("player %s role %q visible to another player", p.UID, p.Role)
		}
	}
}

func TestGetPlayerRole(t *testing.T) {
	r, store := newTestRouter(t)
	room := createRoom(t, r, "maya")
	for i := range 5 {
		joinRoom(t, r, room.RoomID, fmt.Sprintf("p%d", i))
	}
	engine := game.NewEngine(store, game.NewDareProvider(store), discardLogger())
	if err := engine.Start(context.Background(), room.RoomID); err != nil {
		t.Fatalf("start: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/"+room.RoomID+"/players/"+room.Player.UID+"/role", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp PlayerRoleResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding role: %v", err)
	}
	if _, ok := game.ParseRole(resp.Role); !ok {
		t.Errorf("role %q is not a known role", resp.Role)
	}
}

func TestGetUnknownRoom(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/rooms/NOSUCH", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
