package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// CreateRoom allocates a new waiting room together with its host
// player; the two are created in one transaction so a room never
// exists without a host.
func (e *Engine) CreateRoom(ctx context.Context, hostName string) (string, Player, error) {
	host := Player{
		UID:    uuid.NewString(),
		Name:   hostName,
		IsHost: true,
	}

	var roomID string
	err := e.store.Transact(ctx, func(tx RoomStore) error {
		id, err := tx.CreateRoom(ctx)
		if err != nil {
			return err
		}
		roomID = id
		return tx.InsertPlayer(ctx, id, host.UID, hostName, true)
	})
	if err != nil {
		return "", Player{}, fmt.Errorf("creating room: %w", err)
	}

	host.RoomID = roomID
	e.logger.Info("room created", "room", roomID, "host", host.UID)
	return roomID, host, nil
}

// Join adds a player to a waiting room. Taking the room lock here
// keeps a burst of joins from overfilling the room.
func (e *Engine) Join(ctx context.Context, roomID, name string) (Player, error) {
	unlock := e.locks.acquire(roomID)
	defer unlock()

	room, err := e.store.GetRoom(ctx, roomID)
	if err != nil {
		return Player{}, err
	}
	if room.Status != StatusWaiting {
		return Player{}, fmt.Errorf("%w: game has already started", ErrInvalidState)
	}

	players, err := e.store.ListPlayers(ctx, roomID)
	if err != nil {
		return Player{}, err
	}
	if len(players) >= PlayerCount {
		return Player{}, fmt.Errorf("%w: room is full (max %d players)", ErrInvalidPlayerCount, PlayerCount)
	}

	p := Player{
		UID:    uuid.NewString(),
		RoomID: roomID,
		Name:   name,
	}
	if err := e.store.InsertPlayer(ctx, roomID, p.UID, name, false); err != nil {
		return Player{}, fmt.Errorf("joining room: %w", err)
	}

	e.logger.Info("player joined", "room", roomID, "player", p.UID)
	return p, nil
}
