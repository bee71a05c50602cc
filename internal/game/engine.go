package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

// Engine owns the room state machine. All mutating entry points take
// the per-room lock for their full read-compute-commit sequence.
type Engine struct {
	store  RoomStore
	dares  *DareProvider
	logger *slog.Logger
	locks  roomLocks
}

func NewEngine(store RoomStore, dares *DareProvider, logger *slog.Logger) *Engine {
	return &Engine{
		store:  store,
		dares:  dares,
		logger: logger,
	}
}

// Start deals a uniformly random permutation of the role set to the
// six players, makes the anchor-role holder the first seeker, and
// moves the room to playing with the first target at role index 1.
func (e *Engine) Start(ctx context.Context, roomID string) error {
	unlock := e.locks.acquire(roomID)
	defer unlock()

	room, err := e.store.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.Status != StatusWaiting {
		return fmt.Errorf("%w: game already started", ErrInvalidState)
	}

	players, err := e.store.ListPlayers(ctx, roomID)
	if err != nil {
		return err
	}
	if len(players) != PlayerCount {
		return fmt.Errorf("%w: game requires exactly %d players, have %d", ErrInvalidPlayerCount, PlayerCount, len(players))
	}

	deal := shuffledRoles()
	seekerID := ""
	for i, p := range players {
		if deal[i] == AnchorRole {
			seekerID = p.UID
		}
	}

	timer := time.Now().Add(TurnTimer)
	err = e.store.Transact(ctx, func(tx RoomStore) error {
		for i, p := range players {
			role := deal[i]
			if err := tx.UpdatePlayer(ctx, roomID, p.UID, PlayerUpdate{Role: &role}); err != nil {
				return err
			}
		}
		status := StatusPlaying
		idx := 1
		return tx.UpdateRoom(ctx, roomID, RoomUpdate{
			Status:      &status,
			SeekerID:    &seekerID,
			RoleIndex:   &idx,
			TimerEndsAt: &timer,
		})
	})
	if err != nil {
		return fmt.Errorf("starting game: %w", err)
	}

	e.logger.Info("game started",
		"room", roomID,
		"seeker", seekerID,
		"first_target", RoleOrder[1].String(),
	)
	return nil
}

// Reset begins a new round in an ended room: points and reveal flags
// are cleared and roles are redealt. Unlike Start, the seeker is not
// drawn from the permutation: the first player in uid order takes the
// anchor role and the remaining roles are shuffled over the rest.
func (e *Engine) Reset(ctx context.Context, roomID string) error {
	unlock := e.locks.acquire(roomID)
	defer unlock()

	room, err := e.store.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.Status != StatusEnded {
		return fmt.Errorf("%w: can only restart a finished game", ErrInvalidState)
	}

	players, err := e.store.ListPlayers(ctx, roomID)
	if err != nil {
		return err
	}
	if len(players) != PlayerCount {
		return fmt.Errorf("%w: game requires exactly %d players, have %d", ErrInvalidPlayerCount, PlayerCount, len(players))
	}

	deal := anchorFirstRoles()
	seekerID := players[0].UID

	timer := time.Now().Add(TurnTimer)
	err = e.store.Transact(ctx, func(tx RoomStore) error {
		for i, p := range players {
			role := deal[i]
			zero := 0
			hidden := false
			err := tx.UpdatePlayer(ctx, roomID, p.UID, PlayerUpdate{
				Role:     &role,
				Points:   &zero,
				Revealed: &hidden,
			})
			if err != nil {
				return err
			}
		}
		status := StatusPlaying
		idx := 1
		clear := ""
		return tx.UpdateRoom(ctx, roomID, RoomUpdate{
			Status:        &status,
			SeekerID:      &seekerID,
			RoleIndex:     &idx,
			LastAccusedID: &clear,
			TimerEndsAt:   &timer,
		})
	})
	if err != nil {
		return fmt.Errorf("resetting game: %w", err)
	}

	e.logger.Info("game reset", "room", roomID, "seeker", seekerID)
	return nil
}

// Abort moves a room to aborted after one of its players disconnects.
// It reports the departed player and whether this call performed the
// transition; a room that is already ended or aborted is left alone,
// so near-simultaneous disconnects abort exactly once.
func (e *Engine) Abort(ctx context.Context, roomID, uid string) (Player, bool, error) {
	unlock := e.locks.acquire(roomID)
	defer unlock()

	room, err := e.store.GetRoom(ctx, roomID)
	if err != nil {
		return Player{}, false, err
	}
	if room.Status != StatusWaiting && room.Status != StatusPlaying {
		return Player{}, false, nil
	}

	players, err := e.store.ListPlayers(ctx, roomID)
	if err != nil {
		return Player{}, false, err
	}
	var departed Player
	for _, p := range players {
		if p.UID == uid {
			departed = p
		}
	}

	status := StatusAborted
	if err := e.store.UpdateRoom(ctx, roomID, RoomUpdate{Status: &status}); err != nil {
		return Player{}, false, fmt.Errorf("aborting game: %w", err)
	}

	e.logger.Info("game aborted", "room", roomID, "departed", uid)
	return departed, true, nil
}

// shuffledRoles returns a uniformly random permutation of the role set.
func shuffledRoles() [PlayerCount]Role {
	deal := RoleOrder
	rand.Shuffle(len(deal), func(i, j int) {
		deal[i], deal[j] = deal[j], deal[i]
	})
	return deal
}

// anchorFirstRoles pins the anchor role to the first slot and shuffles
// the remaining roles behind it.
func anchorFirstRoles() [PlayerCount]Role {
	deal := RoleOrder
	rand.Shuffle(len(deal)-1, func(i, j int) {
		deal[i+1], deal[j+1] = deal[j+1], deal[i+1]
	})
	return deal
}
