package game

import (
	"context"
	"fmt"
	"time"
)

// AccusationResult is what one resolved accusation reports back to the
// room. NextRole and PointsEarned are only set on a correct guess, Dare
// only on an incorrect one.
type AccusationResult struct {
	Correct      bool
	NewSeekerID  string
	NextRole     *Role
	PointsEarned int
	Dare         *Dare
	GameEnded    bool
}

// Accuse resolves one accusation by the current seeker against another
// player. A correct guess reveals the accused, awards the target
// role's points to the seeker, advances the role index and hands the
// seeker title to the accused; the hunt ends when the last role is
// found. An incorrect guess draws a penalty dare, swaps the two
// players' roles and still hands the seeker title to the accused. All
// mutations for one accusation commit as a single unit.
func (e *Engine) Accuse(ctx context.Context, roomID, seekerID, accusedID string) (AccusationResult, error) {
	unlock := e.locks.acquire(roomID)
	defer unlock()

	room, err := e.store.GetRoom(ctx, roomID)
	if err != nil {
		return AccusationResult{}, err
	}
	if room.Status != StatusPlaying {
		return AccusationResult{}, fmt.Errorf("%w: game is not currently playing", ErrInvalidState)
	}
	if room.SeekerID != seekerID {
		return AccusationResult{}, fmt.Errorf("%w: only the current seeker can accuse", ErrUnauthorized)
	}
	if room.LastAccusedID != "" && room.LastAccusedID == accusedID {
		return AccusationResult{}, fmt.Errorf("%w: cannot accuse the same player twice in a row", ErrRuleViolation)
	}

	players, err := e.store.ListPlayers(ctx, roomID)
	if err != nil {
		return AccusationResult{}, err
	}
	// Independent lookups: a seeker accusing themselves is a legal,
	// ordinary incorrect accusation, not a missing player.
	var seeker, accused *Player
	for i := range players {
		if players[i].UID == seekerID {
			seeker = &players[i]
		}
		if players[i].UID == accusedID {
			accused = &players[i]
		}
	}
	if accused == nil {
		return AccusationResult{}, fmt.Errorf("%w: accused player is not in this room", ErrNotFound)
	}
	if accused.Revealed {
		return AccusationResult{}, fmt.Errorf("%w: that player's role is already revealed", ErrRuleViolation)
	}

	target := RoleOrder[room.RoleIndex]

	var res AccusationResult
	if accused.Role == target {
		res, err = e.resolveCorrect(ctx, room, seeker, accused, target)
	} else {
		res, err = e.resolveWrong(ctx, room, seeker, accused)
	}
	if err != nil {
		return AccusationResult{}, err
	}

	e.logger.Info("accusation resolved",
		"room", roomID,
		"seeker", seekerID,
		"accused", accusedID,
		"target", target.String(),
		"correct", res.Correct,
		"game_ended", res.GameEnded,
	)
	return res, nil
}

func (e *Engine) resolveCorrect(ctx context.Context, room Room, seeker, accused *Player, target Role) (AccusationResult, error) {
	res := AccusationResult{
		Correct:      true,
		NewSeekerID:  accused.UID,
		PointsEarned: target.Points(),
	}

	nextIdx := room.RoleIndex + 1
	points := seeker.Points + target.Points()
	revealed := true
	timer := time.Now().Add(TurnTimer)

	err := e.store.Transact(ctx, func(tx RoomStore) error {
		if err := tx.UpdatePlayer(ctx, room.ID, accused.UID, PlayerUpdate{Revealed: &revealed}); err != nil {
			return err
		}
		if err := tx.UpdatePlayer(ctx, room.ID, seeker.UID, PlayerUpdate{Points: &points}); err != nil {
			return err
		}

		seekerID := accused.UID
		clear := ""
		if nextIdx >= len(RoleOrder) {
			// Every role has been found; the accused is the final named
			// seeker but no new turn begins.
			status := StatusEnded
			res.GameEnded = true
			return tx.UpdateRoom(ctx, room.ID, RoomUpdate{
				Status:        &status,
				SeekerID:      &seekerID,
				RoleIndex:     &nextIdx,
				LastAccusedID: &clear,
			})
		}

		next := RoleOrder[nextIdx]
		res.NextRole = &next
		return tx.UpdateRoom(ctx, room.ID, RoomUpdate{
			SeekerID:      &seekerID,
			RoleIndex:     &nextIdx,
			LastAccusedID: &clear,
			TimerEndsAt:   &timer,
		})
	})
	if err != nil {
		return AccusationResult{}, fmt.Errorf("resolving accusation: %w", err)
	}
	return res, nil
}

func (e *Engine) resolveWrong(ctx context.Context, room Room, seeker, accused *Player) (AccusationResult, error) {
	res := AccusationResult{
		Correct:     false,
		NewSeekerID: accused.UID,
	}

	seekerRole := seeker.Role
	accusedRole := accused.Role
	timer := time.Now().Add(TurnTimer)

	err := e.store.Transact(ctx, func(tx RoomStore) error {
		dare, err := e.dares.draw(ctx, tx)
		if err != nil {
			return err
		}
		res.Dare = &dare

		// The two exchange roles; the room's role multiset is unchanged.
		if err := tx.UpdatePlayer(ctx, room.ID, seeker.UID, PlayerUpdate{Role: &accusedRole}); err != nil {
			return err
		}
		if err := tx.UpdatePlayer(ctx, room.ID, accused.UID, PlayerUpdate{Role: &seekerRole}); err != nil {
			return err
		}

		seekerID := accused.UID
		lastAccused := accused.UID
		return tx.UpdateRoom(ctx, room.ID, RoomUpdate{
			SeekerID:      &seekerID,
			LastAccusedID: &lastAccused,
			TimerEndsAt:   &timer,
		})
	})
	if err != nil {
		if res.Dare == nil {
			// Dare pool exhausted or unreadable; the room is untouched.
			return AccusationResult{}, err
		}
		return AccusationResult{}, fmt.Errorf("resolving accusation: %w", err)
	}
	return res, nil
}
