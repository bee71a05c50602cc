package game

import (
	"context"
	"time"
)

// RoomStore is the persistence contract the engine runs against. The
// engine reads current state, computes the full mutation, then commits
// it inside a single Transact call so a mid-sequence failure leaves
// records untouched.
type RoomStore interface {
	// CreateRoom allocates a new room in waiting status and returns its
	// short code. Code uniqueness and collision retry are the store's
	// responsibility.
	CreateRoom(ctx context.Context) (string, error)
	InsertPlayer(ctx context.Context, roomID, uid, name string, isHost bool) error

	GetRoom(ctx context.Context, roomID string) (Room, error)
	// ListPlayers returns the room's players in a stable order (by uid).
	ListPlayers(ctx context.Context, roomID string) ([]Player, error)

	UpdateRoom(ctx context.Context, roomID string, u RoomUpdate) error
	UpdatePlayer(ctx context.Context, roomID, uid string, u PlayerUpdate) error

	// LeastUsedSafeDares returns up to limit classroom-safe dares
	// ordered by ascending usage.
	LeastUsedSafeDares(ctx context.Context, limit int) ([]Dare, error)
	IncrementDareUsage(ctx context.Context, id int64) error

	// Transact runs fn against a store view whose writes commit
	// atomically, or not at all if fn returns an error.
	Transact(ctx context.Context, fn func(RoomStore) error) error
}

// RoomUpdate is a partial room mutation; nil fields are left untouched.
// An empty-string LastAccusedID clears the repeat-target marker.
type RoomUpdate struct {
	Status        *RoomStatus
	SeekerID      *string
	RoleIndex     *int
	LastAccusedID *string
	TimerEndsAt   *time.Time
}

// PlayerUpdate is a partial player mutation; nil fields are left
// untouched.
type PlayerUpdate struct {
	Role     *Role
	Points   *int
	Revealed *bool
}
