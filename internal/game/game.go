// Package game implements the authoritative room engine: role
// assignment, turn progression, accusation resolution, penalty dare
// selection, and the error taxonomy shared with the transport layer.
package game

import "time"

// PlayerCount is fixed: a round needs one player per role.
const PlayerCount = 6

// TurnTimer is the advisory per-turn window. The server records the
// deadline and projects it to clients but never enforces it; a client
// that runs out of time decides locally what to submit.
const TurnTimer = 30 * time.Second

type RoomStatus string

const (
	StatusWaiting RoomStatus = "waiting"
	StatusPlaying RoomStatus = "playing"
	StatusEnded   RoomStatus = "ended"
	StatusAborted RoomStatus = "aborted"
)

type Room struct {
	ID            string
	Status        RoomStatus
	SeekerID      string
	RoleIndex     int
	LastAccusedID string
	TimerEndsAt   *time.Time
	CreatedAt     time.Time
}

type Player struct {
	UID      string
	RoomID   string
	Name     string
	Role     Role
	Points   int
	Revealed bool
	IsHost   bool
	JoinedAt time.Time
}

type Dare struct {
	ID            int64
	Text          string
	ClassroomSafe bool
	UsedCount     int
}
