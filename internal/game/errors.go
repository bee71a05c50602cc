package game

import "errors"

// Sentinel errors form the engine's failure taxonomy. Callers branch
// with errors.Is; specific cases wrap these with a short, user-safe
// message.
var (
	// ErrNotFound: the room or the accused player does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState: the operation is illegal for the room's current
	// status (start on a playing room, accuse on an ended one, ...).
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidPlayerCount: start attempted without exactly six players.
	ErrInvalidPlayerCount = errors.New("invalid player count")

	// ErrUnauthorized: the actor is not the current seeker.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRuleViolation: the accusation targets the previous accused
	// again, or a player whose role is already revealed.
	ErrRuleViolation = errors.New("rule violation")

	// ErrNoDares: the safe dare pool is empty. Fails the one accusation
	// that needed it, not the room.
	ErrNoDares = errors.New("no dares available")
)

// IsTaxonomy reports whether err belongs to the taxonomy above, which
// means its message is short and safe to show to players. Anything
// else is an internal failure whose detail stays server-side.
func IsTaxonomy(err error) bool {
	for _, sentinel := range []error{
		ErrNotFound, ErrInvalidState, ErrInvalidPlayerCount,
		ErrUnauthorized, ErrRuleViolation, ErrNoDares,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
