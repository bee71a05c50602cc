package game

import "sync"

// roomLocks serializes mutating operations per room. Start, accuse and
// abort on the same room can never interleave their reads and writes;
// operations on different rooms proceed in parallel.
type roomLocks struct {
	mu    sync.Mutex
	rooms map[string]*sync.Mutex
}

// acquire locks the given room and returns the matching unlock.
// Entries are kept for the life of the process; rooms are small and
// short-lived enough that reaping is not worth the bookkeeping.
func (l *roomLocks) acquire(roomID string) func() {
	l.mu.Lock()
	if l.rooms == nil {
		l.rooms = make(map[string]*sync.Mutex)
	}
	m, ok := l.rooms[roomID]
	if !ok {
		m = &sync.Mutex{}
		l.rooms[roomID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
