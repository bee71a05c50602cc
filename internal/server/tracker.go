package server

import "sync"

// conn is one live game connection bound to a (room, player) pair. The
// websocket handler drains ch into the socket; publishers never block
// on a slow client.
type conn struct {
	playerID string
	ch       chan []byte
}

// ConnTracker is the registry of live connections per room. It is an
// explicit object owned by the transport layer and handed to the
// broadcast gateway; there is deliberately no package-level state.
type ConnTracker struct {
	mu    sync.RWMutex
	rooms map[string]map[*conn]struct{}
}

func NewConnTracker() *ConnTracker {
	return &ConnTracker{
		rooms: make(map[string]map[*conn]struct{}),
	}
}

// Register binds a new connection to a room and player and returns its
// handle. The send channel is buffered; a publisher that finds it full
// drops the message rather than stall the whole room.
func (t *ConnTracker) Register(roomID, playerID string) *conn {
	c := &conn{playerID: playerID, ch: make(chan []byte, 16)}
	t.mu.Lock()
	if t.rooms[roomID] == nil {
		t.rooms[roomID] = make(map[*conn]struct{})
	}
	t.rooms[roomID][c] = struct{}{}
	t.mu.Unlock()
	return c
}

// Unregister removes a connection from its room.
func (t *ConnTracker) Unregister(roomID string, c *conn) {
	t.mu.Lock()
	delete(t.rooms[roomID], c)
	if len(t.rooms[roomID]) == 0 {
		delete(t.rooms, roomID)
	}
	t.mu.Unlock()
}

// Snapshot returns the room's current connections. The slice is a copy;
// callers push to it without holding the tracker lock.
func (t *ConnTracker) Snapshot(roomID string) []*conn {
	t.mu.RLock()
	defer t.mu.RUnlock()
	conns := make([]*conn, 0, len(t.rooms[roomID]))
	for c := range t.rooms[roomID] {
		conns = append(conns, c)
	}
	return conns
}

// Connected reports which players in the room have at least one live
// connection.
func (t *ConnTracker) Connected(roomID string) map[string]bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	online := make(map[string]bool, len(t.rooms[roomID]))
	for c := range t.rooms[roomID] {
		online[c.playerID] = true
	}
	return online
}

// send queues data for the connection, dropping it if the client
// cannot keep up.
func (c *conn) send(data []byte) {
	select {
	case c.ch <- data:
	default:
	}
}
