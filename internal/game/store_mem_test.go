package game

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// memStore is an in-memory RoomStore for engine tests. Transact takes
// a snapshot and restores it when fn fails, so rollback behavior is
// observable.
type memStore struct {
	mu      sync.Mutex
	nextID  int
	rooms   map[string]Room
	players map[string][]Player
	dares   []Dare
}

func newMemStore() *memStore {
	return &memStore{
		rooms:   make(map[string]Room),
		players: make(map[string][]Player),
	}
}

func (m *memStore) CreateRoom(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	code := fmt.Sprintf("ROOM%02d", m.nextID)
	m.rooms[code] = Room{ID: code, Status: StatusWaiting, CreatedAt: time.Now()}
	return code, nil
}

func (m *memStore) InsertPlayer(ctx context.Context, roomID, uid, name string, isHost bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[roomID]; !ok {
		return fmt.Errorf("%w: room %s does not exist", ErrNotFound, roomID)
	}
	m.players[roomID] = append(m.players[roomID], Player{
		UID: uid, RoomID: roomID, Name: name, IsHost: isHost, JoinedAt: time.Now(),
	})
	sort.Slice(m.players[roomID], func(i, j int) bool {
		return m.players[roomID][i].UID < m.players[roomID][j].UID
	})
	return nil
}

func (m *memStore) GetRoom(ctx context.Context, roomID string) (Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return Room{}, fmt.Errorf("%w: room %s does not exist", ErrNotFound, roomID)
	}
	return room, nil
}

func (m *memStore) ListPlayers(ctx context.Context, roomID string) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	players := make([]Player, len(m.players[roomID]))
	copy(players, m.players[roomID])
	return players, nil
}

func (m *memStore) UpdateRoom(ctx context.Context, roomID string, u RoomUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return fmt.Errorf("%w: room %s does not exist", ErrNotFound, roomID)
	}
	if u.Status != nil {
		room.Status = *u.Status
	}
	if u.SeekerID != nil {
		room.SeekerID = *u.SeekerID
	}
	if u.RoleIndex != nil {
		room.RoleIndex = *u.RoleIndex
	}
	if u.LastAccusedID != nil {
		room.LastAccusedID = *u.LastAccusedID
	}
	if u.TimerEndsAt != nil {
		t := *u.TimerEndsAt
		room.TimerEndsAt = &t
	}
	m.rooms[roomID] = room
	return nil
}

func (m *memStore) UpdatePlayer(ctx context.Context, roomID, uid string, u PlayerUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.players[roomID] {
		p := &m.players[roomID][i]
		if p.UID != uid {
			continue
		}
		if u.Role != nil {
			p.Role = *u.Role
		}
		if u.Points != nil {
			p.Points = *u.Points
		}
		if u.Revealed != nil {
			p.Revealed = *u.Revealed
		}
		return nil
	}
	return fmt.Errorf("%w: player %s is not in room %s", ErrNotFound, uid, roomID)
}

func (m *memStore) LeastUsedSafeDares(ctx context.Context, limit int) ([]Dare, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var safe []Dare
	for _, d := range m.dares {
		if d.ClassroomSafe {
			safe = append(safe, d)
		}
	}
	sort.Slice(safe, func(i, j int) bool {
		if safe[i].UsedCount != safe[j].UsedCount {
			return safe[i].UsedCount < safe[j].UsedCount
		}
		return safe[i].ID < safe[j].ID
	})
	if len(safe) > limit {
		safe = safe[:limit]
	}
	return safe, nil
}

func (m *memStore) IncrementDareUsage(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.dares {
		if m.dares[i].ID == id {
			m.dares[i].UsedCount++
			return nil
		}
	}
	return fmt.Errorf("%w: dare %d does not exist", ErrNotFound, id)
}

func (m *memStore) Transact(ctx context.Context, fn func(RoomStore) error) error {
	snapshot := m.clone()
	if err := fn(m); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

func (m *memStore) clone() *memStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := newMemStore()
	c.nextID = m.nextID
	for id, room := range m.rooms {
		c.rooms[id] = room
	}
	for id, players := range m.players {
		cp := make([]Player, len(players))
		copy(cp, players)
		c.players[id] = cp
	}
	c.dares = make([]Dare, len(m.dares))
	copy(c.dares, m.dares)
	return c
}

func (m *memStore) restore(snapshot *memStore) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID = snapshot.nextID
	m.rooms = snapshot.rooms
	m.players = snapshot.players
	m.dares = snapshot.dares
}

func (m *memStore) seedDares(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range n {
		m.dares = append(m.dares, Dare{
			ID:            int64(i + 1),
			Text:          fmt.Sprintf("dare %d", i+1),
			ClassroomSafe: true,
		})
	}
}
