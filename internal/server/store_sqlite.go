package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/evendeadiamthehero05-dot/thevaiya-paiya/internal/game"
)

const (
	roomCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	roomCodeLength   = 6
	roomCodeAttempts = 5
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx,
// so the same store methods run both standalone and inside Transact.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLiteStore implements game.RoomStore on a libSQL database.
type SQLiteStore struct {
	db *sql.DB // nil for the transaction-scoped view
	q  querier
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, q: db}
}

// CreateRoom inserts a fresh waiting room under a random 6-character
// code, retrying when the code collides with an existing room.
func (s *SQLiteStore) CreateRoom(ctx context.Context) (string, error) {
	for range roomCodeAttempts {
		code := newRoomCode()
		res, err := s.q.ExecContext(ctx, `
			INSERT OR IGNORE INTO rooms (room_id, status) VALUES (?, 'waiting')
		`, code)
		if err != nil {
			return "", fmt.Errorf("creating room: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 1 {
			return code, nil
		}
	}
	return "", fmt.Errorf("creating room: no unique code after %d attempts", roomCodeAttempts)
}

func newRoomCode() string {
	var b [roomCodeLength]byte
	for i := range b {
		b[i] = roomCodeAlphabet[rand.IntN(len(roomCodeAlphabet))]
	}
	return string(b[:])
}

func (s *SQLiteStore) InsertPlayer(ctx context.Context, roomID, uid, name string, isHost bool) error {
	host := 0
	if isHost {
		host = 1
	}
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO players (room_id, uid, name, is_host) VALUES (?, ?, ?, ?)
	`, roomID, uid, name, host)
	if err != nil {
		return fmt.Errorf("inserting player: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetRoom(ctx context.Context, roomID string) (game.Room, error) {
	var (
		room        game.Room
		status      string
		seekerID    sql.NullString
		lastAccused sql.NullString
		timerEndsAt sql.NullString
		createdAt   string
	)
	err := s.q.QueryRowContext(ctx, `
		SELECT room_id, status, current_seeker_id, current_role_index,
		       last_accused_uid, timer_ends_at, created_at
		FROM rooms WHERE room_id = ?
	`, roomID).Scan(&room.ID, &status, &seekerID, &room.RoleIndex, &lastAccused, &timerEndsAt, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return game.Room{}, fmt.Errorf("%w: room %s does not exist", game.ErrNotFound, roomID)
	}
	if err != nil {
		return game.Room{}, fmt.Errorf("fetching room: %w", err)
	}

	room.Status = game.RoomStatus(status)
	room.SeekerID = seekerID.String
	room.LastAccusedID = lastAccused.String
	if timerEndsAt.Valid {
		if t, err := time.Parse(time.RFC3339, timerEndsAt.String); err == nil {
			room.TimerEndsAt = &t
		}
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		room.CreatedAt = t
	}
	return room, nil
}

func (s *SQLiteStore) ListPlayers(ctx context.Context, roomID string) ([]game.Player, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT uid, room_id, name, role, points, has_revealed, is_host, created_at
		FROM players WHERE room_id = ? ORDER BY uid
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	defer rows.Close()

	var players []game.Player
	for rows.Next() {
		var (
			p        game.Player
			role     sql.NullString
			revealed int
			host     int
			joinedAt string
		)
		if err := rows.Scan(&p.UID, &p.RoomID, &p.Name, &role, &p.Points, &revealed, &host, &joinedAt); err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		if role.Valid {
			if r, ok := game.ParseRole(role.String); ok {
				p.Role = r
			}
		}
		p.Revealed = revealed == 1
		p.IsHost = host == 1
		if t, err := time.Parse(time.RFC3339, joinedAt); err == nil {
			p.JoinedAt = t
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *SQLiteStore) UpdateRoom(ctx context.Context, roomID string, u game.RoomUpdate) error {
	var (
		set  []string
		args []any
	)
	if u.Status != nil {
		set, args = append(set, "status = ?"), append(args, string(*u.Status))
	}
	if u.SeekerID != nil {
		set, args = append(set, "current_seeker_id = ?"), append(args, *u.SeekerID)
	}
	if u.RoleIndex != nil {
		set, args = append(set, "current_role_index = ?"), append(args, *u.RoleIndex)
	}
	if u.LastAccusedID != nil {
		if *u.LastAccusedID == "" {
			set = append(set, "last_accused_uid = NULL")
		} else {
			set, args = append(set, "last_accused_uid = ?"), append(args, *u.LastAccusedID)
		}
	}
	if u.TimerEndsAt != nil {
		set, args = append(set, "timer_ends_at = ?"), append(args, u.TimerEndsAt.UTC().Format(time.RFC3339Nano))
	}
	if len(set) == 0 {
		return nil
	}

	args = append(args, roomID)
	res, err := s.q.ExecContext(ctx, "UPDATE rooms SET "+strings.Join(set, ", ")+" WHERE room_id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating room: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: room %s does not exist", game.ErrNotFound, roomID)
	}
	return nil
}

func (s *SQLiteStore) UpdatePlayer(ctx context.Context, roomID, uid string, u game.PlayerUpdate) error {
	var (
		set  []string
		args []any
	)
	if u.Role != nil {
		if *u.Role == game.RoleNone {
			set = append(set, "role = NULL")
		} else {
			set, args = append(set, "role = ?"), append(args, u.Role.String())
		}
	}
	if u.Points != nil {
		set, args = append(set, "points = ?"), append(args, *u.Points)
	}
	if u.Revealed != nil {
		revealed := 0
		if *u.Revealed {
			revealed = 1
		}
		set, args = append(set, "has_revealed = ?"), append(args, revealed)
	}
	if len(set) == 0 {
		return nil
	}

	args = append(args, roomID, uid)
	res, err := s.q.ExecContext(ctx, "UPDATE players SET "+strings.Join(set, ", ")+" WHERE room_id = ? AND uid = ?", args...)
	if err != nil {
		return fmt.Errorf("updating player: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: player %s is not in room %s", game.ErrNotFound, uid, roomID)
	}
	return nil
}

func (s *SQLiteStore) LeastUsedSafeDares(ctx context.Context, limit int) ([]game.Dare, error) {
	rows, err := s.q.QueryContext(ctx, `
		SELECT id, text, classroom_safe, used_count
		FROM dares WHERE classroom_safe = 1
		ORDER BY used_count ASC, id ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing dares: %w", err)
	}
	defer rows.Close()

	var dares []game.Dare
	for rows.Next() {
		var (
			d    game.Dare
			safe int
		)
		if err := rows.Scan(&d.ID, &d.Text, &safe, &d.UsedCount); err != nil {
			return nil, fmt.Errorf("scanning dare: %w", err)
		}
		d.ClassroomSafe = safe == 1
		dares = append(dares, d)
	}
	return dares, rows.Err()
}

func (s *SQLiteStore) IncrementDareUsage(ctx context.Context, id int64) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE dares SET used_count = used_count + 1 WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("updating dare usage: %w", err)
	}
	return nil
}

// Transact runs fn against a transaction-scoped view of the store. A
// nested call reuses the surrounding transaction.
func (s *SQLiteStore) Transact(ctx context.Context, fn func(game.RoomStore) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(&SQLiteStore{q: tx}); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
