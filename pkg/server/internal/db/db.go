// Package db is the sqlite persistence layer for Karata rooms: room
// configuration plus the latest game snapshot. After a server restart
// only unstarted rosters are restored from it; a stored snapshot is not
// resumed.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// RoomRecord is the persistent form of one room: its configuration, the
// seated roster (meaningful before a game starts), and the most recent
// game snapshot once one has (stored as opaque JSON — the schema here
// doesn't need to know Karata's table-state shape).
type RoomRecord struct {
	ID         string
	HostID     string
	MinPlayers int
	MaxPlayers int
	Players    []string
	Snapshot   []byte // JSON-encoded karata.Snapshot, nil before StartGame
	CreatedAt  string
	LastAction string
}

// DB wraps a sqlite connection holding Karata's room table.
type DB struct {
	*sql.DB
}

// NewDB opens (creating if necessary) the sqlite database at dbPath.
func NewDB(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	if err := createTables(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &DB{conn}, nil
}

func createTables(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE TABLE IF NOT EXISTS rooms (
			id TEXT PRIMARY KEY,
			host_id TEXT NOT NULL,
			min_players INTEGER NOT NULL,
			max_players INTEGER NOT NULL,
			players TEXT NOT NULL DEFAULT '[]',
			snapshot TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			last_action TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

// SaveRoomConfig inserts a room's configuration and roster, or, for an
// existing room, refreshes only its roster and last-action time (host
// and min/max players keep their first-saved values). It is called on
// CreateRoom/JoinRoom/LeaveRoom — the calls that change the pre-game
// roster without yet producing a game snapshot.
func (db *DB) SaveRoomConfig(id, hostID string, minPlayers, maxPlayers int, players []string) error {
	playersJSON, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("karata: marshaling room roster: %w", err)
	}
	_, err = db.Exec(`
		INSERT INTO rooms (id, host_id, min_players, max_players, players)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			players = excluded.players,
			last_action = CURRENT_TIMESTAMP
	`, id, hostID, minPlayers, maxPlayers, string(playersJSON))
	return err
}

// SaveSnapshot persists a room's latest game snapshot, called from the
// core's PersistFunc hook after every state-changing turn step.
func (db *DB) SaveSnapshot(id string, snapshot []byte) error {
	res, err := db.Exec(`
		UPDATE rooms SET snapshot = ?, last_action = CURRENT_TIMESTAMP WHERE id = ?
	`, string(snapshot), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("karata: room %s not found for snapshot save", id)
	}
	return nil
}

// LoadRoom reads a room record back, for restoring rooms on startup.
func (db *DB) LoadRoom(id string) (*RoomRecord, error) {
	var rec RoomRecord
	var playersJSON string
	var snapshot sql.NullString
	err := db.QueryRow(`
		SELECT id, host_id, min_players, max_players, players, snapshot, created_at, last_action
		FROM rooms WHERE id = ?
	`, id).Scan(&rec.ID, &rec.HostID, &rec.MinPlayers, &rec.MaxPlayers, &playersJSON, &snapshot, &rec.CreatedAt, &rec.LastAction)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("karata: room %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(playersJSON), &rec.Players); err != nil {
		return nil, fmt.Errorf("karata: unmarshaling room roster: %w", err)
	}
	if snapshot.Valid {
		rec.Snapshot = []byte(snapshot.String)
	}
	return &rec, nil
}

// ListRoomIDs returns every known room ID, for reloading rooms on
// server startup.
func (db *DB) ListRoomIDs() ([]string, error) {
	rows, err := db.Query(`SELECT id FROM rooms`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteRoom removes a room record. The server does not call it; ended
// rooms stay in the table.
func (db *DB) DeleteRoom(id string) error {
	_, err := db.Exec(`DELETE FROM rooms WHERE id = ?`, id)
	return err
}
