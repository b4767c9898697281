package store

import (
	"database/sql"
	"time"
)

// PersistedSession is the durable copy of the auth session. Only the
// token and a user snapshot survive restarts; everything else is
// rebuilt from server fetches.
type PersistedSession struct {
	Token     string
	UserJSON  string
	UpdatedAt int64
}

// SaveSession stores the auth session, replacing any previous one.
func (db *DB) SaveSession(token, userJSON string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO session (id, token, user_json, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user_json = excluded.user_json,
			updated_at = excluded.updated_at`,
		token, userJSON, now)
	return err
}

// LoadSession returns the persisted session, or nil if none exists.
func (db *DB) LoadSession() (*PersistedSession, error) {
	var s PersistedSession
	err := db.QueryRow(`SELECT token, user_json, updated_at FROM session WHERE id = 1`).
		Scan(&s.Token, &s.UserJSON, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ClearSession removes the persisted session. No-op when none exists.
func (db *DB) ClearSession() error {
	_, err := db.Exec(`DELETE FROM session WHERE id = 1`)
	return err
}
