package store

import (
	"database/sql"
	"time"
)

// SavedSession is the persisted auth session for a profile. Mirrors what the
// managed SDK would keep on device so the current session survives restarts.
type SavedSession struct {
	UID          string
	Email        string
	IDToken      string
	RefreshToken string
	ExpiresAt    int64 // unix millis; 0 means unknown
	SavedAt      int64
}

// SaveSession upserts the single persisted session row.
func (db *DB) SaveSession(s *SavedSession) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO session (id, uid, email, id_token, refresh_token, expires_at, saved_at)
		VALUES (1, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			uid = excluded.uid,
			email = excluded.email,
			id_token = excluded.id_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			saved_at = excluded.saved_at`,
		s.UID, s.Email, s.IDToken, s.RefreshToken, s.ExpiresAt, now)
	return err
}

// LoadSession returns the persisted session, or nil if none is stored.
func (db *DB) LoadSession() (*SavedSession, error) {
	var s SavedSession
	err := db.QueryRow(`
		SELECT uid, email, id_token, refresh_token, expires_at, saved_at
		FROM session WHERE id = 1`).
		Scan(&s.UID, &s.Email, &s.IDToken, &s.RefreshToken, &s.ExpiresAt, &s.SavedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ClearSession removes the persisted session row.
func (db *DB) ClearSession() error {
	_, err := db.Exec(`DELETE FROM session WHERE id = 1`)
	return err
}
