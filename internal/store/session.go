// Package store persists the local session cache. It is the only local
// persistence in the application.
package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/adforge/adforge/internal/model"
)

type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

const sessionCols = `id, token, access_token, refresh_token, user_id, email, expires_at, created_at`

func scanSession(scanner interface{ Scan(...any) error }) (*model.Session, error) {
	var s model.Session
	err := scanner.Scan(
		&s.ID, &s.Token, &s.AccessToken, &s.RefreshToken,
		&s.UserID, &s.Email, &s.ExpiresAt, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create stores a new browser-session row.
func (s *SessionStore) Create(token, accessToken, refreshToken, userID, email string, expiresAt time.Time) (*model.Session, error) {
	result, err := s.db.Exec(
		`INSERT INTO sessions (token, access_token, refresh_token, user_id, email, expires_at) VALUES (?, ?, ?, ?, ?, ?)`,
		token, accessToken, refreshToken, userID, email, expiresAt.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *SessionStore) GetByID(id int64) (*model.Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionCols+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// GetByToken looks up a session by its cookie token. Returns nil when the
// token is unknown.
func (s *SessionStore) GetByToken(token string) (*model.Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionCols+` FROM sessions WHERE token = ?`, token)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session by token: %w", err)
	}
	return sess, nil
}

// UpdateTokens adopts a refreshed remote session into an existing row.
func (s *SessionStore) UpdateTokens(id int64, accessToken, refreshToken string, expiresAt time.Time) error {
	_, err := s.db.Exec(
		`UPDATE sessions SET access_token = ?, refresh_token = ?, expires_at = ? WHERE id = ?`,
		accessToken, refreshToken, expiresAt.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update session tokens: %w", err)
	}
	return nil
}

func (s *SessionStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteStale removes rows whose access token expired before the cutoff.
// Rows past their access-token expiry but inside the cutoff are kept: their
// refresh token may still be good.
func (s *SessionStore) DeleteStale(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(`DELETE FROM sessions WHERE expires_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("delete stale sessions: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
