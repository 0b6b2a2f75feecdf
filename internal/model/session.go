package model

import "time"

// Session is the local copy of a remote auth session: a browser cookie token
// mapped to the provider's access/refresh token pair. The auth provider owns
// the session; this row only caches it between requests.
type Session struct {
	ID           int64     `json:"id"`
	Token        string    `json:"token"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// Expired reports whether the access token's expiry is at or before now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
