package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adforge/adforge/internal/apperr"
)

// AuthClient talks to the provider's auth endpoints: sign-up, password and
// refresh-token grants, sign-out, and password recovery.
type AuthClient struct {
	cfg        Config
	httpClient *http.Client
}

// User is the auth provider's view of an identity.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is a bearer token plus expiry as issued by the provider.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"` // seconds since epoch
	RefreshToken string `json:"refresh_token"`
	User         User   `json:"user"`
}

// Expiry resolves the session expiry time, falling back to the access
// token's exp claim when the response carried no expires_at.
func (s *Session) Expiry() time.Time {
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0)
	}
	if exp, err := TokenExpiry(s.AccessToken); err == nil {
		return exp
	}
	return time.Now().Add(time.Duration(s.ExpiresIn) * time.Second)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new identity and returns its first session.
func (c *AuthClient) SignUp(ctx context.Context, email, password string) (*Session, error) {
	return c.sessionRequest(ctx, "/auth/v1/signup", credentials{Email: email, Password: password})
}

// SignInWithPassword performs a password grant.
func (c *AuthClient) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	return c.sessionRequest(ctx, "/auth/v1/token?grant_type=password", credentials{Email: email, Password: password})
}

// RefreshSession exchanges a refresh token for a new session.
func (c *AuthClient) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	body := struct {
		RefreshToken string `json:"refresh_token"`
	}{refreshToken}
	return c.sessionRequest(ctx, "/auth/v1/token?grant_type=refresh_token", body)
}

// SignOut revokes the session server-side.
func (c *AuthClient) SignOut(ctx context.Context, accessToken string) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/logout", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportErr("sign out", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusErr("sign out", resp.StatusCode)
	}
	return nil
}

// ResetPassword asks the provider to send a recovery email. The caller
// renders the same confirmation regardless of whether the address exists.
func (c *AuthClient) ResetPassword(ctx context.Context, email string) error {
	payload, _ := json.Marshal(map[string]string{"email": email})
	req, err := c.newRequest(ctx, http.MethodPost, "/auth/v1/recover", bytes.NewReader(payload))
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportErr("reset password", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return statusErr("reset password", resp.StatusCode)
	}
	return nil
}

// GetUser fetches the identity behind an access token.
func (c *AuthClient) GetUser(ctx context.Context, accessToken string) (*User, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportErr("get user", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, statusErr("get user", resp.StatusCode)
	}

	var u User
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, transportErr("get user", err)
	}
	return &u, nil
}

func (c *AuthClient) sessionRequest(ctx context.Context, path string, body any) (*Session, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal auth request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportErr("auth request", err)
	}
	defer resp.Body.Close()

	// The provider answers bad credentials with 400; treat any 4xx on a
	// token path as an authentication failure rather than validation.
	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized {
			return nil, fmt.Errorf("auth request: status %d: %w", resp.StatusCode, apperr.ErrUnauthenticated)
		}
		return nil, statusErr("auth request", resp.StatusCode)
	}

	var sess Session
	if err := json.NewDecoder(resp.Body).Decode(&sess); err != nil {
		return nil, transportErr("decode auth response", err)
	}
	if sess.AccessToken == "" {
		return nil, fmt.Errorf("auth response missing access token: %w", apperr.ErrTransport)
	}
	return &sess, nil
}

func (c *AuthClient) newRequest(ctx context.Context, method, path string, body *bytes.Reader) (*http.Request, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.cfg.AnonKey)
	return req, nil
}

// TokenExpiry reads the exp claim from an access token without verifying the
// signature; the provider is trusted and verification happens server-side.
func TokenExpiry(accessToken string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse access token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("access token has no exp claim")
	}
	return exp.Time, nil
}
