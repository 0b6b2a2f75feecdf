// Package session enforces the session-validity contract that every
// protected operation depends on: a session is only handed to a caller with
// its expiry strictly in the future, refreshed at most once, or not at all.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adforge/adforge/internal/apperr"
	"github.com/adforge/adforge/internal/events"
	"github.com/adforge/adforge/internal/model"
	"github.com/adforge/adforge/internal/store"
	"github.com/adforge/adforge/internal/supabase"
)

// Refresher is the slice of the auth provider the guard needs.
type Refresher interface {
	RefreshSession(ctx context.Context, refreshToken string) (*supabase.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Publisher delivers auth state-change events.
type Publisher interface {
	Publish(userID string, ev events.Event)
}

// Guard validates local sessions against their remote expiry before use.
type Guard struct {
	store  *store.SessionStore
	auth   Refresher
	pub    Publisher
	logger *slog.Logger
	now    func() time.Time
}

func NewGuard(ss *store.SessionStore, auth Refresher, pub Publisher, logger *slog.Logger) *Guard {
	return &Guard{
		store:  ss,
		auth:   auth,
		pub:    pub,
		logger: logger,
		now:    time.Now,
	}
}

// EnsureValid returns a session whose expiry is strictly in the future, or
// nil for a nil input.
//
// An expired session triggers exactly one refresh. On success the refreshed
// tokens are adopted and persisted. On failure the session is force
// signed-out — local row deleted, remote revocation attempted, one
// signed_out event published — and the caller gets an unauthenticated
// error; the operation cannot proceed with the stale session.
func (g *Guard) EnsureValid(ctx context.Context, sess *model.Session) (*model.Session, error) {
	if sess == nil {
		return nil, nil
	}
	if !sess.Expired(g.now()) {
		return sess, nil
	}

	refreshed, err := g.auth.RefreshSession(ctx, sess.RefreshToken)
	if err != nil {
		g.logger.Warn("session refresh failed", "session_id", sess.ID, "error", err)
		g.SignOut(ctx, sess)
		if errors.Is(err, apperr.ErrUnauthenticated) {
			return nil, fmt.Errorf("refresh session: %w", err)
		}
		return nil, fmt.Errorf("refresh session: %v: %w", err, apperr.ErrUnauthenticated)
	}

	expiry := refreshed.Expiry()
	if err := g.store.UpdateTokens(sess.ID, refreshed.AccessToken, refreshed.RefreshToken, expiry); err != nil {
		// The refreshed session is good for this operation even if the
		// adoption could not be persisted; the next request refreshes again.
		g.logger.Error("persist refreshed session", "session_id", sess.ID, "error", err)
	}

	adopted := *sess
	adopted.AccessToken = refreshed.AccessToken
	if refreshed.RefreshToken != "" {
		adopted.RefreshToken = refreshed.RefreshToken
	}
	adopted.ExpiresAt = expiry
	return &adopted, nil
}

// SignOut invalidates a session locally and remotely and publishes a single
// signed_out event. Remote revocation is best effort: the local state is
// authoritative for this application.
func (g *Guard) SignOut(ctx context.Context, sess *model.Session) {
	if err := g.store.Delete(sess.ID); err != nil {
		g.logger.Error("delete session", "session_id", sess.ID, "error", err)
	}
	if err := g.auth.SignOut(ctx, sess.AccessToken); err != nil {
		g.logger.Warn("remote sign out", "session_id", sess.ID, "error", err)
	}
	g.pub.Publish(sess.UserID, events.NewEvent("auth", events.ActionSignedOut, ""))
}
