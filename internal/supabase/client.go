// Package supabase is a thin HTTP client for the hosted backend: auth
// (GoTrue-style), relational store (PostgREST-style), and object storage.
// Every operation returns a result or an error classified into the
// apperr kinds; nothing is retried here.
package supabase

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/adforge/adforge/internal/apperr"
)

// Config identifies the remote project.
type Config struct {
	BaseURL string // project URL, no trailing slash
	AnonKey string // public API key
}

// Client bundles the three service clients behind one project config.
type Client struct {
	Auth    *AuthClient
	Rest    *RestClient
	Storage *StorageClient
}

type Option func(*Client)

// WithHTTPClient overrides the shared HTTP client, used by tests to point
// at an httptest server.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.Auth.httpClient = hc
		c.Rest.httpClient = hc
		c.Storage.httpClient = hc
	}
}

// New creates a gateway client for the given project.
func New(cfg Config, opts ...Option) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	hc := &http.Client{Timeout: 30 * time.Second}
	c := &Client{
		Auth:    &AuthClient{cfg: cfg, httpClient: hc},
		Rest:    &RestClient{cfg: cfg, httpClient: hc},
		Storage: &StorageClient{cfg: cfg, httpClient: hc},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// statusErr classifies a non-2xx response into an error kind.
func statusErr(op string, status int) error {
	var kind error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		kind = apperr.ErrUnauthenticated
	case status == http.StatusNotFound || status == http.StatusNotAcceptable:
		kind = apperr.ErrNotFound
	case status == http.StatusConflict || status == http.StatusUnprocessableEntity:
		kind = apperr.ErrConflict
	case status == http.StatusBadRequest:
		kind = apperr.ErrValidation
	default:
		kind = apperr.ErrTransport
	}
	return fmt.Errorf("%s: status %d: %w", op, status, kind)
}

// transportErr wraps a network-level failure.
func transportErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, apperr.ErrTransport)
}
