// Package session implements the demo admin login gate.
//
// This is not authentication: credentials are fixed demo values compared in
// plain text, and the session is a flag in the local store.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/vietddude/crosspay/internal/core/domain"
	"github.com/vietddude/crosspay/internal/metrics"
)

// TTL is the fixed lifetime of an admin session.
const TTL = 24 * time.Hour

// ErrUnauthorized is returned when an admin-only operation runs without a
// live session.
var ErrUnauthorized = errors.New("admin login required")

// Credentials are the demo username and password.
type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// DefaultCredentials are used when none are configured.
var DefaultCredentials = Credentials{Username: "admin", Password: "demo123"}

// Store persists the session record. Session must apply lazy expiry.
type Store interface {
	Session(ctx context.Context) domain.AdminSession
	SaveSession(ctx context.Context, s domain.AdminSession) error
	ClearSession(ctx context.Context)
}

// Gate tracks whether an admin is logged in.
type Gate struct {
	store Store
	creds Credentials
	now   func() time.Time
}

// NewGate creates a Gate. Empty credentials fall back to DefaultCredentials.
func NewGate(store Store, creds Credentials, now func() time.Time) *Gate {
	if creds.Username == "" || creds.Password == "" {
		creds = DefaultCredentials
	}
	if now == nil {
		now = time.Now
	}
	return &Gate{store: store, creds: creds, now: now}
}

// Login opens a session when the credentials match. Wrong credentials leave
// any existing session untouched.
func (g *Gate) Login(ctx context.Context, username, password string) (bool, error) {
	if username != g.creds.Username || password != g.creds.Password {
		metrics.AdminLogins.WithLabelValues("rejected").Inc()
		return false, nil
	}

	// The store keeps milliseconds.
	now := g.now().Truncate(time.Millisecond)
	err := g.store.SaveSession(ctx, domain.AdminSession{
		IsAuthenticated: true,
		LoginTime:       now,
		ExpiresAt:       now.Add(TTL),
	})
	if err != nil {
		metrics.AdminLogins.WithLabelValues("error").Inc()
		return false, err
	}
	metrics.AdminLogins.WithLabelValues("accepted").Inc()
	return true, nil
}

// Logout clears the session.
func (g *Gate) Logout(ctx context.Context) {
	g.store.ClearSession(ctx)
}

// Status returns the current session; expired sessions read as zero.
func (g *Gate) Status(ctx context.Context) domain.AdminSession {
	return g.store.Session(ctx)
}

// IsAuthenticated reports whether a live session exists.
func (g *Gate) IsAuthenticated(ctx context.Context) bool {
	return g.Status(ctx).IsAuthenticated
}

// Require returns ErrUnauthorized unless a live session exists.
func (g *Gate) Require(ctx context.Context) error {
	if !g.IsAuthenticated(ctx) {
		return ErrUnauthorized
	}
	return nil
}

// DemoCredentials returns the credentials shown on the login prompt.
func (g *Gate) DemoCredentials() Credentials {
	return g.creds
}
