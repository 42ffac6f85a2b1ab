package domain

import "time"

// AdminSession is the persisted admin login state.
type AdminSession struct {
	IsAuthenticated bool
	LoginTime       time.Time
	ExpiresAt       time.Time
}

// Expired reports whether the session is past its expiry at now.
// Times are compared at millisecond precision, the precision they are
// persisted with, and a session is still valid at the exact expiry instant.
func (s AdminSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.Truncate(time.Millisecond).After(s.ExpiresAt)
}
