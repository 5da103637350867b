package session

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Session maps the keyed hash of an opaque token to an account. The token
// itself is never stored.
type Session struct {
	TokenHash string
	AccountID int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
