package session

import (
	"context"
)

// Store holds sessions server-side. Lookup returns ErrNotFound for unknown
// and for expired sessions; Delete of an absent session is not an error.
type Store interface {
	Create(ctx context.Context, s Session) error
	Lookup(ctx context.Context, tokenHash string) (Session, error)
	Delete(ctx context.Context, tokenHash string) error
}
