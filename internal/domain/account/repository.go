package account

import (
	"context"
)

type Repository interface {
	// Create inserts a new account unless the username is already present,
	// in which case it returns ErrUsernameTaken. The check and the insert
	// run on the same connection.
	Create(ctx context.Context, username, passwordHash string) (Account, error)
	// FindByUsername returns ErrNotFound when no account matches exactly.
	FindByUsername(ctx context.Context, username string) (Account, error)
}
