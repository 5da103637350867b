package account

import "errors"

// Repository-level errors. The service translates them into errs kinds.
var (
	ErrNotFound      = errors.New("account not found")
	ErrUsernameTaken = errors.New("username taken")
)
