// Package errs holds the error kinds shared by the account directory and the
// credential vault. Callers match kinds with errors.Is; only DomainError
// messages are meant to be shown to users.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidInput       = errors.New("invalid input")
	ErrStoreUnavailable   = errors.New("storage is temporarily unavailable, please try again later")
)

// Codes used in DomainError.Code and in API error payloads.
const (
	CodeDuplicateUsername  = "duplicate_username"
	CodeInvalidCredentials = "invalid_credentials"
	CodeInvalidInput       = "invalid_input"
	CodeStoreUnavailable   = "store_unavailable"
)

type DomainError struct {
	Err     error
	Message string
	Code    string
}

func (e *DomainError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// InvalidInput returns an ErrInvalidInput carrying a user-safe message.
func InvalidInput(format string, args ...any) error {
	return &DomainError{
		Err:     ErrInvalidInput,
		Message: fmt.Sprintf(format, args...),
		Code:    CodeInvalidInput,
	}
}

// Code reports the code of the kind err belongs to, or "" for unknown errors.
func Code(err error) string {
	var de *DomainError
	if errors.As(err, &de) && de.Code != "" {
		return de.Code
	}

	switch {
	case errors.Is(err, ErrDuplicateUsername):
		return CodeDuplicateUsername
	case errors.Is(err, ErrInvalidCredentials):
		return CodeInvalidCredentials
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	case errors.Is(err, ErrStoreUnavailable):
		return CodeStoreUnavailable
	}
	return ""
}
