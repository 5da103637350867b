package account

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"passvault/internal/domain/errs"
)

const (
	MaxUsernameLen = 64
	MaxPasswordLen = 1024
)

// Validator checks registration input before anything is hashed or stored.
type Validator interface {
	ValidateRegister(username, password string) error
	ValidateUsername(username string) error
	ValidatePassword(password string) error
}

type InputValidator struct{}

func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// ValidateRegister валидирует данные для регистрации
func (v *InputValidator) ValidateRegister(username, password string) error {
	if err := v.ValidateUsername(username); err != nil {
		return err
	}
	return v.ValidatePassword(password)
}

// ValidateUsername accepts any non-empty printable name without whitespace.
// Usernames are compared case-sensitively, so no folding happens here.
func (v *InputValidator) ValidateUsername(username string) error {
	if username == "" {
		return errs.InvalidInput("username is required")
	}

	if len(username) > MaxUsernameLen {
		return errs.InvalidInput("username must be at most %d bytes", MaxUsernameLen)
	}

	if !utf8.ValidString(username) {
		return errs.InvalidInput("username must be valid UTF-8")
	}

	for _, r := range username {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return errs.InvalidInput("username must not contain whitespace or control characters")
		}
	}

	return nil
}

func (v *InputValidator) ValidatePassword(password string) error {
	if password == "" {
		return errs.InvalidInput("password is required")
	}

	if len(password) > MaxPasswordLen {
		return errs.InvalidInput("password must be at most %d bytes", MaxPasswordLen)
	}

	if strings.IndexByte(password, 0) >= 0 {
		return errs.InvalidInput("password must not contain NUL bytes")
	}

	return nil
}
