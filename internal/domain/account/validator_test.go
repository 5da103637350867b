package account

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"passvault/internal/domain/errs"
)

func TestInputValidator_ValidateUsername(t *testing.T) {
	validator := NewInputValidator()

	tests := []struct {
		name        string
		username    string
		wantErr     bool
		expectedErr string
	}{
		{
			name:     "valid username",
			username: "alice",
			wantErr:  false,
		},
		{
			name:     "single character",
			username: "a",
			wantErr:  false,
		},
		{
			name:     "mixed case and symbols",
			username: "Alice.Smith@example",
			wantErr:  false,
		},
		{
			name:        "empty",
			username:    "",
			wantErr:     true,
			expectedErr: "username is required",
		},
		{
			name:        "too long",
			username:    strings.Repeat("a", MaxUsernameLen+1),
			wantErr:     true,
			expectedErr: "username must be at most 64 bytes",
		},
		{
			name:        "space inside",
			username:    "alice smith",
			wantErr:     true,
			expectedErr: "must not contain whitespace",
		},
		{
			name:        "control character",
			username:    "alice\x00",
			wantErr:     true,
			expectedErr: "must not contain whitespace",
		},
		{
			name:        "invalid utf8",
			username:    "al\xffice",
			wantErr:     true,
			expectedErr: "valid UTF-8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateUsername(tt.username)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, errs.ErrInvalidInput))
				assert.Contains(t, err.Error(), tt.expectedErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestInputValidator_ValidatePassword(t *testing.T) {
	validator := NewInputValidator()

	require.NoError(t, validator.ValidatePassword("pw1"))

	err := validator.ValidatePassword("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))

	err = validator.ValidatePassword(strings.Repeat("x", MaxPasswordLen+1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most")

	err = validator.ValidatePassword("pw\x001")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrInvalidInput))
}

func TestInputValidator_ValidateRegister(t *testing.T) {
	validator := NewInputValidator()

	assert.NoError(t, validator.ValidateRegister("alice", "pw1"))
	assert.ErrorContains(t, validator.ValidateRegister("", "pw1"), "username is required")
	assert.ErrorContains(t, validator.ValidateRegister("alice", ""), "password is required")
}
