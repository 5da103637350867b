package crypto

import (
	"bytes"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func newTestSealer(t *testing.T) *Sealer {
	t.Helper()
	s, err := NewSealer(bytes.Repeat([]byte{7}, KeySize), slog.Default())
	require.NoError(t, err)
	return s
}

func TestSealer_RoundTrip(t *testing.T) {
	s := newTestSealer(t)

	sealed, err := s.Seal(1, "s3cret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sealed, "v1:"))
	assert.NotContains(t, sealed, "s3cret")

	plain, err := s.Open(1, sealed)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", plain)
}

func TestSealer_FreshNonce(t *testing.T) {
	s := newTestSealer(t)

	a, err := s.Seal(1, "same")
	require.NoError(t, err)
	b, err := s.Seal(1, "same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestSealer_BoundToOwner(t *testing.T) {
	s := newTestSealer(t)

	sealed, err := s.Seal(1, "s3cret")
	require.NoError(t, err)

	_, err = s.Open(2, sealed)
	assert.Error(t, err)
}

func TestSealer_DifferentKey(t *testing.T) {
	s := newTestSealer(t)
	other, err := NewSealer(bytes.Repeat([]byte{8}, KeySize), slog.Default())
	require.NoError(t, err)

	sealed, err := s.Seal(1, "s3cret")
	require.NoError(t, err)

	_, err = other.Open(1, sealed)
	assert.Error(t, err)
}

func TestSealer_LegacyPlaintext(t *testing.T) {
	s := newTestSealer(t)

	plain, err := s.Open(1, "stored-before-sealing")
	require.NoError(t, err)
	assert.Equal(t, "stored-before-sealing", plain)
}

func TestSealer_LegacyPlaintextWithVersionPrefix(t *testing.T) {
	s := newTestSealer(t)

	for _, stored := range []string{"v1:!!!", "v1:AAAA", "v1: my old password", "v1:"} {
		plain, err := s.Open(1, stored)
		require.NoError(t, err, stored)
		assert.Equal(t, stored, plain)
	}
}

func TestSealer_TamperedPayload(t *testing.T) {
	s := newTestSealer(t)

	sealed, err := s.Seal(1, "s3cret")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, "v1:"))
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff

	_, err = s.Open(1, "v1:"+base64.StdEncoding.EncodeToString(raw))
	assert.Error(t, err)
}

func TestNewSealer_KeySize(t *testing.T) {
	_, err := NewSealer([]byte("short"), slog.Default())
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestParseKey(t *testing.T) {
	key, err := ParseKey(strings.Repeat("ab", KeySize))
	require.NoError(t, err)
	assert.Len(t, key, KeySize)

	_, err = ParseKey("abcd")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = ParseKey("zz")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
