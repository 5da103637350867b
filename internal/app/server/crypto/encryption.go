package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/exp/slog"
)

const (
	KeySize = 32

	sealedPrefix = "v1:"
	hkdfSalt     = "passvault"
	hkdfInfo     = "passvault/site-secret/"
)

var ErrInvalidKey = errors.New("vault key must be 32 bytes")

// Sealer encrypts site secrets at rest with AES-256-GCM. Each owner gets its
// own key derived from the vault key with HKDF-SHA256, and the owner id is
// authenticated as additional data, so a sealed value moved to another
// owner's row fails to open.
type Sealer struct {
	key []byte
	log *slog.Logger
}

func NewSealer(key []byte, log *slog.Logger) (*Sealer, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	k := make([]byte, KeySize)
	copy(k, key)

	return &Sealer{
		key: k,
		log: log.With("component", "sealer"),
	}, nil
}

// ParseKey decodes a hex encoded vault key.
func ParseKey(hexKey string) ([]byte, error) {
	key, err := hex.DecodeString(strings.TrimSpace(hexKey))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	return key, nil
}

// Seal returns "v1:" followed by base64(nonce | ciphertext).
func (s *Sealer) Seal(ownerID int64, plaintext string) (string, error) {
	gcm, err := s.gcm(ownerID)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := gcm.Seal(nonce, nonce, []byte(plaintext), aad(ownerID))
	return sealedPrefix + base64.StdEncoding.EncodeToString(out), nil
}

// Open reverses Seal. Values written before sealing existed are returned
// unchanged: anything without the version prefix, and prefixed values that
// cannot be a sealed payload (not base64, or shorter than nonce plus tag).
func (s *Sealer) Open(ownerID int64, sealed string) (string, error) {
	if !strings.HasPrefix(sealed, sealedPrefix) {
		s.log.Warn("site secret stored without sealing", "owner_id", ownerID)
		return sealed, nil
	}

	gcm, err := s.gcm(ownerID)
	if err != nil {
		return "", err
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(sealed, sealedPrefix))
	if err != nil || len(data) < gcm.NonceSize()+gcm.Overhead() {
		s.log.Warn("site secret with version prefix is not a sealed payload, returning as stored", "owner_id", ownerID)
		return sealed, nil
	}

	nonce, ciphertext := data[:gcm.NonceSize()], data[gcm.NonceSize():]

	plaintext, err := gcm.Open(nil, nonce, ciphertext, aad(ownerID))
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}
	return string(plaintext), nil
}

func (s *Sealer) gcm(ownerID int64) (cipher.AEAD, error) {
	ownerKey := make([]byte, KeySize)
	kdf := hkdf.New(sha256.New, s.key, []byte(hkdfSalt), []byte(hkdfInfo+strconv.FormatInt(ownerID, 10)))
	if _, err := io.ReadFull(kdf, ownerKey); err != nil {
		return nil, fmt.Errorf("derive owner key: %w", err)
	}

	block, err := aes.NewCipher(ownerKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

func aad(ownerID int64) []byte {
	return []byte(strconv.FormatInt(ownerID, 10))
}
