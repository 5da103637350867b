package account

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	AlgorithmBcrypt = "bcrypt"
	AlgorithmPBKDF2 = "pbkdf2"

	bcryptMaxPasswordLen = 72

	DefaultPBKDF2Iterations = 600000
	// hashes written without an explicit iteration count
	legacyPBKDF2Iterations = 260000
	pbkdf2SaltLength       = 16
	saltChars              = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

var (
	ErrMalformedHash    = errors.New("malformed password hash")
	ErrPasswordTooLong  = errors.New("password too long")
	ErrPasswordNUL      = errors.New("password contains NUL byte")
	ErrUnknownAlgorithm = errors.New("unknown password hash algorithm")
)

// Hasher produces salted, deliberately slow password digests and verifies a
// password against a digest it (or a compatible hasher) produced earlier.
// Verify returns (false, nil) for a wrong password and ErrMalformedHash when
// the stored digest cannot be parsed.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(encoded, password string) (bool, error)
}

// scheme is a Hasher that recognises its own encoding.
type scheme interface {
	Hasher
	Handles(encoded string) bool
}

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if len(password) > bcryptMaxPasswordLen {
		return "", fmt.Errorf("%w: bcrypt accepts at most %d bytes", ErrPasswordTooLong, bcryptMaxPasswordLen)
	}
	if strings.IndexByte(password, 0) >= 0 {
		return "", ErrPasswordNUL
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(digest), nil
}

// Verify rejects passwords bcrypt would silently truncate or terminate early,
// so only the exact registered string verifies.
func (h *BcryptHasher) Verify(encoded, password string) (bool, error) {
	if len(password) > bcryptMaxPasswordLen || strings.IndexByte(password, 0) >= 0 {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

func (h *BcryptHasher) Handles(encoded string) bool {
	return strings.HasPrefix(encoded, "$2a$") ||
		strings.HasPrefix(encoded, "$2b$") ||
		strings.HasPrefix(encoded, "$2y$")
}

// PBKDF2Hasher reads and writes "pbkdf2:<digest>:<iterations>$<salt>$<hex>",
// the format of accounts created by the earlier Flask deployment.
type PBKDF2Hasher struct {
	digest     string
	iterations int
}

func NewPBKDF2Hasher(iterations int) *PBKDF2Hasher {
	if iterations <= 0 {
		iterations = DefaultPBKDF2Iterations
	}
	return &PBKDF2Hasher{digest: "sha256", iterations: iterations}
}

func (h *PBKDF2Hasher) Hash(password string) (string, error) {
	salt, err := randomSalt(pbkdf2SaltLength)
	if err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	fn, _ := pbkdf2Digest(h.digest)
	key := pbkdf2.Key([]byte(password), []byte(salt), h.iterations, fn().Size(), fn)

	return fmt.Sprintf("pbkdf2:%s:%d$%s$%s", h.digest, h.iterations, salt, hex.EncodeToString(key)), nil
}

func (h *PBKDF2Hasher) Verify(encoded, password string) (bool, error) {
	method, salt, want, ok := splitPBKDF2(encoded)
	if !ok {
		return false, fmt.Errorf("%w: expected method$salt$hash", ErrMalformedHash)
	}

	parts := strings.Split(method, ":")
	if parts[0] != "pbkdf2" || len(parts) > 3 {
		return false, fmt.Errorf("%w: unexpected method %q", ErrMalformedHash, method)
	}

	digestName := "sha256"
	if len(parts) >= 2 && parts[1] != "" {
		digestName = parts[1]
	}

	iterations := legacyPBKDF2Iterations
	if len(parts) == 3 {
		n, err := strconv.Atoi(parts[2])
		if err != nil || n <= 0 {
			return false, fmt.Errorf("%w: bad iteration count %q", ErrMalformedHash, parts[2])
		}
		iterations = n
	}

	fn, ok := pbkdf2Digest(digestName)
	if !ok {
		return false, fmt.Errorf("%w: unsupported digest %q", ErrMalformedHash, digestName)
	}

	expected, err := hex.DecodeString(want)
	if err != nil || len(expected) != fn().Size() {
		return false, fmt.Errorf("%w: bad digest encoding", ErrMalformedHash)
	}

	got := pbkdf2.Key([]byte(password), []byte(salt), iterations, len(expected), fn)
	return subtle.ConstantTimeCompare(got, expected) == 1, nil
}

func (h *PBKDF2Hasher) Handles(encoded string) bool {
	return strings.HasPrefix(encoded, "pbkdf2:")
}

// MultiHasher hashes with its primary scheme and verifies any known scheme,
// so accounts keep working after HASH_ALGORITHM changes.
type MultiHasher struct {
	primary scheme
	schemes []scheme
}

// NewHasher builds a MultiHasher whose primary scheme is algorithm.
func NewHasher(algorithm string, bcryptCost, pbkdf2Iterations int) (*MultiHasher, error) {
	bc := NewBcryptHasher(bcryptCost)
	pb := NewPBKDF2Hasher(pbkdf2Iterations)

	m := &MultiHasher{schemes: []scheme{bc, pb}}
	switch algorithm {
	case AlgorithmBcrypt, "":
		m.primary = bc
	case AlgorithmPBKDF2:
		m.primary = pb
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
	return m, nil
}

func (m *MultiHasher) Hash(password string) (string, error) {
	return m.primary.Hash(password)
}

func (m *MultiHasher) Verify(encoded, password string) (bool, error) {
	for _, s := range m.schemes {
		if s.Handles(encoded) {
			return s.Verify(encoded, password)
		}
	}
	return false, fmt.Errorf("%w: unrecognised scheme", ErrMalformedHash)
}

func splitPBKDF2(encoded string) (method, salt, digest string, ok bool) {
	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

func pbkdf2Digest(name string) (func() hash.Hash, bool) {
	switch name {
	case "sha256":
		return sha256.New, true
	case "sha512":
		return sha512.New, true
	case "sha1":
		return sha1.New, true
	}
	return nil, false
}

func randomSalt(n int) (string, error) {
	max := big.NewInt(int64(len(saltChars)))

	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(saltChars[idx.Int64()])
	}
	return b.String(), nil
}
