package session

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"
)

const (
	DefaultTTL = 24 * time.Hour
	tokenBytes = 32
)

type Servicer interface {
	Create(ctx context.Context, accountID int64) (string, time.Time, error)
	Validate(ctx context.Context, token string) (int64, error)
	Destroy(ctx context.Context, token string) error
}

type Service struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	log    *slog.Logger
}

// NewService builds a session service. secret keys the token hash, so a
// leaked session table cannot be replayed without it.
func NewService(store Store, secret []byte, ttl time.Duration, log *slog.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		store:  store,
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
		log:    log.With("component", "session_service"),
	}
}

func (s *Service) Create(ctx context.Context, accountID int64) (string, time.Time, error) {
	// Генерация токена
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", time.Time{}, fmt.Errorf("generate token: %w", err)
	}
	token := base64.URLEncoding.EncodeToString(raw)

	now := s.now()
	sess := Session{
		TokenHash: s.hash(token),
		AccountID: accountID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Create(ctx, sess); err != nil {
		return "", time.Time{}, fmt.Errorf("save session: %w", err)
	}

	s.log.Debug("session created", "account_id", accountID, "expires_at", sess.ExpiresAt)
	return token, sess.ExpiresAt, nil
}

func (s *Service) Validate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, ErrNotFound
	}

	hash := s.hash(token)
	sess, err := s.store.Lookup(ctx, hash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("lookup session: %w", err)
	}

	if sess.Expired(s.now()) {
		if err := s.store.Delete(ctx, hash); err != nil {
			s.log.Warn("failed to drop expired session", "account_id", sess.AccountID, "error", err)
		}
		return 0, ErrNotFound
	}

	return sess.AccountID, nil
}

func (s *Service) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.store.Delete(ctx, s.hash(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Service) hash(token string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
