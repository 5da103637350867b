// Package redisstore keeps sessions in Redis. Each session is a hash whose
// key expires together with the session.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/exp/slog"

	"passvault/internal/domain/session"
)

const (
	defaultTimeout = 5 * time.Second
	keyPrefix      = "passvault:session:"
)

// Config captures the settings for establishing a Redis connection.
type Config struct {
	Addr     string
	Password string
	DB       int
	Timeout  time.Duration
}

// Connect initialises a Redis client and validates connectivity with a ping.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}

type SessionStore struct {
	client *redis.Client
	now    func() time.Time
	log    *slog.Logger
}

func NewSessionStore(client *redis.Client, log *slog.Logger) *SessionStore {
	return &SessionStore{
		client: client,
		now:    time.Now,
		log:    log.With("component", "redis_session_store"),
	}
}

func (r *SessionStore) Create(ctx context.Context, s session.Session) error {
	key := r.key(s.TokenHash)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key,
			"account_id", s.AccountID,
			"created_at", s.CreatedAt.UnixMilli(),
			"expires_at", s.ExpiresAt.UnixMilli(),
		)
		pipe.PExpireAt(ctx, key, s.ExpiresAt)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (r *SessionStore) Lookup(ctx context.Context, tokenHash string) (session.Session, error) {
	fields, err := r.client.HGetAll(ctx, r.key(tokenHash)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, fmt.Errorf("redis lookup session: %w", err)
	}
	if len(fields) == 0 {
		return session.Session{}, session.ErrNotFound
	}

	s, err := decode(tokenHash, fields)
	if err != nil {
		r.log.Warn("dropping unreadable session", "error", err)
		_ = r.client.Del(ctx, r.key(tokenHash)).Err()
		return session.Session{}, session.ErrNotFound
	}

	// ключ мог ещё не истечь на стороне redis
	if s.Expired(r.now()) {
		return session.Session{}, session.ErrNotFound
	}
	return s, nil
}

func (r *SessionStore) Delete(ctx context.Context, tokenHash string) error {
	if err := r.client.Del(ctx, r.key(tokenHash)).Err(); err != nil {
		return fmt.Errorf("redis delete session: %w", err)
	}
	return nil
}

func (r *SessionStore) key(tokenHash string) string {
	return keyPrefix + tokenHash
}

func decode(tokenHash string, fields map[string]string) (session.Session, error) {
	accountID, err := strconv.ParseInt(fields["account_id"], 10, 64)
	if err != nil {
		return session.Session{}, fmt.Errorf("account_id: %w", err)
	}
	created, err := strconv.ParseInt(fields["created_at"], 10, 64)
	if err != nil {
		return session.Session{}, fmt.Errorf("created_at: %w", err)
	}
	expires, err := strconv.ParseInt(fields["expires_at"], 10, 64)
	if err != nil {
		return session.Session{}, fmt.Errorf("expires_at: %w", err)
	}

	return session.Session{
		TokenHash: tokenHash,
		AccountID: accountID,
		CreatedAt: time.UnixMilli(created).UTC(),
		ExpiresAt: time.UnixMilli(expires).UTC(),
	}, nil
}
