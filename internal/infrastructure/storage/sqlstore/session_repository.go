package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"passvault/internal/domain/session"
)

const (
	querySessionSweep  = `DELETE FROM sessions WHERE account_id = $1 AND expires_at <= $2`
	querySessionInsert = `INSERT INTO sessions (token_hash, account_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`
	querySessionLookup = `SELECT account_id, created_at, expires_at FROM sessions WHERE token_hash = $1`
	querySessionDelete = `DELETE FROM sessions WHERE token_hash = $1`
)

// SessionRepository keeps sessions in the sessions table so they survive a
// restart and are shared by every server instance.
type SessionRepository struct {
	db  *Storage
	log *slog.Logger
	now func() time.Time
}

func NewSessionRepository(db *Storage, log *slog.Logger) *SessionRepository {
	return &SessionRepository{
		db:  db,
		log: log.With("component", "session_repository"),
		now: time.Now,
	}
}

func (r *SessionRepository) Create(ctx context.Context, s session.Session) error {
	return r.db.WithConn(ctx, func(conn *sql.Conn) error {
		// Удаляем протухшие сессии этого пользователя
		res, err := conn.ExecContext(ctx, querySessionSweep, s.AccountID, r.now().UTC())
		if err != nil {
			return fmt.Errorf("sweep sessions: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			r.log.Debug("expired sessions removed", "account_id", s.AccountID, "count", n)
		}

		if _, err := conn.ExecContext(ctx, querySessionInsert,
			s.TokenHash, s.AccountID, s.CreatedAt.UTC(), s.ExpiresAt.UTC()); err != nil {
			return fmt.Errorf("insert session: %w", err)
		}
		return nil
	})
}

func (r *SessionRepository) Lookup(ctx context.Context, tokenHash string) (session.Session, error) {
	s := session.Session{TokenHash: tokenHash}
	err := r.db.WithConn(ctx, func(conn *sql.Conn) error {
		err := conn.QueryRowContext(ctx, querySessionLookup, tokenHash).Scan(&s.AccountID, &s.CreatedAt, &s.ExpiresAt)
		if err != nil {
			return err
		}
		if s.Expired(r.now()) {
			if _, err := conn.ExecContext(ctx, querySessionDelete, tokenHash); err != nil {
				r.log.Warn("failed to drop expired session", "account_id", s.AccountID, "error", err)
			}
			return session.ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, session.ErrNotFound) {
			return session.Session{}, session.ErrNotFound
		}
		return session.Session{}, fmt.Errorf("lookup session: %w", err)
	}

	return s, nil
}

func (r *SessionRepository) Delete(ctx context.Context, tokenHash string) error {
	return r.db.WithConn(ctx, func(conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx, querySessionDelete, tokenHash); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}
