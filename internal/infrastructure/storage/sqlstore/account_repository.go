package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"passvault/internal/domain/account"
)

const (
	queryAccountExists = `SELECT EXISTS (SELECT 1 FROM accounts WHERE username = $1)`
	queryAccountInsert = `INSERT INTO accounts (username, password_hash, created_at) VALUES ($1, $2, $3) RETURNING id`
	queryAccountByName = `SELECT id, username, password_hash, created_at FROM accounts WHERE username = $1`
)

type AccountRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewAccountRepository(db *Storage, log *slog.Logger) *AccountRepository {
	return &AccountRepository{
		db:  db,
		log: log.With("component", "account_repository"),
	}
}

func (r *AccountRepository) Create(ctx context.Context, username, passwordHash string) (account.Account, error) {
	acc := account.Account{
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	err := r.db.WithConn(ctx, func(conn *sql.Conn) error {
		var exists bool
		if err := conn.QueryRowContext(ctx, queryAccountExists, username).Scan(&exists); err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if exists {
			return account.ErrUsernameTaken
		}

		if err := conn.QueryRowContext(ctx, queryAccountInsert, username, passwordHash, acc.CreatedAt).Scan(&acc.ID); err != nil {
			return fmt.Errorf("insert account: %w", err)
		}
		return nil
	})
	if err != nil {
		return account.Account{}, err
	}

	return acc, nil
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (account.Account, error) {
	var acc account.Account
	err := r.db.WithConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, queryAccountByName, username).
			Scan(&acc.ID, &acc.Username, &acc.PasswordHash, &acc.CreatedAt)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return account.Account{}, account.ErrNotFound
		}
		return account.Account{}, fmt.Errorf("find account: %w", err)
	}

	return acc, nil
}
