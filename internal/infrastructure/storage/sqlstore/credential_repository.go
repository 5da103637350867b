package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/exp/slog"

	"passvault/internal/domain/credential"
)

const (
	queryCredentialList = `SELECT id, owner_id, site_name, site_url, site_secret, created_at, updated_at
FROM credentials WHERE owner_id = $1 ORDER BY id`
	queryCredentialInsert = `INSERT INTO credentials (owner_id, site_name, site_url, site_secret, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	queryCredentialUpdate = `UPDATE credentials SET site_name = $1, site_url = $2, site_secret = $3, updated_at = $4
WHERE id = $5 AND owner_id = $6`
)

type CredentialRepository struct {
	db  *Storage
	log *slog.Logger
}

func NewCredentialRepository(db *Storage, log *slog.Logger) *CredentialRepository {
	return &CredentialRepository{
		db:  db,
		log: log.With("component", "credential_repository"),
	}
}

func (r *CredentialRepository) ListByOwner(ctx context.Context, ownerID int64) ([]credential.Record, error) {
	var records []credential.Record
	err := r.db.WithConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, queryCredentialList, ownerID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var rec credential.Record
			if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.SiteName, &rec.SiteURL, &rec.SiteSecret, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
				return err
			}
			records = append(records, rec)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}

	return records, nil
}

func (r *CredentialRepository) Create(ctx context.Context, rec credential.Record) (credential.Record, error) {
	now := time.Now().UTC()
	rec.CreatedAt, rec.UpdatedAt = now, now

	err := r.db.WithConn(ctx, func(conn *sql.Conn) error {
		return conn.QueryRowContext(ctx, queryCredentialInsert,
			rec.OwnerID, rec.SiteName, rec.SiteURL, rec.SiteSecret, rec.CreatedAt, rec.UpdatedAt).
			Scan(&rec.ID)
	})
	if err != nil {
		return credential.Record{}, fmt.Errorf("insert credential: %w", err)
	}

	return rec, nil
}

func (r *CredentialRepository) UpdateOwned(ctx context.Context, rec credential.Record) (int64, error) {
	var affected int64
	err := r.db.WithConn(ctx, func(conn *sql.Conn) error {
		res, err := conn.ExecContext(ctx, queryCredentialUpdate,
			rec.SiteName, rec.SiteURL, rec.SiteSecret, time.Now().UTC(), rec.ID, rec.OwnerID)
		if err != nil {
			return err
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("update credential: %w", err)
	}

	r.log.Debug("credential update", "record_id", rec.ID, "owner_id", rec.OwnerID, "rows_affected", affected)
	return affected, nil
}
