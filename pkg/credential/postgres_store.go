package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
)

// DB is the subset of pgxpool.Pool and pgx.Conn used by PostgresStore.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore persists credentials in the google_credentials table.
// Put is a single upsert, so concurrent writers for one user resolve to the
// last committed row.
type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Put(ctx context.Context, userId string, credential Credential) error {
	query := `INSERT INTO google_credentials (user_id, access_token, refresh_token, expiry, updated_at)
				VALUES ($1, $2, $3, $4, now())
				ON CONFLICT (user_id) DO UPDATE SET access_token = EXCLUDED.access_token,
					refresh_token = EXCLUDED.refresh_token, expiry = EXCLUDED.expiry, updated_at = now()`
	_, err := s.db.Exec(ctx, query, userId, credential.AccessToken, credential.RefreshToken, credential.Expiry)
	if err != nil {
		log.Errorf("failed to store credential for user %s: %v", userId, err)
		return fmt.Errorf("unable to store credential: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userId string) (Credential, bool, error) {
	query := `SELECT access_token, refresh_token, expiry FROM google_credentials WHERE user_id = $1`
	credential := Credential{UserId: userId}
	err := s.db.QueryRow(ctx, query, userId).Scan(&credential.AccessToken, &credential.RefreshToken, &credential.Expiry)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credential{}, false, nil
	} else if err != nil {
		log.Errorf("failed to load credential for user %s: %v", userId, err)
		return Credential{}, false, fmt.Errorf("unable to retrieve credential: %w", err)
	}
	return credential, true, nil
}

func (s *PostgresStore) Delete(ctx context.Context, userId string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM google_credentials WHERE user_id = $1`, userId)
	if err != nil {
		log.Errorf("failed to delete credential for user %s: %v", userId, err)
		return fmt.Errorf("unable to delete credential: %w", err)
	}
	return nil
}

func (s *PostgresStore) Has(ctx context.Context, userId string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM google_credentials WHERE user_id = $1)`, userId).Scan(&exists)
	if err != nil {
		log.Errorf("failed to check credential for user %s: %v", userId, err)
		return false, fmt.Errorf("unable to check credential: %w", err)
	}
	return exists, nil
}
