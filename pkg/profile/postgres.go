package profile

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is the DDL for the assignments table. Applying it is the
// embedding application's responsibility; the store assumes it exists.
const Schema = `
CREATE TABLE IF NOT EXISTS sticky_assignments (
	user_id       TEXT NOT NULL,
	experiment_id TEXT NOT NULL,
	variation_id  TEXT NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (user_id, experiment_id)
);`

// PostgresConfig describes the Postgres-backed store.
type PostgresConfig struct {
	ConnectionString string        `env:"PROFILE_POSTGRES_URL,required"`
	MaxConns         int32         `env:"PROFILE_POSTGRES_MAX_CONNS" envDefault:"4"`
	RetryAttempts    int           `env:"PROFILE_POSTGRES_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval    time.Duration `env:"PROFILE_POSTGRES_RETRY_INTERVAL" envDefault:"5s"`
}

// ConnectPostgres establishes a pgx pool with linear backoff between
// attempts, verifying the connection with a ping before handing it out.
func ConnectPostgres(ctx context.Context, cfg PostgresConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrInvalidPostgresConfig, err)
	}
	poolCfg.MaxConns = cfg.MaxConns

	for i := 0; i < cfg.RetryAttempts; i++ {
		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
			pool.Close()
		}

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrPostgresNotReady, ctx.Err())
		case <-time.After(time.Duration(i+1) * cfg.RetryInterval):
		}
	}
	return nil, ErrPostgresNotReady
}

// PostgresStore persists assignments in the sticky_assignments table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an established pool. The pool's lifecycle stays
// with the caller.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Lookup fetches every assignment for the user in one query.
func (p *PostgresStore) Lookup(ctx context.Context, userID string) (map[string]string, error) {
	if userID == "" {
		return nil, ErrEmptyUserID
	}

	rows, err := p.pool.Query(ctx,
		`SELECT experiment_id, variation_id FROM sticky_assignments WHERE user_id = $1`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var experimentID, variationID string
		if err := rows.Scan(&experimentID, &variationID); err != nil {
			return nil, err
		}
		out[experimentID] = variationID
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// Save upserts one assignment; the newest write wins.
func (p *PostgresStore) Save(ctx context.Context, userID, experimentID, variationID string) error {
	if userID == "" {
		return ErrEmptyUserID
	}

	_, err := p.pool.Exec(ctx, `
		INSERT INTO sticky_assignments (user_id, experiment_id, variation_id, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_id, experiment_id)
		DO UPDATE SET variation_id = EXCLUDED.variation_id, updated_at = now()`,
		userID, experimentID, variationID)
	return err
}
