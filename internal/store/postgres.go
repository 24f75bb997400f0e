package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// Pool abstracts the pgx connection pool methods the store uses, so tests
// can substitute pgxmock.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS lookup_cache (
	id             TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	company        TEXT NOT NULL,
	country        TEXT NOT NULL,
	employee_count INTEGER NOT NULL,
	looked_up_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at     TIMESTAMPTZ NOT NULL,
	UNIQUE(company, country)
);

CREATE INDEX IF NOT EXISTS idx_lookup_cache_expires_at ON lookup_cache(expires_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) GetCount(ctx context.Context, company, country string) (*CachedCount, error) {
	var cc CachedCount
	err := s.pool.QueryRow(ctx,
		`SELECT id, company, country, employee_count, looked_up_at, expires_at FROM lookup_cache
		 WHERE company = $1 AND country = $2 AND expires_at > now()`,
		company, country,
	).Scan(&cc.ID, &cc.Company, &cc.Country, &cc.EmployeeCount, &cc.LookedUpAt, &cc.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get cached count")
	}
	return &cc, nil
}

func (s *PostgresStore) SetCount(ctx context.Context, company, country string, count int, ttl time.Duration) error {
	id := uuid.New().String()
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	_, err := s.pool.Exec(ctx,
		`INSERT INTO lookup_cache (id, company, country, employee_count, looked_up_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (company, country) DO UPDATE SET
		   employee_count = $4, looked_up_at = $5, expires_at = $6`,
		id, company, country, count, now, expiresAt,
	)
	return eris.Wrap(err, "postgres: set cached count")
}

func (s *PostgresStore) DeleteExpired(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM lookup_cache WHERE expires_at <= now()`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired")
	}
	return int(tag.RowsAffected()), nil
}
