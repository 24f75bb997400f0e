package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS lookup_cache (
	id             TEXT PRIMARY KEY,
	company        TEXT NOT NULL,
	country        TEXT NOT NULL,
	employee_count INTEGER NOT NULL,
	looked_up_at   DATETIME NOT NULL DEFAULT (datetime('now')),
	expires_at     DATETIME NOT NULL,
	UNIQUE(company, country)
);

CREATE INDEX IF NOT EXISTS idx_lookup_cache_expires_at ON lookup_cache(expires_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetCount(ctx context.Context, company, country string) (*CachedCount, error) {
	var cc CachedCount
	err := s.db.QueryRowContext(ctx,
		`SELECT id, company, country, employee_count, looked_up_at, expires_at FROM lookup_cache
		 WHERE company = ? AND country = ? AND expires_at > datetime('now')`,
		company, country,
	).Scan(&cc.ID, &cc.Company, &cc.Country, &cc.EmployeeCount, &cc.LookedUpAt, &cc.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "sqlite: get cached count")
	}
	return &cc, nil
}

func (s *SQLiteStore) SetCount(ctx context.Context, company, country string, count int, ttl time.Duration) error {
	id := uuid.New().String()
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lookup_cache (id, company, country, employee_count, looked_up_at, expires_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(company, country) DO UPDATE SET
		   employee_count = excluded.employee_count,
		   looked_up_at   = excluded.looked_up_at,
		   expires_at     = excluded.expires_at`,
		id, company, country, count, now, expiresAt,
	)
	return eris.Wrap(err, "sqlite: set cached count")
}

func (s *SQLiteStore) DeleteExpired(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM lookup_cache WHERE expires_at <= datetime('now')`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: delete expired")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: rows affected")
	}
	return int(n), nil
}
