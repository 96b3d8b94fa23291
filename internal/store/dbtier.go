package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"scanledger/internal/dbx"
	"scanledger/internal/store/migrations"
)

// DBTier stores blobs in a relational database, one row per key. It is the
// structured fallback tier: SQLite for a local station, Postgres for a
// station pool sharing one mirror.
//
// The driver is picked from the DSN: postgres:// or postgresql:// DSNs use
// pgx, anything else is treated as a SQLite path.
type DBTier struct {
	name    string
	db      dbx.DBTX
	sqlDB   *sql.DB
	dialect string

	// nowFn is a test seam for the updated_at column.
	nowFn func() time.Time
}

func runMigrations(ctx context.Context, db *sql.DB, dialect string) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// OpenDBTier opens the database, applies migrations and returns the tier.
func OpenDBTier(ctx context.Context, name, dsn string) (*DBTier, error) {
	driver, dialect := "sqlite", "sqlite3"
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver, dialect = "pgx", "postgres"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := runMigrations(ctx, db, dialect); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &DBTier{name: name, db: db, sqlDB: db, dialect: dialect, nowFn: time.Now}, nil
}

// NewDBTier wraps an already-open handle. Used by tests and by callers that
// manage the connection themselves.
func NewDBTier(name string, db dbx.DBTX, dialect string) *DBTier {
	return &DBTier{name: name, db: db, dialect: dialect, nowFn: time.Now}
}

func (d *DBTier) Name() string { return d.name }

func (d *DBTier) Close() error {
	if d.sqlDB == nil {
		return nil
	}
	return d.sqlDB.Close()
}

func (d *DBTier) getQuery() string {
	if d.dialect == "postgres" {
		return `SELECT data FROM blobs WHERE key = $1`
	}
	return `SELECT data FROM blobs WHERE key = ?`
}

func (d *DBTier) setQuery() string {
	if d.dialect == "postgres" {
		return `INSERT INTO blobs (key, data, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`
	}
	return `INSERT INTO blobs (key, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`
}

func (d *DBTier) Get(ctx context.Context, key string) ([]byte, error) {
	var data string
	row := d.db.QueryRowContext(ctx, d.getQuery(), key)
	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to select blob %q: %w", key, err)
	}
	return []byte(data), nil
}

func (d *DBTier) Set(ctx context.Context, key string, blob []byte) error {
	ts := d.nowFn().UTC().Format(time.RFC3339)
	if _, err := d.db.ExecContext(ctx, d.setQuery(), key, string(blob), ts); err != nil {
		return fmt.Errorf("failed to upsert blob %q: %w", key, err)
	}
	return nil
}
