package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE blobs (
  key TEXT PRIMARY KEY,
  data TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT ''
);
`)
	require.NoError(t, err)

	return db
}

func TestDBTier_SetThenGet(t *testing.T) {
	db := setupDB(t)
	tier := NewDBTier("db", db, "sqlite3")
	ctx := context.Background()

	require.NoError(t, tier.Set(ctx, KeyScanned, []byte(`[{"code":"A"}]`)))

	got, err := tier.Get(ctx, KeyScanned)
	require.NoError(t, err)
	assert.Equal(t, []byte(`[{"code":"A"}]`), got)
}

func TestDBTier_SetUpsertsByKey(t *testing.T) {
	db := setupDB(t)
	tier := NewDBTier("db", db, "sqlite3")
	ctx := context.Background()

	require.NoError(t, tier.Set(ctx, KeyScanned, []byte(`["old"]`)))
	require.NoError(t, tier.Set(ctx, KeyScanned, []byte(`["new"]`)))

	got, err := tier.Get(ctx, KeyScanned)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["new"]`), got)

	var n int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM blobs`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestDBTier_GetMissingKeyReturnsNil(t *testing.T) {
	db := setupDB(t)
	tier := NewDBTier("db", db, "sqlite3")

	got, err := tier.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDBTier_KeysAreIndependent(t *testing.T) {
	db := setupDB(t)
	tier := NewDBTier("db", db, "sqlite3")
	ctx := context.Background()

	require.NoError(t, tier.Set(ctx, KeyScanned, []byte(`["A"]`)))
	require.NoError(t, tier.Set(ctx, KeyDeleted, []byte(`["B"]`)))

	scanned, err := tier.Get(ctx, KeyScanned)
	require.NoError(t, err)
	deleted, err := tier.Get(ctx, KeyDeleted)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["A"]`), scanned)
	assert.Equal(t, []byte(`["B"]`), deleted)
}

func TestDBTier_PostgresPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tier := NewDBTier("db", db, "postgres")
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO blobs`).
		WithArgs(KeyScanned, `["A"]`, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, tier.Set(ctx, KeyScanned, []byte(`["A"]`)))

	mock.ExpectQuery(`SELECT data FROM blobs`).
		WithArgs(KeyScanned).
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(`["A"]`))

	got, err := tier.Get(ctx, KeyScanned)
	require.NoError(t, err)
	assert.Equal(t, []byte(`["A"]`), got)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDBTier_SetErrorIsWrapped(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	tier := NewDBTier("db", db, "postgres")

	mock.ExpectExec(`INSERT INTO blobs`).
		WillReturnError(sql.ErrConnDone)

	err = tier.Set(context.Background(), KeyScanned, []byte(`["A"]`))
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrConnDone)
}
