package sqlitemigrate_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/encounter-forge/internal/storage/sqlitemigrate"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestApplyRunsEachFileOnce(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	fsys := fstest.MapFS{
		"migrations/001_widgets.sql": {Data: []byte(`-- +migrate Up
CREATE TABLE widgets (id TEXT PRIMARY KEY);
-- +migrate Down
DROP TABLE widgets;
`)},
		"migrations/002_seed.sql": {Data: []byte(`INSERT INTO widgets (id) VALUES ('a');`)},
		"migrations/README.md":    {Data: []byte("not a migration")},
	}

	require.NoError(t, sqlitemigrate.Apply(ctx, db, fsys, "migrations"))
	require.NoError(t, sqlitemigrate.Apply(ctx, db, fsys, "migrations"))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM widgets`).Scan(&count))
	require.Equal(t, 1, count, "seed must run once")

	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&count))
	require.Equal(t, 2, count)
}

func TestApplyFailsOnBadSQL(t *testing.T) {
	db := openTestDB(t)
	fsys := fstest.MapFS{
		"001_bad.sql": {Data: []byte(`CREATE TABLOID nope;`)},
	}

	require.Error(t, sqlitemigrate.Apply(context.Background(), db, fsys, ""))
}

func TestApplyRequiresDB(t *testing.T) {
	require.Error(t, sqlitemigrate.Apply(context.Background(), nil, fstest.MapFS{}, ""))
}

func TestUpSection(t *testing.T) {
	require.Equal(t, "\nA\n", sqlitemigrate.UpSection("-- +migrate Up\nA\n-- +migrate Down\nB"))
	require.Equal(t, "plain", sqlitemigrate.UpSection("plain"))
}
