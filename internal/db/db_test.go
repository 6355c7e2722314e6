package db

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/numguess/assets"
)

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	sqlDB, err := Open(path)
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, sqlDB.Ping())
	assert.FileExists(t, path)
}

func TestMigrateEmbeddedIsIdempotent(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, Migrate(sqlDB, assets.Migrations()))
	require.NoError(t, Migrate(sqlDB, assets.Migrations()))

	var n int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM _migrations`).Scan(&n))
	assert.Equal(t, 2, n)

	for _, table := range []string{"users", "games", "daily_results"} {
		var name string
		err := sqlDB.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestMigrateOrderAndFailure(t *testing.T) {
	sqlDB, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	migrations := fstest.MapFS{
		"002_fill.sql":   {Data: []byte(`INSERT INTO t(v) VALUES (1);`)},
		"001_create.sql": {Data: []byte(`CREATE TABLE t (v INTEGER);`)},
		"README.md":      {Data: []byte(`ignored`)},
	}
	require.NoError(t, Migrate(sqlDB, migrations))

	var v int
	require.NoError(t, sqlDB.QueryRow(`SELECT v FROM t`).Scan(&v))
	assert.Equal(t, 1, v)

	broken := fstest.MapFS{"003_broken.sql": {Data: []byte(`NOT SQL AT ALL;`)}}
	err = Migrate(sqlDB, broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "003_broken.sql")

	var n int
	require.NoError(t, sqlDB.QueryRow(`SELECT COUNT(*) FROM _migrations WHERE name='003_broken.sql'`).Scan(&n))
	assert.Equal(t, 0, n)
}
