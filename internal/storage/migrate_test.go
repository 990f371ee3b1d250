package storage

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSchema(t *testing.T) {
	dsn := DSN(filepath.Join(t.TempDir(), "schema.db"))

	version, err := migrateSchema(dsn)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)

	version, err = migrateSchema(dsn)
	require.NoError(t, err, "rerun is a no-op")
	assert.Equal(t, uint(2), version)

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer db.Close()
	var tables int
	require.NoError(t, db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('persons', 'categories', 'transactions', 'activity_log')`,
	).Scan(&tables))
	assert.Equal(t, 4, tables)
}

func TestMigrateSchema_RefusesDirtySchema(t *testing.T) {
	dsn := DSN(filepath.Join(t.TempDir(), "dirty.db"))
	_, err := migrateSchema(dsn)
	require.NoError(t, err)

	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE schema_migrations SET dirty = 1`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = migrateSchema(dsn)
	require.ErrorIs(t, err, ErrDirtySchema)
	assert.Contains(t, err.Error(), "version 2")
}
