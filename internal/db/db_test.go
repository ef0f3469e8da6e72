package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_MemoryAndMigrations(t *testing.T) {
	database, err := Init("sqlite", ":memory:")
	require.NoError(t, err)
	defer func() { _ = Close(database) }()

	require.NoError(t, RunMigrations(database.DB, "sqlite"))

	version, err := Version(database.DB, "sqlite")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	var count int
	err = database.Get(&count, `SELECT COUNT(*) FROM talent_bank_items`)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Up is idempotent
	require.NoError(t, RunMigrations(database.DB, "sqlite"))
}

func TestMigrateDown_DropsTable(t *testing.T) {
	database, err := Init("sqlite", ":memory:")
	require.NoError(t, err)
	defer func() { _ = Close(database) }()

	require.NoError(t, RunMigrations(database.DB, "sqlite"))
	require.NoError(t, MigrateDown(database.DB, "sqlite"))

	_, err = database.Exec(`SELECT 1 FROM talent_bank_items`)
	assert.Error(t, err)
}

func TestGetDialect(t *testing.T) {
	assert.Equal(t, "sqlite3", getDialect("sqlite"))
	assert.Equal(t, "postgres", getDialect("pgx"))
	assert.Equal(t, "mysql", getDialect("mysql"))
}
