package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_CreatesTables(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err, "InitDB should not return an error")
	defer teardown()

	for _, table := range []string{"games", "player_stats", "admin_credentials", "admin_sessions"} {
		var name string
		err = db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		require.NoError(t, err, "querying for %s table should not produce an error", table)
		assert.Equal(t, table, name, "the %s table should be created", table)
	}
}

func TestInitDB_MigrationsAreIdempotent(t *testing.T) {
	db, teardown, err := InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	defer teardown()

	// Re-running the migration set against an up-to-date schema is a no-op.
	require.NoError(t, migrate(db, "../../migrations"))

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM goose_db_version WHERE version_id > 0").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 3, count, "each migration should be recorded exactly once")
}
