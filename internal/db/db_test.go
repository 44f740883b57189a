package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/trelloflash/internal/db"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	d, err := db.Open(":memory:")
	require.NoError(t, err)
	defer d.Close()

	for _, table := range []string{"settings", "hidden_boards", "session_results", "session_answers"} {
		var name string
		err := d.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		assert.NoError(t, err, "table %s missing", table)
	}

	var applied int
	require.NoError(t, d.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)
	assert.NoError(t, d.Ready(context.Background()))
}

func TestOpen_IsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flash.db")

	first, err := db.Open(path)
	require.NoError(t, err)
	_, err = first.Exec(`INSERT INTO hidden_boards (board_id) VALUES ('b1')`)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := db.Open(path)
	require.NoError(t, err)
	defer second.Close()

	var n int
	require.NoError(t, second.QueryRow(`SELECT COUNT(*) FROM hidden_boards`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestReady_ClosedDatabase(t *testing.T) {
	d, err := db.Open(":memory:")
	require.NoError(t, err)
	require.NoError(t, d.Close())

	assert.Error(t, d.Ready(context.Background()))
}
