package testutil

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/trelloflash/internal/db"
	"github.com/vytor/trelloflash/internal/models"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.Open(":memory:")
	require.NoError(t, err)
	return d.DB
}

// MustClose closes a resource and fails the test on error.
func MustClose(t *testing.T, closer interface{ Close() error }) {
	require.NoError(t, closer.Close())
}

// Cards builds cards with the given ids on listID. Questions and answers
// are derived from the id.
func Cards(listID string, ids ...string) []models.Card {
	out := make([]models.Card, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Card{ID: id, ListID: listID, Question: "q-" + id, Answer: "a-" + id})
	}
	return out
}
