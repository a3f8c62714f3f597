package services

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/whattoeat/backend/internal/database"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "whattoeat.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db.SQL
}
