package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/spookystock/spookystock/internal/db"
)

// newOwner creates an account for tests and returns its id, which doubles as
// the owner id.
func newOwner(t *testing.T, database *sql.DB, username string) int64 {
	t.Helper()
	u, err := CreateUser(context.Background(), database, username, "test-hash")
	if err != nil {
		t.Fatalf("creating test owner %s: %v", username, err)
	}
	return u.ID
}

func newTestOwner(t *testing.T) (*sql.DB, int64) {
	t.Helper()
	database := db.NewTestDB(t)
	return database, newOwner(t, database, "owner")
}
