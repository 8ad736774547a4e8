package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) Database {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

// seedChain creates the acme / acme.com / www.acme.com chain most tests
// build on.
func seedChain(t *testing.T, db Database) {
	t.Helper()
	_, err := db.AddProgram("acme")
	require.NoError(t, err)
	_, err = db.AddDomains("acme.com", "acme", "")
	require.NoError(t, err)
	_, err = db.AddSubdomains("www.acme.com", "acme.com", "acme", SubdomainUpdate{})
	require.NoError(t, err)
}
