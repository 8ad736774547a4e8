package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Exercises a full recon session: build the hierarchy, enrich it from two
// passes, query it, then tear a branch down and watch the counts follow.
func TestReconWorkflow(t *testing.T) {
	db := newTestDB(t)

	_, err := db.AddProgram("acme")
	require.NoError(t, err)
	_, err = db.AddDomains("acme.com", "acme", "")
	require.NoError(t, err)

	// First pass finds the host, second pass re-finds it with another tool.
	results, err := db.AddSubdomains("www.acme.com", "acme.com", "acme", SubdomainUpdate{Sources: []string{"recon1"}})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, results[0].Outcome)

	results, err = db.AddSubdomains("www.acme.com", "acme.com", "acme", SubdomainUpdate{
		Sources:   []string{"recon2"},
		Resolved:  "yes",
		IPAddress: "203.0.113.10",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, results[0].Outcome)

	subs, err := db.ListSubdomains(SubdomainFilter{Subdomain: "www.acme.com", Domain: "acme.com", Program: "acme"})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, []string{"recon1", "recon2"}, subs[0].Sources)
	assert.True(t, subs[0].Resolved)

	_, err = db.AddURL("https://www.acme.com/login", "www.acme.com", "acme.com", "acme", URLUpdate{
		Scheme:     "https",
		StatusCode: "200",
		Path:       "/login",
	})
	require.NoError(t, err)
	_, err = db.AddIP("203.0.113.10", "acme", IPUpdate{Ports: []string{"443"}})
	require.NoError(t, err)

	programs, err := db.ListPrograms("acme")
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, 1, programs[0].Domains)
	assert.Equal(t, 1, programs[0].Subdomains)
	assert.Equal(t, 1, programs[0].URLs)
	assert.Equal(t, 1, programs[0].IPs)

	urls, err := db.ListURLs(URLFilter{Program: "acme", StatusCode: "200"})
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.Equal(t, "https://www.acme.com/login", urls[0].URL)

	// Dropping the domain takes the subdomain and url with it; the ip
	// ledger is per-program and survives.
	result, err := db.DeleteDomains(DomainFilter{Domain: "acme.com", Program: "acme"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 1, result.Subdomains)
	assert.Equal(t, 1, result.URLs)

	programs, err = db.ListPrograms("acme")
	require.NoError(t, err)
	assert.Zero(t, programs[0].Domains)
	assert.Zero(t, programs[0].Subdomains)
	assert.Zero(t, programs[0].URLs)
	assert.Equal(t, 1, programs[0].IPs)
}
