package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddSubdomainRequiresParents(t *testing.T) {
	db := newTestDB(t)
	_, err := db.AddProgram("acme")
	require.NoError(t, err)

	var notFound ParentNotFoundError
	_, err = db.AddSubdomains("www.acme.com", "acme.com", "ghost", SubdomainUpdate{})
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "program", notFound.Kind)

	_, err = db.AddSubdomains("www.acme.com", "acme.com", "acme", SubdomainUpdate{})
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "domain", notFound.Kind)
}

func TestAddSubdomainDefaults(t *testing.T) {
	db := newTestDB(t)
	seedChain(t, db)

	subs, err := db.ListSubdomains(SubdomainFilter{Subdomain: "www.acme.com", Domain: "acme.com", Program: "acme"})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Empty(t, subs[0].Sources)
	assert.False(t, subs[0].Resolved)
	assert.False(t, subs[0].CDN)
	assert.Empty(t, subs[0].IPAddress)
	assert.Empty(t, subs[0].CDNName)
}

func TestSubdomainSourceMerge(t *testing.T) {
	db := newTestDB(t)
	seedChain(t, db)

	results, err := db.AddSubdomains("www.acme.com", "acme.com", "acme", SubdomainUpdate{Sources: []string{"recon1"}})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, results[0].Outcome)

	results, err = db.AddSubdomains("www.acme.com", "acme.com", "acme", SubdomainUpdate{Sources: []string{"recon2"}})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, results[0].Outcome)

	// Re-adding a known source changes nothing.
	results, err = db.AddSubdomains("www.acme.com", "acme.com", "acme", SubdomainUpdate{Sources: []string{"recon1"}})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, results[0].Outcome)

	subs, err := db.ListSubdomains(SubdomainFilter{Subdomain: "www.acme.com", Domain: "acme.com", Program: "acme"})
	require.NoError(t, err)
	assert.Equal(t, []string{"recon1", "recon2"}, subs[0].Sources)

	results, err = db.AddSubdomains("www.acme.com", "acme.com", "acme", SubdomainUpdate{Unsources: []string{"recon1"}})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, results[0].Outcome)

	subs, err = db.ListSubdomains(SubdomainFilter{Subdomain: "www.acme.com", Domain: "acme.com", Program: "acme"})
	require.NoError(t, err)
	assert.Equal(t, []string{"recon2"}, subs[0].Sources)
}

func TestSubdomainEnrichmentAndClear(t *testing.T) {
	db := newTestDB(t)
	seedChain(t, db)

	upd := SubdomainUpdate{Resolved: "yes", IPAddress: "10.0.0.1", CDNStatus: "yes", CDNName: "cloudflare"}
	results, err := db.AddSubdomains("www.acme.com", "acme.com", "acme", upd)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"resolved", "ip_address", "cdn_status", "cdn_name"}, results[0].Changed)

	subs, err := db.ListSubdomains(SubdomainFilter{Subdomain: "www.acme.com", Domain: "acme.com", Program: "acme"})
	require.NoError(t, err)
	assert.True(t, subs[0].Resolved)
	assert.Equal(t, "10.0.0.1", subs[0].IPAddress)
	assert.True(t, subs[0].CDN)
	assert.Equal(t, "cloudflare", subs[0].CDNName)

	results, err = db.AddSubdomains("www.acme.com", "acme.com", "acme", SubdomainUpdate{ClearIP: true, ClearCDNName: true})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, results[0].Outcome)

	subs, err = db.ListSubdomains(SubdomainFilter{Subdomain: "www.acme.com", Domain: "acme.com", Program: "acme"})
	require.NoError(t, err)
	assert.Empty(t, subs[0].IPAddress)
	assert.Empty(t, subs[0].CDNName)

	// Clearing an already-clear field is a no-op.
	results, err = db.AddSubdomains("www.acme.com", "acme.com", "acme", SubdomainUpdate{ClearIP: true})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, results[0].Outcome)
}

func TestSubdomainUpdatedAtBumpsOnlyOnChange(t *testing.T) {
	db := newTestDB(t)
	seedChain(t, db)

	before, err := db.ListSubdomains(SubdomainFilter{Subdomain: "www.acme.com", Domain: "acme.com", Program: "acme"})
	require.NoError(t, err)

	_, err = db.AddSubdomains("www.acme.com", "acme.com", "acme", SubdomainUpdate{})
	require.NoError(t, err)

	after, err := db.ListSubdomains(SubdomainFilter{Subdomain: "www.acme.com", Domain: "acme.com", Program: "acme"})
	require.NoError(t, err)
	assert.Equal(t, before[0].UpdatedAt, after[0].UpdatedAt)
}

func TestListSubdomainsSourceFilters(t *testing.T) {
	db := newTestDB(t)
	seedChain(t, db)
	_, err := db.AddSubdomains("www.acme.com", "acme.com", "acme", SubdomainUpdate{Sources: []string{"recon1", "recon2"}})
	require.NoError(t, err)
	_, err = db.AddSubdomains("api.acme.com", "acme.com", "acme", SubdomainUpdate{Sources: []string{"recon1"}})
	require.NoError(t, err)

	subs, err := db.ListSubdomains(SubdomainFilter{Program: "acme", Sources: []string{"recon2"}})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "www.acme.com", subs[0].Subdomain)

	// source-only keeps rows whose entire provenance is the one tag.
	subs, err = db.ListSubdomains(SubdomainFilter{Program: "acme", Sources: []string{"recon1"}, SourceOnly: true})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "api.acme.com", subs[0].Subdomain)
}

func TestListSubdomainsTimeFilter(t *testing.T) {
	db := newTestDB(t)
	seedChain(t, db)

	thisYear := time.Now().Format("2006")
	subs, err := db.ListSubdomains(SubdomainFilter{Program: "acme", CreateTime: thisYear})
	require.NoError(t, err)
	assert.Len(t, subs, 1)

	subs, err = db.ListSubdomains(SubdomainFilter{Program: "acme", CreateTime: "1999"})
	require.NoError(t, err)
	assert.Empty(t, subs)

	_, err = db.ListSubdomains(SubdomainFilter{Program: "acme", CreateTime: "junk"})
	var malformed MalformedTimeRangeError
	require.True(t, errors.As(err, &malformed))
}

func TestDeleteSubdomainsBySourceSubstring(t *testing.T) {
	db := newTestDB(t)
	seedChain(t, db)
	_, err := db.AddSubdomains("www.acme.com", "acme.com", "acme", SubdomainUpdate{Sources: []string{"recon1"}})
	require.NoError(t, err)
	_, err = db.AddSubdomains("api.acme.com", "acme.com", "acme", SubdomainUpdate{Sources: []string{"crawler"}})
	require.NoError(t, err)

	result, err := db.DeleteSubdomains(SubdomainFilter{Program: "acme", Sources: []string{"recon"}})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)

	subs, err := db.ListSubdomains(SubdomainFilter{Program: "acme"})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "api.acme.com", subs[0].Subdomain)
}

func TestDeleteSubdomainsFromFile(t *testing.T) {
	db := newTestDB(t)
	seedChain(t, db)
	_, err := db.AddSubdomains("api.acme.com", "acme.com", "acme", SubdomainUpdate{})
	require.NoError(t, err)
	_, err = db.AddSubdomains("dev.acme.com", "acme.com", "acme", SubdomainUpdate{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "stale.txt")
	require.NoError(t, os.WriteFile(path, []byte("api.acme.com\ndev.acme.com\n"), 0o644))

	result, err := db.DeleteSubdomains(SubdomainFilter{Subdomain: path, Domain: "acme.com", Program: "acme"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Deleted)

	subs, err := db.ListSubdomains(SubdomainFilter{Program: "acme"})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "www.acme.com", subs[0].Subdomain)
}

func TestDeleteSubdomainsCascadesToURLs(t *testing.T) {
	db := newTestDB(t)
	seedChain(t, db)
	_, err := db.AddURL("https://www.acme.com", "www.acme.com", "acme.com", "acme", URLUpdate{})
	require.NoError(t, err)

	result, err := db.DeleteSubdomains(SubdomainFilter{Subdomain: "www.acme.com", Program: "acme"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 1, result.URLs)

	programs, err := db.ListPrograms("acme")
	require.NoError(t, err)
	assert.Zero(t, programs[0].Subdomains)
	assert.Zero(t, programs[0].URLs)
	assert.Equal(t, 1, programs[0].Domains)
}
