package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunThubSpace/subscope/models"
)

func TestAddURLRequiresChain(t *testing.T) {
	db := newTestDB(t)
	_, err := db.AddProgram("acme")
	require.NoError(t, err)
	_, err = db.AddDomains("acme.com", "acme", "")
	require.NoError(t, err)

	var notFound ParentNotFoundError
	_, err = db.AddURL("https://www.acme.com", "www.acme.com", "acme.com", "acme", URLUpdate{})
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "subdomain", notFound.Kind)
}

func TestAddURLDefaults(t *testing.T) {
	db := newTestDB(t)
	seedChain(t, db)

	result, err := db.AddURL("https://www.acme.com", "www.acme.com", "acme.com", "acme", URLUpdate{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, result.Outcome)

	urls, err := db.ListURLs(URLFilter{URL: "https://www.acme.com", Program: "acme"})
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.Equal(t, "/", urls[0].Path)
	assert.Equal(t, models.Inscope, urls[0].Scope)
	assert.Empty(t, urls[0].Scheme)
	assert.Empty(t, urls[0].StatusCode)
	assert.False(t, urls[0].CDN)
}

func TestAddURLDiffUpdates(t *testing.T) {
	db := newTestDB(t)
	seedChain(t, db)
	_, err := db.AddURL("https://www.acme.com", "www.acme.com", "acme.com", "acme", URLUpdate{StatusCode: "200"})
	require.NoError(t, err)

	result, err := db.AddURL("https://www.acme.com", "www.acme.com", "acme.com", "acme", URLUpdate{StatusCode: "200", Title: "Welcome"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdated, result.Outcome)
	assert.Equal(t, []string{"title"}, result.Changed)

	result, err = db.AddURL("https://www.acme.com", "www.acme.com", "acme.com", "acme", URLUpdate{StatusCode: "200", Title: "Welcome"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, result.Outcome)
}

func TestURLCountsPropagate(t *testing.T) {
	db := newTestDB(t)
	seedChain(t, db)
	_, err := db.AddURL("https://www.acme.com", "www.acme.com", "acme.com", "acme", URLUpdate{})
	require.NoError(t, err)
	_, err = db.AddURL("https://www.acme.com/login", "www.acme.com", "acme.com", "acme", URLUpdate{Path: "/login"})
	require.NoError(t, err)

	subs, err := db.ListSubdomains(SubdomainFilter{Subdomain: "www.acme.com", Program: "acme"})
	require.NoError(t, err)
	assert.Equal(t, 2, subs[0].URLs)

	domains, err := db.ListDomains(DomainFilter{Domain: "acme.com", Program: "acme"})
	require.NoError(t, err)
	assert.Equal(t, 2, domains[0].URLs)

	programs, err := db.ListPrograms("acme")
	require.NoError(t, err)
	assert.Equal(t, 2, programs[0].URLs)
}

func TestURLPortFilterIsExact(t *testing.T) {
	db := newTestDB(t)
	seedChain(t, db)
	_, err := db.AddURL("https://www.acme.com:8080/admin", "www.acme.com", "acme.com", "acme", URLUpdate{Port: "8080"})
	require.NoError(t, err)
	_, err = db.AddURL("http://www.acme.com", "www.acme.com", "acme.com", "acme", URLUpdate{Port: "80"})
	require.NoError(t, err)

	urls, err := db.ListURLs(URLFilter{Program: "acme", Port: "80"})
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.Equal(t, "http://www.acme.com", urls[0].URL)

	// Port 80 must not take the 8080 row with it.
	result, err := db.DeleteURLs(URLFilter{Program: "acme", Port: "80"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)

	urls, err = db.ListURLs(URLFilter{Program: "acme"})
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.Equal(t, "https://www.acme.com:8080/admin", urls[0].URL)
}

func TestListURLsWebtechSubstring(t *testing.T) {
	db := newTestDB(t)
	seedChain(t, db)
	_, err := db.AddURL("https://www.acme.com", "www.acme.com", "acme.com", "acme", URLUpdate{Webtech: "nginx, php"})
	require.NoError(t, err)
	_, err = db.AddURL("https://www.acme.com/static", "www.acme.com", "acme.com", "acme", URLUpdate{Webtech: "caddy"})
	require.NoError(t, err)

	urls, err := db.ListURLs(URLFilter{Program: "acme", Webtech: "php"})
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.Equal(t, "https://www.acme.com", urls[0].URL)
}

func TestDeleteURLsWebtechIsExact(t *testing.T) {
	db := newTestDB(t)
	seedChain(t, db)
	_, err := db.AddURL("https://www.acme.com", "www.acme.com", "acme.com", "acme", URLUpdate{Webtech: "nginx, php"})
	require.NoError(t, err)

	result, err := db.DeleteURLs(URLFilter{Program: "acme", Webtech: "php"})
	require.NoError(t, err)
	assert.Zero(t, result.Deleted)

	result, err = db.DeleteURLs(URLFilter{Program: "acme", Webtech: "nginx, php"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)

	programs, err := db.ListPrograms("acme")
	require.NoError(t, err)
	assert.Zero(t, programs[0].URLs)
}

func TestDeleteURLsByStatusCode(t *testing.T) {
	db := newTestDB(t)
	seedChain(t, db)
	_, err := db.AddURL("https://www.acme.com", "www.acme.com", "acme.com", "acme", URLUpdate{StatusCode: "200"})
	require.NoError(t, err)
	_, err = db.AddURL("https://www.acme.com/old", "www.acme.com", "acme.com", "acme", URLUpdate{StatusCode: "404"})
	require.NoError(t, err)

	result, err := db.DeleteURLs(URLFilter{Program: "acme", StatusCode: "404"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)

	urls, err := db.ListURLs(URLFilter{Program: "acme"})
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.Equal(t, "200", urls[0].StatusCode)
}
