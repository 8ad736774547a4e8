package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredicateEmpty(t *testing.T) {
	p := predicate{}
	assert.Empty(t, p.where())
	assert.Empty(t, p.args)
}

func TestPredicateKeySkipsWildcard(t *testing.T) {
	p := predicate{}
	p.key("program", Wildcard)
	p.key("domain", "")
	assert.Empty(t, p.where())

	p.key("subdomain", "www.acme.com")
	assert.Equal(t, " WHERE subdomain = ?", p.where())
	assert.Equal(t, []any{"www.acme.com"}, p.args)
}

func TestPredicateConjunction(t *testing.T) {
	p := predicate{}
	p.key("program", "acme")
	p.eq("scope", "inscope")
	p.eq("resolved", "")
	p.like("webtech", "nginx")
	assert.Equal(t, " WHERE program = ? AND scope = ? AND webtech LIKE ?", p.where())
	assert.Equal(t, []any{"acme", "inscope", "%nginx%"}, p.args)
}

func TestPredicateTimeRange(t *testing.T) {
	p := predicate{}
	require.NoError(t, p.timeRange("created_at", "2024-06"))
	assert.Equal(t, " WHERE created_at BETWEEN ? AND ?", p.where())
	assert.Equal(t, []any{"2024-06-01 00:00:00", "2024-06-30 23:59:59"}, p.args)

	var malformed MalformedTimeRangeError
	assert.ErrorAs(t, p.timeRange("updated_at", "nope"), &malformed)
}
