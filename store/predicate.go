package store

import "strings"

// Wildcard on an identifying field means "no constraint on this field". It
// is only meaningful for program/domain/subdomain/url/ip arguments;
// attribute filters never use it.
const Wildcard = "*"

func isWildcard(v string) bool {
	return v == "" || v == Wildcard
}

// predicate accumulates AND-ed filter fragments alongside their bound
// values. Column names and operators are the only text that reaches the
// query; every value travels as a parameter.
type predicate struct {
	clauses []string
	args    []any
}

// key constrains an identifying column unless the value is the wildcard.
func (p *predicate) key(column, value string) {
	if isWildcard(value) {
		return
	}
	p.clauses = append(p.clauses, column+" = ?")
	p.args = append(p.args, value)
}

// eq constrains an attribute column when a filter value is present.
func (p *predicate) eq(column, value string) {
	if value == "" {
		return
	}
	p.clauses = append(p.clauses, column+" = ?")
	p.args = append(p.args, value)
}

// like adds a substring match. Used only for the fields with a documented
// substring policy (webtech, delete-subdomain source, cves).
func (p *predicate) like(column, value string) {
	if value == "" {
		return
	}
	p.clauses = append(p.clauses, column+" LIKE ?")
	p.args = append(p.args, "%"+value+"%")
}

// raw adds a prebuilt fragment with its bound values.
func (p *predicate) raw(clause string, args ...any) {
	p.clauses = append(p.clauses, clause)
	p.args = append(p.args, args...)
}

// timeRange resolves a calendar expression and constrains the timestamp
// column to the closed interval it denotes.
func (p *predicate) timeRange(column, expr string) error {
	if expr == "" {
		return nil
	}
	start, end, err := ParseTimeRange(expr)
	if err != nil {
		return err
	}
	p.clauses = append(p.clauses, column+" BETWEEN ? AND ?")
	p.args = append(p.args, start.Format(timeLayout), end.Format(timeLayout))
	return nil
}

// where renders the accumulated conjunction, empty when unconstrained.
func (p *predicate) where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.clauses, " AND ")
}
