package store

import (
	"database/sql"
	"fmt"

	"github.com/hunThubSpace/subscope/models"
)

func (db Database) DomainExists(domain, program string) (bool, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM domains WHERE domain = ? AND program = ?", domain, program).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check domain %s: %w", domain, err)
	}
	return n > 0, nil
}

// DomainFilter narrows domain list/delete operations. Domain and Program are
// identifying fields honoring the wildcard; Scope is a plain attribute
// filter.
type DomainFilter struct {
	Domain  string
	Program string
	Scope   string
}

// AddDomains upserts one domain, or every line of a file of domains, under
// an existing program. Each entry is processed independently; a failing
// entry is reported in its result without aborting the rest.
func (db Database) AddDomains(domainOrFile, program, scope string) ([]UpsertResult, error) {
	exists, err := db.ProgramExists(program)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ParentNotFoundError{Kind: "program", Name: program}
	}

	names, err := expandInput(domainOrFile)
	if err != nil {
		return nil, err
	}

	results := make([]UpsertResult, 0, len(names))
	for _, domain := range names {
		result, err := db.upsertDomain(domain, program, scope)
		if err != nil {
			result = UpsertResult{Name: domain, Err: err}
		}
		results = append(results, result)
	}
	return results, nil
}

func (db Database) upsertDomain(domain, program, scope string) (UpsertResult, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return UpsertResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ts := now()

	var current string
	err = tx.QueryRow("SELECT scope FROM domains WHERE domain = ? AND program = ?", domain, program).Scan(&current)
	switch {
	case err == sql.ErrNoRows:
		if scope == "" {
			scope = string(models.Inscope)
		}
		if _, err := tx.Exec(
			"INSERT INTO domains (domain, program, scope, subdomains, urls, created_at, updated_at) VALUES (?, ?, ?, 0, 0, ?, ?)",
			domain, program, scope, ts, ts,
		); err != nil {
			return UpsertResult{}, wrapExecError("adding domain", err)
		}
		// Subdomain or URL rows from a previous life of this domain count
		// again once the row exists.
		if err := refreshDomainCounts(tx, program, domain); err != nil {
			return UpsertResult{}, fmt.Errorf("failed to refresh domain counts: %w", err)
		}
		if err := refreshProgramCounts(tx, program); err != nil {
			return UpsertResult{}, fmt.Errorf("failed to refresh program counts: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return UpsertResult{}, fmt.Errorf("failed to commit: %w", err)
		}
		return UpsertResult{Name: domain, Outcome: OutcomeCreated}, nil

	case err != nil:
		return UpsertResult{}, fmt.Errorf("failed to get domain %s: %w", domain, err)
	}

	if scope == "" || scope == current {
		return UpsertResult{Name: domain, Outcome: OutcomeUnchanged}, nil
	}

	if _, err := tx.Exec(
		"UPDATE domains SET scope = ?, updated_at = ? WHERE domain = ? AND program = ?",
		scope, ts, domain, program,
	); err != nil {
		return UpsertResult{}, wrapExecError("updating domain", err)
	}
	if err := tx.Commit(); err != nil {
		return UpsertResult{}, fmt.Errorf("failed to commit: %w", err)
	}
	return UpsertResult{Name: domain, Outcome: OutcomeUpdated, Changed: []string{"scope"}}, nil
}

func (db Database) ListDomains(f DomainFilter) ([]models.Domain, error) {
	if err := db.requireProgram(f.Program); err != nil {
		return nil, err
	}

	p := predicate{}
	p.key("program", f.Program)
	p.key("domain", f.Domain)
	p.eq("scope", f.Scope)

	rows, err := db.conn.Query(
		"SELECT domain, program, scope, subdomains, urls, created_at, updated_at FROM domains"+p.where(),
		p.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	defer rows.Close()

	var domains []models.Domain
	for rows.Next() {
		var item models.Domain
		var scope string
		if err := rows.Scan(&item.Domain, &item.Program, &scope, &item.Subdomains, &item.URLs, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan domain row: %w", err)
		}
		item.Scope = models.Scope(scope)
		domains = append(domains, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error when listing domains: %w", err)
	}
	return domains, nil
}

// DeleteDomains removes matching domains together with their subdomains and
// urls, then recounts the affected programs. The scope filter narrows which
// domains match; their children go regardless of child scope.
func (db Database) DeleteDomains(f DomainFilter) (DeleteResult, error) {
	if err := db.requireProgram(f.Program); err != nil {
		return DeleteResult{}, err
	}

	p := predicate{}
	p.key("program", f.Program)
	p.key("domain", f.Domain)
	p.eq("scope", f.Scope)

	tx, err := db.conn.Begin()
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query("SELECT domain, program FROM domains"+p.where(), p.args...)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to select domains for deletion: %w", err)
	}
	type key struct{ domain, program string }
	var victims []key
	for rows.Next() {
		var k key
		if err := rows.Scan(&k.domain, &k.program); err != nil {
			rows.Close()
			return DeleteResult{}, fmt.Errorf("failed to scan domain row: %w", err)
		}
		victims = append(victims, k)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return DeleteResult{}, fmt.Errorf("rows error when selecting domains: %w", err)
	}

	var result DeleteResult
	for _, k := range victims {
		for _, t := range []struct {
			table string
			count *int
		}{
			{"urls", &result.URLs},
			{"subdomains", &result.Subdomains},
		} {
			res, err := tx.Exec(
				"DELETE FROM "+t.table+" WHERE domain = ? AND program = ?",
				k.domain, k.program,
			)
			if err != nil {
				return DeleteResult{}, wrapExecError("deleting domain children", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return DeleteResult{}, fmt.Errorf("failed to count deleted rows: %w", err)
			}
			*t.count += int(n)
		}
	}

	res, err := tx.Exec("DELETE FROM domains"+p.where(), p.args...)
	if err != nil {
		return DeleteResult{}, wrapExecError("deleting domain", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to count deleted rows: %w", err)
	}
	result.Domains = int(n)
	result.Deleted = result.Domains

	if err := refreshProgramCounts(tx, f.Program); err != nil {
		return DeleteResult{}, fmt.Errorf("failed to refresh program counts: %w", err)
	}
	if err := refreshDomainCounts(tx, f.Program, Wildcard); err != nil {
		return DeleteResult{}, fmt.Errorf("failed to refresh domain counts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return DeleteResult{}, fmt.Errorf("failed to commit: %w", err)
	}
	return result, nil
}

// requireProgram gates operations that name a specific program: the wildcard
// passes, a missing program is a ParentNotFound failure.
func (db Database) requireProgram(program string) error {
	if isWildcard(program) {
		return nil
	}
	exists, err := db.ProgramExists(program)
	if err != nil {
		return err
	}
	if !exists {
		return ParentNotFoundError{Kind: "program", Name: program}
	}
	return nil
}
