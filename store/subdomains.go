package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/hunThubSpace/subscope/models"
)

func (db Database) SubdomainExists(subdomain, domain, program string) (bool, error) {
	var n int
	err := db.conn.QueryRow(
		"SELECT COUNT(1) FROM subdomains WHERE subdomain = ? AND domain = ? AND program = ?",
		subdomain, domain, program,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check subdomain %s: %w", subdomain, err)
	}
	return n > 0, nil
}

// SubdomainUpdate carries the attribute changes of a subdomain upsert. Empty
// fields are "leave alone"; the Clear flags reset their field back to unset.
type SubdomainUpdate struct {
	Sources      []string
	Unsources    []string
	Scope        string
	Resolved     string
	IPAddress    string
	ClearIP      bool
	CDNStatus    string
	CDNName      string
	ClearCDNName bool
}

// SubdomainFilter narrows subdomain list/delete operations. Subdomain,
// Domain and Program honor the wildcard; the rest are attribute filters.
// Sources matches membership against the stored source list; SourceOnly
// additionally requires the stored list to be exactly the one given source.
type SubdomainFilter struct {
	Subdomain  string
	Domain     string
	Program    string
	Sources    []string
	SourceOnly bool
	Scope      string
	Resolved   string
	CDNStatus  string
	IPAddress  string
	CDNName    string
	CreateTime string
	UpdateTime string
}

// AddSubdomains upserts one subdomain, or every line of a file of
// subdomains, under an existing program/domain pair.
func (db Database) AddSubdomains(subOrFile, domain, program string, upd SubdomainUpdate) ([]UpsertResult, error) {
	exists, err := db.ProgramExists(program)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ParentNotFoundError{Kind: "program", Name: program}
	}
	exists, err = db.DomainExists(domain, program)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ParentNotFoundError{Kind: "domain", Name: domain}
	}

	names, err := expandInput(subOrFile)
	if err != nil {
		return nil, err
	}

	results := make([]UpsertResult, 0, len(names))
	for _, sub := range names {
		result, err := db.upsertSubdomain(sub, domain, program, upd)
		if err != nil {
			result = UpsertResult{Name: sub, Err: err}
		}
		results = append(results, result)
	}
	return results, nil
}

func (db Database) upsertSubdomain(subdomain, domain, program string, upd SubdomainUpdate) (UpsertResult, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return UpsertResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ts := now()

	var cur struct {
		source    string
		scope     string
		resolved  string
		ip        string
		cdnStatus string
		cdnName   string
	}
	err = tx.QueryRow(
		"SELECT source, scope, resolved, ip_address, cdn_status, cdn_name FROM subdomains WHERE subdomain = ? AND domain = ? AND program = ?",
		subdomain, domain, program,
	).Scan(&cur.source, &cur.scope, &cur.resolved, &cur.ip, &cur.cdnStatus, &cur.cdnName)

	switch {
	case err == sql.ErrNoRows:
		source := models.JoinList(mergedSources(upd))
		scope := upd.Scope
		if scope == "" {
			scope = string(models.Inscope)
		}
		resolved := orDefault(upd.Resolved, models.No)
		ip := orDefault(upd.IPAddress, models.None)
		cdnStatus := orDefault(upd.CDNStatus, models.No)
		cdnName := orDefault(upd.CDNName, models.None)

		if _, err := tx.Exec(
			`INSERT INTO subdomains (subdomain, domain, program, source, scope, urls, resolved, ip_address, cdn_status, cdn_name, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, 0, ?, ?, ?, ?, ?, ?)`,
			subdomain, domain, program, source, scope, resolved, ip, cdnStatus, cdnName, ts, ts,
		); err != nil {
			return UpsertResult{}, wrapExecError("adding subdomain", err)
		}
		if err := refreshSubdomainCounts(tx, program, domain, subdomain); err != nil {
			return UpsertResult{}, fmt.Errorf("failed to refresh subdomain counts: %w", err)
		}
		if err := refreshDomainCounts(tx, program, domain); err != nil {
			return UpsertResult{}, fmt.Errorf("failed to refresh domain counts: %w", err)
		}
		if err := refreshProgramCounts(tx, program); err != nil {
			return UpsertResult{}, fmt.Errorf("failed to refresh program counts: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return UpsertResult{}, fmt.Errorf("failed to commit: %w", err)
		}
		return UpsertResult{Name: subdomain, Outcome: OutcomeCreated}, nil

	case err != nil:
		return UpsertResult{}, fmt.Errorf("failed to get subdomain %s: %w", subdomain, err)
	}

	var sets []string
	var args []any
	var changed []string
	set := func(column, value string) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
		changed = append(changed, column)
	}

	if len(upd.Sources) > 0 || len(upd.Unsources) > 0 {
		merged, didChange := MergeSources(cur.source, upd.Sources, upd.Unsources)
		if didChange {
			set("source", merged)
		}
	}
	if upd.Scope != "" && upd.Scope != cur.scope {
		set("scope", upd.Scope)
	}
	if upd.Resolved != "" && upd.Resolved != cur.resolved {
		set("resolved", upd.Resolved)
	}
	if upd.IPAddress != "" && upd.IPAddress != cur.ip {
		set("ip_address", upd.IPAddress)
	}
	if upd.ClearIP && cur.ip != models.None {
		set("ip_address", models.None)
	}
	if upd.CDNStatus != "" && upd.CDNStatus != cur.cdnStatus {
		set("cdn_status", upd.CDNStatus)
	}
	if upd.CDNName != "" && upd.CDNName != cur.cdnName {
		set("cdn_name", upd.CDNName)
	}
	if upd.ClearCDNName && cur.cdnName != models.None {
		set("cdn_name", models.None)
	}

	if len(sets) == 0 {
		return UpsertResult{Name: subdomain, Outcome: OutcomeUnchanged}, nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, ts, subdomain, domain, program)
	if _, err := tx.Exec(
		"UPDATE subdomains SET "+strings.Join(sets, ", ")+" WHERE subdomain = ? AND domain = ? AND program = ?",
		args...,
	); err != nil {
		return UpsertResult{}, wrapExecError("updating subdomain", err)
	}
	if err := tx.Commit(); err != nil {
		return UpsertResult{}, fmt.Errorf("failed to commit: %w", err)
	}
	return UpsertResult{Name: subdomain, Outcome: OutcomeUpdated, Changed: changed}, nil
}

// mergedSources is the initial source list of a fresh row: the requested
// additions minus the requested removals.
func mergedSources(upd SubdomainUpdate) []string {
	merged, _ := MergeSources("", upd.Sources, upd.Unsources)
	return models.SplitList(merged)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

// ListSubdomains applies the SQL-expressible filters in the query and the
// source membership filters in memory, since sources live as one serialized
// column.
func (db Database) ListSubdomains(f SubdomainFilter) ([]models.Subdomain, error) {
	if err := db.requireProgram(f.Program); err != nil {
		return nil, err
	}

	p := predicate{}
	p.key("program", f.Program)
	p.key("domain", f.Domain)
	p.key("subdomain", f.Subdomain)
	p.eq("scope", f.Scope)
	p.eq("resolved", f.Resolved)
	p.eq("cdn_status", f.CDNStatus)
	p.eq("ip_address", f.IPAddress)
	p.eq("cdn_name", f.CDNName)
	if err := p.timeRange("created_at", f.CreateTime); err != nil {
		return nil, err
	}
	if err := p.timeRange("updated_at", f.UpdateTime); err != nil {
		return nil, err
	}

	rows, err := db.conn.Query(
		"SELECT subdomain, domain, program, source, scope, urls, resolved, ip_address, cdn_status, cdn_name, created_at, updated_at FROM subdomains"+p.where(),
		p.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list subdomains: %w", err)
	}
	defer rows.Close()

	var subdomains []models.Subdomain
	for rows.Next() {
		item, err := scanSubdomain(rows)
		if err != nil {
			return nil, err
		}
		if !matchesSources(item.Sources, f) {
			continue
		}
		subdomains = append(subdomains, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error when listing subdomains: %w", err)
	}
	return subdomains, nil
}

func scanSubdomain(rows *sql.Rows) (models.Subdomain, error) {
	var item models.Subdomain
	var source, scope, resolved, ip, cdnStatus, cdnName string
	if err := rows.Scan(
		&item.Subdomain, &item.Domain, &item.Program, &source, &scope, &item.URLs,
		&resolved, &ip, &cdnStatus, &cdnName, &item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return models.Subdomain{}, fmt.Errorf("failed to scan subdomain row: %w", err)
	}
	item.Sources = models.SplitList(source)
	item.Scope = models.Scope(scope)
	item.Resolved = models.FromYesNo(resolved)
	item.IPAddress = models.FromNone(ip)
	item.CDN = models.FromYesNo(cdnStatus)
	item.CDNName = models.FromNone(cdnName)
	return item, nil
}

func matchesSources(have []string, f SubdomainFilter) bool {
	if len(f.Sources) == 0 {
		return true
	}
	if f.SourceOnly {
		return len(have) == 1 && have[0] == f.Sources[0]
	}
	set := make(map[string]struct{}, len(have))
	for _, s := range have {
		set[s] = struct{}{}
	}
	for _, want := range f.Sources {
		if _, ok := set[want]; ok {
			return true
		}
	}
	return false
}

// DeleteSubdomains removes matching subdomains and their urls. The
// Subdomain field may name a file of subdomains, which are all deleted under
// the same filters. A source filter matches by substring against the
// serialized source column.
func (db Database) DeleteSubdomains(f SubdomainFilter) (DeleteResult, error) {
	if err := db.requireProgram(f.Program); err != nil {
		return DeleteResult{}, err
	}

	names, err := expandInput(f.Subdomain)
	if err != nil {
		return DeleteResult{}, err
	}
	var total DeleteResult
	for _, name := range names {
		f.Subdomain = name
		result, err := db.deleteSubdomains(f)
		if err != nil {
			return total, err
		}
		total.Deleted += result.Deleted
		total.Subdomains += result.Subdomains
		total.URLs += result.URLs
	}
	return total, nil
}

func (db Database) deleteSubdomains(f SubdomainFilter) (DeleteResult, error) {
	p := predicate{}
	p.key("program", f.Program)
	p.key("domain", f.Domain)
	p.key("subdomain", f.Subdomain)
	if len(f.Sources) > 0 {
		p.like("source", f.Sources[0])
	}
	p.eq("scope", f.Scope)
	p.eq("resolved", f.Resolved)
	p.eq("cdn_status", f.CDNStatus)
	p.eq("ip_address", f.IPAddress)
	p.eq("cdn_name", f.CDNName)
	if err := p.timeRange("created_at", f.CreateTime); err != nil {
		return DeleteResult{}, err
	}
	if err := p.timeRange("updated_at", f.UpdateTime); err != nil {
		return DeleteResult{}, err
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The url cascade must cover exactly the rows about to go, so collect
	// their keys before deleting.
	rows, err := tx.Query("SELECT subdomain, domain, program FROM subdomains"+p.where(), p.args...)
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to select subdomains for deletion: %w", err)
	}
	type key struct{ sub, domain, program string }
	var victims []key
	for rows.Next() {
		var k key
		if err := rows.Scan(&k.sub, &k.domain, &k.program); err != nil {
			rows.Close()
			return DeleteResult{}, fmt.Errorf("failed to scan subdomain row: %w", err)
		}
		victims = append(victims, k)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return DeleteResult{}, fmt.Errorf("rows error when selecting subdomains: %w", err)
	}

	var result DeleteResult
	for _, k := range victims {
		res, err := tx.Exec(
			"DELETE FROM urls WHERE subdomain = ? AND domain = ? AND program = ?",
			k.sub, k.domain, k.program,
		)
		if err != nil {
			return DeleteResult{}, wrapExecError("deleting subdomain urls", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return DeleteResult{}, fmt.Errorf("failed to count deleted rows: %w", err)
		}
		result.URLs += int(n)
	}

	res, err := tx.Exec("DELETE FROM subdomains"+p.where(), p.args...)
	if err != nil {
		return DeleteResult{}, wrapExecError("deleting subdomain", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to count deleted rows: %w", err)
	}
	result.Subdomains = int(n)
	result.Deleted = result.Subdomains

	if err := refreshDomainCounts(tx, f.Program, f.Domain); err != nil {
		return DeleteResult{}, fmt.Errorf("failed to refresh domain counts: %w", err)
	}
	if err := refreshProgramCounts(tx, f.Program); err != nil {
		return DeleteResult{}, fmt.Errorf("failed to refresh program counts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return DeleteResult{}, fmt.Errorf("failed to commit: %w", err)
	}
	return result, nil
}
