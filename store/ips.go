package store

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/hunThubSpace/subscope/models"
)

// IPUpdate carries the attribute changes of an IP upsert. A non-empty Ports
// replaces the stored port list; the list is deduplicated and sorted on
// every write.
type IPUpdate struct {
	CIDR    string
	ASN     string
	Ports   []string
	Service string
	CVEs    []string
}

// IPFilter narrows IP list/delete operations. IP and Program honor the
// wildcard. Port matches any single port of the stored list; CVEs matches by
// substring.
type IPFilter struct {
	IP         string
	Program    string
	CIDR       string
	ASN        string
	Port       string
	Service    string
	CVEs       string
	CreateTime string
	UpdateTime string
}

// AddIP upserts one address into the per-program IP ledger.
func (db Database) AddIP(ip, program string, upd IPUpdate) (UpsertResult, error) {
	exists, err := db.ProgramExists(program)
	if err != nil {
		return UpsertResult{}, err
	}
	if !exists {
		return UpsertResult{}, ParentNotFoundError{Kind: "program", Name: program}
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return UpsertResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ts := now()

	var cur struct {
		cidr    string
		asn     string
		port    string
		service string
		cves    string
	}
	err = tx.QueryRow(
		"SELECT cidr, asn, port, service, cves FROM cidrs WHERE ip = ? AND program = ?",
		ip, program,
	).Scan(&cur.cidr, &cur.asn, &cur.port, &cur.service, &cur.cves)

	switch {
	case err == sql.ErrNoRows:
		if _, err := tx.Exec(
			"INSERT INTO cidrs (ip, program, cidr, asn, port, service, cves, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			ip, program,
			orDefault(upd.CIDR, models.None), orDefault(upd.ASN, models.None),
			models.OrNone(normalizePorts(upd.Ports)), orDefault(upd.Service, models.None),
			models.OrNone(models.JoinList(upd.CVEs)), ts, ts,
		); err != nil {
			return UpsertResult{}, wrapExecError("adding ip", err)
		}
		if err := refreshProgramCounts(tx, program); err != nil {
			return UpsertResult{}, fmt.Errorf("failed to refresh program counts: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return UpsertResult{}, fmt.Errorf("failed to commit: %w", err)
		}
		return UpsertResult{Name: ip, Outcome: OutcomeCreated}, nil

	case err != nil:
		return UpsertResult{}, fmt.Errorf("failed to get ip %s: %w", ip, err)
	}

	var sets []string
	var args []any
	var changed []string
	set := func(column, value string) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
		changed = append(changed, column)
	}

	if upd.CIDR != "" && upd.CIDR != cur.cidr {
		set("cidr", upd.CIDR)
	}
	if upd.ASN != "" && upd.ASN != cur.asn {
		set("asn", upd.ASN)
	}
	if len(upd.Ports) > 0 {
		ports := normalizePorts(upd.Ports)
		if ports != cur.port {
			set("port", ports)
		}
	}
	if upd.Service != "" && upd.Service != cur.service {
		set("service", upd.Service)
	}
	if len(upd.CVEs) > 0 {
		cves := models.JoinList(upd.CVEs)
		if cves != cur.cves {
			set("cves", cves)
		}
	}

	if len(sets) == 0 {
		return UpsertResult{Name: ip, Outcome: OutcomeUnchanged}, nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, ts, ip, program)
	if _, err := tx.Exec(
		"UPDATE cidrs SET "+strings.Join(sets, ", ")+" WHERE ip = ? AND program = ?",
		args...,
	); err != nil {
		return UpsertResult{}, wrapExecError("updating ip", err)
	}
	if err := tx.Commit(); err != nil {
		return UpsertResult{}, fmt.Errorf("failed to commit: %w", err)
	}
	return UpsertResult{Name: ip, Outcome: OutcomeUpdated, Changed: changed}, nil
}

// normalizePorts deduplicates and sorts a port list and serializes it the
// way the row stores it.
func normalizePorts(ports []string) string {
	set := make(map[string]struct{}, len(ports))
	for _, p := range ports {
		if p = strings.TrimSpace(p); p != "" && p != models.None {
			set[p] = struct{}{}
		}
	}
	unique := make([]string, 0, len(set))
	for p := range set {
		unique = append(unique, p)
	}
	sort.Strings(unique)
	return models.JoinList(unique)
}

func (f IPFilter) predicate() (predicate, error) {
	p := predicate{}
	p.key("program", f.Program)
	p.key("ip", f.IP)
	p.eq("cidr", f.CIDR)
	p.eq("asn", f.ASN)
	if f.Port != "" {
		// Either the whole list is this one port, or it appears as a
		// comma-separated member.
		p.raw("(port = ? OR port LIKE ?)", f.Port, "%"+f.Port+"%")
	}
	p.eq("service", f.Service)
	p.like("cves", f.CVEs)
	if err := p.timeRange("created_at", f.CreateTime); err != nil {
		return predicate{}, err
	}
	if err := p.timeRange("updated_at", f.UpdateTime); err != nil {
		return predicate{}, err
	}
	return p, nil
}

func (db Database) ListIPs(f IPFilter) ([]models.IPRecord, error) {
	if err := db.requireProgram(f.Program); err != nil {
		return nil, err
	}

	p, err := f.predicate()
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.Query(
		"SELECT ip, program, cidr, asn, port, service, cves, created_at, updated_at FROM cidrs"+p.where(),
		p.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ips: %w", err)
	}
	defer rows.Close()

	var records []models.IPRecord
	for rows.Next() {
		var item models.IPRecord
		var cidr, asn, port, service, cves string
		if err := rows.Scan(&item.IP, &item.Program, &cidr, &asn, &port, &service, &cves, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ip row: %w", err)
		}
		item.CIDR = models.FromNone(cidr)
		item.ASN = models.FromNone(asn)
		item.Ports = models.SplitList(port)
		item.Service = models.FromNone(service)
		item.CVEs = models.SplitList(cves)
		records = append(records, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error when listing ips: %w", err)
	}
	return records, nil
}

func (db Database) DeleteIPs(f IPFilter) (DeleteResult, error) {
	if err := db.requireProgram(f.Program); err != nil {
		return DeleteResult{}, err
	}

	p, err := f.predicate()
	if err != nil {
		return DeleteResult{}, err
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM cidrs"+p.where(), p.args...)
	if err != nil {
		return DeleteResult{}, wrapExecError("deleting ip", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to count deleted rows: %w", err)
	}

	if err := refreshProgramCounts(tx, f.Program); err != nil {
		return DeleteResult{}, fmt.Errorf("failed to refresh program counts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return DeleteResult{}, fmt.Errorf("failed to commit: %w", err)
	}
	return DeleteResult{Deleted: int(n), IPs: int(n)}, nil
}
