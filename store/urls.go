package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/hunThubSpace/subscope/models"
)

// URLUpdate carries the attribute changes of a url upsert. Empty fields are
// "leave alone".
type URLUpdate struct {
	Scheme        string
	Method        string
	Port          string
	Path          string
	Flag          string
	StatusCode    string
	Scope         string
	ContentLength string
	IPAddress     string
	CDNStatus     string
	CDNName       string
	Title         string
	Webserver     string
	Webtech       string
	CNAME         string
	Location      string
}

// URLFilter narrows url list/delete operations. The four leading fields are
// identifying and honor the wildcard. Webtech matches by substring on list
// operations; every other attribute filter matches exactly.
type URLFilter struct {
	URL           string
	Subdomain     string
	Domain        string
	Program       string
	Scheme        string
	Method        string
	Port          string
	Path          string
	Flag          string
	StatusCode    string
	Scope         string
	ContentLength string
	IPAddress     string
	CDNStatus     string
	CDNName       string
	Title         string
	Webserver     string
	Webtech       string
	CNAME         string
	Location      string
	CreateTime    string
	UpdateTime    string
}

// AddURL upserts one url under an existing program/domain/subdomain chain.
func (db Database) AddURL(url, subdomain, domain, program string, upd URLUpdate) (UpsertResult, error) {
	exists, err := db.ProgramExists(program)
	if err != nil {
		return UpsertResult{}, err
	}
	if !exists {
		return UpsertResult{}, ParentNotFoundError{Kind: "program", Name: program}
	}
	exists, err = db.DomainExists(domain, program)
	if err != nil {
		return UpsertResult{}, err
	}
	if !exists {
		return UpsertResult{}, ParentNotFoundError{Kind: "domain", Name: domain}
	}
	exists, err = db.SubdomainExists(subdomain, domain, program)
	if err != nil {
		return UpsertResult{}, err
	}
	if !exists {
		return UpsertResult{}, ParentNotFoundError{Kind: "subdomain", Name: subdomain}
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return UpsertResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	ts := now()

	current := make([]string, 16)
	err = tx.QueryRow(
		`SELECT scheme, method, port, path, flag, status_code, scope, content_length,
		        ip_address, cdn_status, cdn_name, title, webserver, webtech, cname, location
		 FROM urls WHERE url = ? AND subdomain = ? AND domain = ? AND program = ?`,
		url, subdomain, domain, program,
	).Scan(
		&current[0], &current[1], &current[2], &current[3], &current[4], &current[5],
		&current[6], &current[7], &current[8], &current[9], &current[10], &current[11],
		&current[12], &current[13], &current[14], &current[15],
	)

	switch {
	case err == sql.ErrNoRows:
		if _, err := tx.Exec(
			`INSERT INTO urls (url, subdomain, domain, program, scheme, method, port, path, flag,
			                   status_code, scope, content_length, ip_address, cdn_status, cdn_name,
			                   title, webserver, webtech, cname, location, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			url, subdomain, domain, program,
			orDefault(upd.Scheme, models.None), orDefault(upd.Method, models.None),
			orDefault(upd.Port, models.None), orDefault(upd.Path, "/"),
			orDefault(upd.Flag, models.None), orDefault(upd.StatusCode, models.None),
			orDefault(upd.Scope, string(models.Inscope)), orDefault(upd.ContentLength, models.None),
			orDefault(upd.IPAddress, models.None), orDefault(upd.CDNStatus, models.No),
			orDefault(upd.CDNName, models.None), orDefault(upd.Title, models.None),
			orDefault(upd.Webserver, models.None), orDefault(upd.Webtech, models.None),
			orDefault(upd.CNAME, models.None), orDefault(upd.Location, models.None),
			ts, ts,
		); err != nil {
			return UpsertResult{}, wrapExecError("adding url", err)
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
		return UpsertResult{Name: url, Outcome: OutcomeCreated}, nil

	case err != nil:
		return UpsertResult{}, fmt.Errorf("failed to get url %s: %w", url, err)
	}

	columns := []struct {
		name    string
		value   string
		current string
	}{
		{"scheme", upd.Scheme, current[0]},
		{"method", upd.Method, current[1]},
		{"port", upd.Port, current[2]},
		{"path", upd.Path, current[3]},
		{"flag", upd.Flag, current[4]},
		{"status_code", upd.StatusCode, current[5]},
		{"scope", upd.Scope, current[6]},
		{"content_length", upd.ContentLength, current[7]},
		{"ip_address", upd.IPAddress, current[8]},
		{"cdn_status", upd.CDNStatus, current[9]},
		{"cdn_name", upd.CDNName, current[10]},
		{"title", upd.Title, current[11]},
		{"webserver", upd.Webserver, current[12]},
		{"webtech", upd.Webtech, current[13]},
		{"cname", upd.CNAME, current[14]},
		{"location", upd.Location, current[15]},
	}

	var sets []string
	var args []any
	var changed []string
	for _, c := range columns {
		if c.value != "" && c.value != c.current {
			sets = append(sets, c.name+" = ?")
			args = append(args, c.value)
			changed = append(changed, c.name)
		}
	}

	if len(sets) == 0 {
		return UpsertResult{Name: url, Outcome: OutcomeUnchanged}, nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, ts, url, subdomain, domain, program)
	if _, err := tx.Exec(
		"UPDATE urls SET "+strings.Join(sets, ", ")+" WHERE url = ? AND subdomain = ? AND domain = ? AND program = ?",
		args...,
	); err != nil {
		return UpsertResult{}, wrapExecError("updating url", err)
	}
	if err := tx.Commit(); err != nil {
		return UpsertResult{}, fmt.Errorf("failed to commit: %w", err)
	}
	return UpsertResult{Name: url, Outcome: OutcomeUpdated, Changed: changed}, nil
}

func (f URLFilter) predicate(webtechSubstring bool) (predicate, error) {
	p := predicate{}
	p.key("program", f.Program)
	p.key("domain", f.Domain)
	p.key("subdomain", f.Subdomain)
	p.key("url", f.URL)
	p.eq("scheme", f.Scheme)
	p.eq("method", f.Method)
	p.eq("port", f.Port)
	p.eq("path", f.Path)
	p.eq("flag", f.Flag)
	p.eq("status_code", f.StatusCode)
	p.eq("scope", f.Scope)
	p.eq("content_length", f.ContentLength)
	p.eq("ip_address", f.IPAddress)
	p.eq("cdn_status", f.CDNStatus)
	p.eq("cdn_name", f.CDNName)
	p.eq("title", f.Title)
	p.eq("webserver", f.Webserver)
	if webtechSubstring {
		p.like("webtech", f.Webtech)
	} else {
		p.eq("webtech", f.Webtech)
	}
	p.eq("cname", f.CNAME)
	p.eq("location", f.Location)
	if err := p.timeRange("created_at", f.CreateTime); err != nil {
		return predicate{}, err
	}
	if err := p.timeRange("updated_at", f.UpdateTime); err != nil {
		return predicate{}, err
	}
	return p, nil
}

func (db Database) ListURLs(f URLFilter) ([]models.URL, error) {
	if err := db.requireProgram(f.Program); err != nil {
		return nil, err
	}

	p, err := f.predicate(true)
	if err != nil {
		return nil, err
	}

	rows, err := db.conn.Query(
		`SELECT url, subdomain, domain, program, scheme, method, port, path, flag, status_code,
		        scope, content_length, ip_address, cdn_status, cdn_name, title, webserver,
		        webtech, cname, location, created_at, updated_at
		 FROM urls`+p.where(),
		p.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list urls: %w", err)
	}
	defer rows.Close()

	var urls []models.URL
	for rows.Next() {
		var item models.URL
		var raw struct {
			scheme, method, port, flag, statusCode, scope, contentLength string
			ip, cdnStatus, cdnName, title, webserver, webtech            string
			cname, location                                              string
		}
		if err := rows.Scan(
			&item.URL, &item.Subdomain, &item.Domain, &item.Program,
			&raw.scheme, &raw.method, &raw.port, &item.Path, &raw.flag,
			&raw.statusCode, &raw.scope, &raw.contentLength, &raw.ip,
			&raw.cdnStatus, &raw.cdnName, &raw.title, &raw.webserver,
			&raw.webtech, &raw.cname, &raw.location,
			&item.CreatedAt, &item.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan url row: %w", err)
		}
		item.Scheme = models.FromNone(raw.scheme)
		item.Method = models.FromNone(raw.method)
		item.Port = models.FromNone(raw.port)
		item.Flag = models.FromNone(raw.flag)
		item.StatusCode = models.FromNone(raw.statusCode)
		item.Scope = models.Scope(raw.scope)
		item.ContentLength = models.FromNone(raw.contentLength)
		item.IPAddress = models.FromNone(raw.ip)
		item.CDN = models.FromYesNo(raw.cdnStatus)
		item.CDNName = models.FromNone(raw.cdnName)
		item.Title = models.FromNone(raw.title)
		item.Webserver = models.FromNone(raw.webserver)
		item.Webtech = models.FromNone(raw.webtech)
		item.CNAME = models.FromNone(raw.cname)
		item.Location = models.FromNone(raw.location)
		urls = append(urls, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error when listing urls: %w", err)
	}
	return urls, nil
}

// DeleteURLs removes matching urls and recounts the chain above them. The
// webtech filter is exact here, unlike in listing.
func (db Database) DeleteURLs(f URLFilter) (DeleteResult, error) {
	if err := db.requireProgram(f.Program); err != nil {
		return DeleteResult{}, err
	}

	p, err := f.predicate(false)
	if err != nil {
		return DeleteResult{}, err
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec("DELETE FROM urls"+p.where(), p.args...)
	if err != nil {
		return DeleteResult{}, wrapExecError("deleting url", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to count deleted rows: %w", err)
	}

	if err := refreshSubdomainCounts(tx, f.Program, f.Domain, f.Subdomain); err != nil {
		return DeleteResult{}, fmt.Errorf("failed to refresh subdomain counts: %w", err)
	}
	if err := refreshDomainCounts(tx, f.Program, f.Domain); err != nil {
		return DeleteResult{}, fmt.Errorf("failed to refresh domain counts: %w", err)
	}
	if err := refreshProgramCounts(tx, f.Program); err != nil {
		return DeleteResult{}, fmt.Errorf("failed to refresh program counts: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return DeleteResult{}, fmt.Errorf("failed to commit: %w", err)
	}
	return DeleteResult{Deleted: int(n), URLs: int(n)}, nil
}
