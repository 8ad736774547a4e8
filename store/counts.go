package store

// Denormalized child counts are always recomputed from the live child rows,
// never incremented, so any earlier drift heals on the next mutation. Each
// refresh runs on the same transaction as the child insert or delete.

// refreshProgramCounts recounts domains/subdomains/urls/ips for one program,
// or for every program when the name is the wildcard (bulk deletes touch
// many programs at once).
func refreshProgramCounts(tx execer, program string) error {
	query := `UPDATE programs SET
		domains = (SELECT COUNT(*) FROM domains WHERE domains.program = programs.program),
		subdomains = (SELECT COUNT(*) FROM subdomains WHERE subdomains.program = programs.program),
		urls = (SELECT COUNT(*) FROM urls WHERE urls.program = programs.program),
		ips = (SELECT COUNT(*) FROM cidrs WHERE cidrs.program = programs.program)`

	var args []any
	if !isWildcard(program) {
		query += " WHERE program = ?"
		args = append(args, program)
	}

	_, err := tx.Exec(query, args...)
	return err
}

func refreshDomainCounts(tx execer, program, domain string) error {
	query := `UPDATE domains SET
		subdomains = (SELECT COUNT(*) FROM subdomains
			WHERE subdomains.domain = domains.domain AND subdomains.program = domains.program),
		urls = (SELECT COUNT(*) FROM urls
			WHERE urls.domain = domains.domain AND urls.program = domains.program)`

	p := predicate{}
	p.key("program", program)
	p.key("domain", domain)

	_, err := tx.Exec(query+p.where(), p.args...)
	return err
}

func refreshSubdomainCounts(tx execer, program, domain, subdomain string) error {
	query := `UPDATE subdomains SET
		urls = (SELECT COUNT(*) FROM urls
			WHERE urls.subdomain = subdomains.subdomain
			AND urls.domain = subdomains.domain
			AND urls.program = subdomains.program)`

	p := predicate{}
	p.key("program", program)
	p.key("domain", domain)
	p.key("subdomain", subdomain)

	_, err := tx.Exec(query+p.where(), p.args...)
	return err
}
