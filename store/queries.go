package store

// port, asn, status_code and content_length are TEXT on purpose: unset
// optional fields hold the literal sentinel `none`, and filters compare
// against that sentinel rather than NULL.
const createTablesQuery = `
CREATE TABLE IF NOT EXISTS programs (
	program TEXT PRIMARY KEY,
	domains INTEGER NOT NULL DEFAULT 0,
	subdomains INTEGER NOT NULL DEFAULT 0,
	urls INTEGER NOT NULL DEFAULT 0,
	ips INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS domains (
	domain TEXT NOT NULL,
	program TEXT NOT NULL,
	scope TEXT NOT NULL DEFAULT 'inscope',
	subdomains INTEGER NOT NULL DEFAULT 0,
	urls INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY(domain, program),
	FOREIGN KEY(program) REFERENCES programs(program)
);
CREATE TABLE IF NOT EXISTS subdomains (
	subdomain TEXT NOT NULL,
	domain TEXT NOT NULL,
	program TEXT NOT NULL,
	source TEXT NOT NULL DEFAULT '',
	scope TEXT NOT NULL DEFAULT 'inscope',
	urls INTEGER NOT NULL DEFAULT 0,
	resolved TEXT NOT NULL DEFAULT 'no',
	ip_address TEXT NOT NULL DEFAULT 'none',
	cdn_status TEXT NOT NULL DEFAULT 'no',
	cdn_name TEXT NOT NULL DEFAULT 'none',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY(subdomain, domain, program)
);
CREATE TABLE IF NOT EXISTS urls (
	url TEXT NOT NULL,
	subdomain TEXT NOT NULL,
	domain TEXT NOT NULL,
	program TEXT NOT NULL,
	scheme TEXT NOT NULL DEFAULT 'none',
	method TEXT NOT NULL DEFAULT 'none',
	port TEXT NOT NULL DEFAULT 'none',
	path TEXT NOT NULL DEFAULT '/',
	flag TEXT NOT NULL DEFAULT 'none',
	status_code TEXT NOT NULL DEFAULT 'none',
	scope TEXT NOT NULL DEFAULT 'inscope',
	content_length TEXT NOT NULL DEFAULT 'none',
	ip_address TEXT NOT NULL DEFAULT 'none',
	cdn_status TEXT NOT NULL DEFAULT 'no',
	cdn_name TEXT NOT NULL DEFAULT 'none',
	title TEXT NOT NULL DEFAULT 'none',
	webserver TEXT NOT NULL DEFAULT 'none',
	webtech TEXT NOT NULL DEFAULT 'none',
	cname TEXT NOT NULL DEFAULT 'none',
	location TEXT NOT NULL DEFAULT 'none',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY(url, subdomain, domain, program)
);
CREATE TABLE IF NOT EXISTS cidrs (
	ip TEXT NOT NULL,
	program TEXT NOT NULL,
	cidr TEXT NOT NULL DEFAULT 'none',
	asn TEXT NOT NULL DEFAULT 'none',
	port TEXT NOT NULL DEFAULT 'none',
	service TEXT NOT NULL DEFAULT 'none',
	cves TEXT NOT NULL DEFAULT 'none',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY(ip, program)
);
`
