package models

import (
	"encoding/json"
	"strings"
)

type Scope string

const (
	Inscope  Scope = "inscope"
	Outscope Scope = "outscope"
)

// Sentinel literals stored in place of unset optional columns. The store has
// no native optional type, so unset fields are compared against these exact
// strings, never against NULL.
const (
	None = "none"
	Yes  = "yes"
	No   = "no"
)

// OrNone returns the sentinel when the value is unset.
func OrNone(s string) string {
	if s == "" {
		return None
	}
	return s
}

// FromNone maps the stored sentinel back to the unset zero value.
func FromNone(s string) string {
	if s == None {
		return ""
	}
	return s
}

func YesNo(b bool) string {
	if b {
		return Yes
	}
	return No
}

func FromYesNo(s string) bool {
	return s == Yes
}

// JoinList serializes a multi-value set the way the store keeps it: sorted
// upstream, comma-space joined here.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// SplitList parses a stored comma-joined multi-value string, trimming each
// element and dropping blanks.
func SplitList(s string) []string {
	if s == "" || s == None {
		return nil
	}
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

type Program struct {
	Name       string
	Domains    int
	Subdomains int
	URLs       int
	IPs        int
	CreatedAt  string
}

func (p Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Program    string `json:"program"`
		Domains    int    `json:"domains"`
		Subdomains int    `json:"subdomains"`
		URLs       int    `json:"urls"`
		IPs        int    `json:"ips"`
		CreatedAt  string `json:"created_at"`
	}{p.Name, p.Domains, p.Subdomains, p.URLs, p.IPs, p.CreatedAt})
}

type Domain struct {
	Domain     string
	Program    string
	Scope      Scope
	Subdomains int
	URLs       int
	CreatedAt  string
	UpdatedAt  string
}

func (d Domain) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Domain     string `json:"domain"`
		Program    string `json:"program"`
		Scope      string `json:"scope"`
		Subdomains int    `json:"subdomains"`
		URLs       int    `json:"urls"`
		CreatedAt  string `json:"created_at"`
		UpdatedAt  string `json:"updated_at"`
	}{d.Domain, d.Program, string(d.Scope), d.Subdomains, d.URLs, d.CreatedAt, d.UpdatedAt})
}

// Subdomain keeps optional enrichment attributes in native form: empty
// strings and false stand for unset, and Sources is the parsed provenance
// set. The stored sentinels only reappear in MarshalJSON and in the store's
// column bindings.
type Subdomain struct {
	Subdomain string
	Domain    string
	Program   string
	Sources   []string
	Scope     Scope
	URLs      int
	Resolved  bool
	IPAddress string
	CDN       bool
	CDNName   string
	CreatedAt string
	UpdatedAt string
}

func (s Subdomain) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Subdomain string `json:"subdomain"`
		Domain    string `json:"domain"`
		Program   string `json:"program"`
		Source    string `json:"source"`
		Scope     string `json:"scope"`
		URLs      int    `json:"urls"`
		Resolved  string `json:"resolved"`
		IPAddress string `json:"ip_address"`
		CDNStatus string `json:"cdn_status"`
		CDNName   string `json:"cdn_name"`
		CreatedAt string `json:"created_at"`
		UpdatedAt string `json:"updated_at"`
	}{
		s.Subdomain, s.Domain, s.Program, JoinList(s.Sources), string(s.Scope),
		s.URLs, YesNo(s.Resolved), OrNone(s.IPAddress), YesNo(s.CDN),
		OrNone(s.CDNName), s.CreatedAt, s.UpdatedAt,
	})
}

// URL carries the HTTP fingerprint of one probed endpoint. Port, status code
// and content length stay strings because the store column holds the `none`
// sentinel when a probe never filled them in.
type URL struct {
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
	Scope         Scope
	ContentLength string
	IPAddress     string
	CDN           bool
	CDNName       string
	Title         string
	Webserver     string
	Webtech       string
	CNAME         string
	Location      string
	CreatedAt     string
	UpdatedAt     string
}

func (u URL) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		URL           string `json:"url"`
		Subdomain     string `json:"subdomain"`
		Domain        string `json:"domain"`
		Program       string `json:"program"`
		Scheme        string `json:"scheme"`
		Method        string `json:"method"`
		Port          string `json:"port"`
		Path          string `json:"path"`
		Flag          string `json:"flag"`
		StatusCode    string `json:"status_code"`
		Scope         string `json:"scope"`
		ContentLength string `json:"content_length"`
		IPAddress     string `json:"ip_address"`
		CDNStatus     string `json:"cdn_status"`
		CDNName       string `json:"cdn_name"`
		Title         string `json:"title"`
		Webserver     string `json:"webserver"`
		Webtech       string `json:"webtech"`
		CNAME         string `json:"cname"`
		Location      string `json:"location"`
		CreatedAt     string `json:"created_at"`
		UpdatedAt     string `json:"updated_at"`
	}{
		u.URL, u.Subdomain, u.Domain, u.Program, OrNone(u.Scheme),
		OrNone(u.Method), OrNone(u.Port), u.Path, OrNone(u.Flag),
		OrNone(u.StatusCode), string(u.Scope), OrNone(u.ContentLength),
		OrNone(u.IPAddress), YesNo(u.CDN), OrNone(u.CDNName), OrNone(u.Title),
		OrNone(u.Webserver), OrNone(u.Webtech), OrNone(u.CNAME),
		OrNone(u.Location), u.CreatedAt, u.UpdatedAt,
	})
}

// IPRecord is the per-program IP ledger entry. Ports is kept deduplicated
// and sorted by the store on every write.
type IPRecord struct {
	IP        string
	Program   string
	CIDR      string
	ASN       string
	Ports     []string
	Service   string
	CVEs      []string
	CreatedAt string
	UpdatedAt string
}

func (r IPRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		IP        string `json:"ip"`
		CIDR      string `json:"cidr"`
		Program   string `json:"program"`
		ASN       string `json:"asn"`
		Port      string `json:"port"`
		Service   string `json:"service"`
		CVEs      string `json:"cves"`
		CreatedAt string `json:"created_at"`
		UpdatedAt string `json:"updated_at"`
	}{
		r.IP, OrNone(r.CIDR), r.Program, OrNone(r.ASN),
		OrNone(JoinList(r.Ports)), OrNone(r.Service), OrNone(JoinList(r.CVEs)),
		r.CreatedAt, r.UpdatedAt,
	})
}
