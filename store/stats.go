package store

import (
	"fmt"
	"strings"

	"github.com/hunThubSpace/subscope/models"
)

// StatGroup is one bucket of an attribute breakdown.
type StatGroup struct {
	Value      string
	Count      int
	Percentage float64
}

// Aggregate groups the (trimmed) values in first-seen order and computes
// each group's share of the total. A zero total yields zero percentages,
// never a division error. It works on already-fetched data only.
func Aggregate(values []string) []StatGroup {
	var order []string
	counts := make(map[string]int)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	groups := make([]StatGroup, 0, len(order))
	for _, v := range order {
		g := StatGroup{Value: v, Count: counts[v]}
		if len(values) > 0 {
			g.Percentage = float64(counts[v]) / float64(len(values)) * 100
		}
		groups = append(groups, g)
	}
	return groups
}

// SubdomainStats breaks a fetched subdomain list down by one attribute.
func SubdomainStats(subs []models.Subdomain, field string) ([]StatGroup, error) {
	values := make([]string, len(subs))
	for i, s := range subs {
		v, ok := subdomainField(s, field)
		if !ok {
			return nil, fmt.Errorf("unknown subdomain stats field %q", field)
		}
		values[i] = v
	}
	return Aggregate(values), nil
}

func subdomainField(s models.Subdomain, field string) (string, bool) {
	switch field {
	case "subdomain":
		return s.Subdomain, true
	case "domain":
		return s.Domain, true
	case "program":
		return s.Program, true
	case "source":
		return models.JoinList(s.Sources), true
	case "scope":
		return string(s.Scope), true
	case "resolved":
		return models.YesNo(s.Resolved), true
	case "ip_address":
		return models.OrNone(s.IPAddress), true
	case "cdn_status":
		return models.YesNo(s.CDN), true
	case "cdn_name":
		return models.OrNone(s.CDNName), true
	case "created_at":
		return s.CreatedAt, true
	case "updated_at":
		return s.UpdatedAt, true
	default:
		return "", false
	}
}

// URLStats breaks a fetched URL list down by one attribute.
func URLStats(urls []models.URL, field string) ([]StatGroup, error) {
	values := make([]string, len(urls))
	for i, u := range urls {
		v, ok := urlField(u, field)
		if !ok {
			return nil, fmt.Errorf("unknown url stats field %q", field)
		}
		values[i] = v
	}
	return Aggregate(values), nil
}

func urlField(u models.URL, field string) (string, bool) {
	switch field {
	case "url":
		return u.URL, true
	case "subdomain":
		return u.Subdomain, true
	case "domain":
		return u.Domain, true
	case "program":
		return u.Program, true
	case "scheme":
		return models.OrNone(u.Scheme), true
	case "method":
		return models.OrNone(u.Method), true
	case "port":
		return models.OrNone(u.Port), true
	case "path":
		return u.Path, true
	case "flag":
		return models.OrNone(u.Flag), true
	case "status_code":
		return models.OrNone(u.StatusCode), true
	case "scope":
		return string(u.Scope), true
	case "content_length":
		return models.OrNone(u.ContentLength), true
	case "ip_address":
		return models.OrNone(u.IPAddress), true
	case "cdn_status":
		return models.YesNo(u.CDN), true
	case "cdn_name":
		return models.OrNone(u.CDNName), true
	case "title":
		return models.OrNone(u.Title), true
	case "webserver":
		return models.OrNone(u.Webserver), true
	case "webtech":
		return models.OrNone(u.Webtech), true
	case "cname":
		return models.OrNone(u.CNAME), true
	case "location":
		return models.OrNone(u.Location), true
	case "created_at":
		return u.CreatedAt, true
	case "updated_at":
		return u.UpdatedAt, true
	default:
		return "", false
	}
}

// IPStats breaks a fetched IP list down by one attribute.
func IPStats(records []models.IPRecord, field string) ([]StatGroup, error) {
	values := make([]string, len(records))
	for i, r := range records {
		v, ok := ipField(r, field)
		if !ok {
			return nil, fmt.Errorf("unknown ip stats field %q", field)
		}
		values[i] = v
	}
	return Aggregate(values), nil
}

func ipField(r models.IPRecord, field string) (string, bool) {
	switch field {
	case "ip":
		return r.IP, true
	case "program":
		return r.Program, true
	case "cidr":
		return models.OrNone(r.CIDR), true
	case "asn":
		return models.OrNone(r.ASN), true
	case "port":
		return models.OrNone(models.JoinList(r.Ports)), true
	case "service":
		return models.OrNone(r.Service), true
	case "cves":
		return models.OrNone(models.JoinList(r.CVEs)), true
	case "created_at":
		return r.CreatedAt, true
	case "updated_at":
		return r.UpdatedAt, true
	default:
		return "", false
	}
}
