package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/hunThubSpace/subscope/config"
	"github.com/hunThubSpace/subscope/store"
)

type server struct {
	db store.Database
}

type apiError struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiError{Message: message}); err != nil {
		log.Printf("failed to write error response: %v", err)
	}
}

// overview is the read-only snapshot both endpoints render.
type overview struct {
	Programs   []programRow
	Domains    int
	Subdomains int
	URLs       int
	IPs        int
}

type programRow struct {
	Name       string `json:"program"`
	Domains    int    `json:"domains"`
	Subdomains int    `json:"subdomains"`
	URLs       int    `json:"urls"`
	IPs        int    `json:"ips"`
	CreatedAt  string `json:"created_at"`
}

func (s server) buildOverview() (overview, error) {
	programs, err := s.db.ListPrograms(store.Wildcard)
	if err != nil {
		return overview{}, fmt.Errorf("failed to build overview: %w", err)
	}
	var ov overview
	for _, p := range programs {
		ov.Programs = append(ov.Programs, programRow{
			Name:       p.Name,
			Domains:    p.Domains,
			Subdomains: p.Subdomains,
			URLs:       p.URLs,
			IPs:        p.IPs,
			CreatedAt:  p.CreatedAt,
		})
		ov.Domains += p.Domains
		ov.Subdomains += p.Subdomains
		ov.URLs += p.URLs
		ov.IPs += p.IPs
	}
	return ov, nil
}

func (s server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	ov, err := s.buildOverview()
	if err != nil {
		log.Printf("overview failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, ov); err != nil {
		log.Printf("failed to render overview: %v", err)
	}
}

func (s server) handleAPIOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ov, err := s.buildOverview()
	if err != nil {
		log.Printf("overview failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"programs":   ov.Programs,
		"domains":    ov.Domains,
		"subdomains": ov.Subdomains,
		"urls":       ov.URLs,
		"ips":        ov.IPs,
	}); err != nil {
		log.Printf("failed to write overview: %v", err)
	}
}

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
<title>subscope</title>
<style>
body { font-family: monospace; background: #1E2326; color: #F2EFDF; margin: 2em; }
table { border-collapse: collapse; margin-top: 1em; }
th, td { border: 1px solid #384B55; padding: 0.4em 0.8em; text-align: left; }
th { color: #A7C080; }
</style>
</head>
<body>
<h1>subscope</h1>
<p>{{len .Programs}} programs, {{.Domains}} domains, {{.Subdomains}} subdomains, {{.URLs}} urls, {{.IPs}} ips</p>
<table>
<tr><th>program</th><th>domains</th><th>subdomains</th><th>urls</th><th>ips</th><th>created</th></tr>
{{range .Programs}}<tr><td>{{.Name}}</td><td>{{.Domains}}</td><td>{{.Subdomains}}</td><td>{{.URLs}}</td><td>{{.IPs}}</td><td>{{.CreatedAt}}</td></tr>
{{end}}</table>
</body>
</html>
`))

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	db, err := store.Open(cfg.Database)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	s := server{db: db}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/overview", s.handleAPIOverview)

	log.Printf("dashboard listening on %s", cfg.Dashboard.Addr)
	if err := http.ListenAndServe(cfg.Dashboard.Addr, mux); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
