package store

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Timestamp layout used for created_at/updated_at columns.
const timeLayout = "2006-01-02 15:04:05"

// Database owns the single store connection for the process. It is opened
// once at startup and closed once at shutdown; every repository method runs
// against this handle.
type Database struct {
	conn *sql.DB
}

func Open(path string) (Database, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return Database{}, fmt.Errorf("failed to open store: %w", err)
	}

	// Single connection: the tool is single-threaded and concurrent writers
	// are unsupported.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(createTablesQuery); err != nil {
		conn.Close()
		return Database{}, fmt.Errorf("failed to create tables: %w", err)
	}

	return Database{conn: conn}, nil
}

func (db Database) Close() error {
	return db.conn.Close()
}

func now() string {
	return time.Now().Format(timeLayout)
}

// execer lets the count maintainer run against either the connection or an
// open transaction.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// expandInput treats the argument as a newline-delimited file of identifiers
// when a readable file by that path exists, otherwise as a single literal.
// Blank lines are skipped.
func expandInput(nameOrFile string) ([]string, error) {
	info, err := os.Stat(nameOrFile)
	if err != nil || info.IsDir() {
		return []string{nameOrFile}, nil
	}

	data, err := os.ReadFile(nameOrFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", nameOrFile, err)
	}

	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}
