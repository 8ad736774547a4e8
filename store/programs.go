package store

import (
	"fmt"

	"github.com/hunThubSpace/subscope/models"
)

func (db Database) ProgramExists(name string) (bool, error) {
	var n int
	err := db.conn.QueryRow("SELECT COUNT(1) FROM programs WHERE program = ?", name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check program %s: %w", name, err)
	}
	return n > 0, nil
}

// AddProgram creates a program. Re-adding an existing program is an
// unchanged no-op, not an error.
func (db Database) AddProgram(name string) (UpsertResult, error) {
	exists, err := db.ProgramExists(name)
	if err != nil {
		return UpsertResult{}, err
	}
	if exists {
		return UpsertResult{Name: name, Outcome: OutcomeUnchanged}, nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return UpsertResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		"INSERT INTO programs (program, domains, subdomains, urls, ips, created_at) VALUES (?, 0, 0, 0, 0, ?)",
		name, now(),
	); err != nil {
		return UpsertResult{}, wrapExecError("adding program", err)
	}

	// Orphaned child rows from earlier deletes may already name this program.
	if err := refreshProgramCounts(tx, name); err != nil {
		return UpsertResult{}, fmt.Errorf("failed to refresh counts for %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return UpsertResult{}, fmt.Errorf("failed to commit: %w", err)
	}
	return UpsertResult{Name: name, Outcome: OutcomeCreated}, nil
}

// ListPrograms returns every program, or the one named unless the name is
// the wildcard.
func (db Database) ListPrograms(name string) ([]models.Program, error) {
	p := predicate{}
	p.key("program", name)

	rows, err := db.conn.Query(
		"SELECT program, domains, subdomains, urls, ips, created_at FROM programs"+p.where(),
		p.args...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list programs: %w", err)
	}
	defer rows.Close()

	var programs []models.Program
	for rows.Next() {
		var item models.Program
		if err := rows.Scan(&item.Name, &item.Domains, &item.Subdomains, &item.URLs, &item.IPs, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan program row: %w", err)
		}
		programs = append(programs, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error when listing programs: %w", err)
	}
	return programs, nil
}

// DeleteProgram removes programs. With cascade it wipes every child table
// first (narrowed to the program unless it is the wildcard) and reports the
// per-table counts; without it only program rows go, leaving children for a
// later re-add to pick up.
func (db Database) DeleteProgram(name string, cascade bool) (DeleteResult, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return DeleteResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var result DeleteResult
	p := predicate{}
	p.key("program", name)

	if cascade {
		tables := []struct {
			table string
			count *int
		}{
			{"cidrs", &result.IPs},
			{"urls", &result.URLs},
			{"subdomains", &result.Subdomains},
			{"domains", &result.Domains},
			{"programs", &result.Programs},
		}
		for _, t := range tables {
			res, err := tx.Exec("DELETE FROM "+t.table+p.where(), p.args...)
			if err != nil {
				return DeleteResult{}, wrapExecError("deleting program data", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return DeleteResult{}, fmt.Errorf("failed to count deleted rows: %w", err)
			}
			*t.count = int(n)
		}
		result.Deleted = result.Programs
	} else {
		res, err := tx.Exec("DELETE FROM programs"+p.where(), p.args...)
		if err != nil {
			return DeleteResult{}, wrapExecError("deleting program", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return DeleteResult{}, fmt.Errorf("failed to count deleted rows: %w", err)
		}
		result.Deleted = int(n)
		result.Programs = int(n)
	}

	if err := tx.Commit(); err != nil {
		return DeleteResult{}, fmt.Errorf("failed to commit: %w", err)
	}
	return result, nil
}
