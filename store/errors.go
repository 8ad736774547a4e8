package store

import (
	"errors"
	"fmt"

	sqlite3 "github.com/mattn/go-sqlite3"
)

// ParentNotFoundError reports that the declared parent of a child entity does
// not exist. It fails only the affected entity, never the whole batch.
type ParentNotFoundError struct {
	Kind string // "program", "domain" or "subdomain"
	Name string
}

func (e ParentNotFoundError) Error() string {
	return fmt.Sprintf("%s %s does not exist", e.Kind, e.Name)
}

// MalformedTimeRangeError reports an unparseable calendar expression. It is a
// hard failure: the operation carrying the filter aborts.
type MalformedTimeRangeError struct {
	Input string
}

func (e MalformedTimeRangeError) Error() string {
	return fmt.Sprintf("invalid time format: %s", e.Input)
}

// IntegrityError wraps a constraint violation raised by the store. The
// enclosing transaction has already been rolled back when it is returned.
type IntegrityError struct {
	Op  string
	Err error
}

func (e IntegrityError) Error() string {
	return fmt.Sprintf("%s: integrity violation: %v", e.Op, e.Err)
}

func (e IntegrityError) Unwrap() error {
	return e.Err
}

func wrapExecError(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return IntegrityError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// Outcome classifies what an upsert did to one entity.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeUpdated
	OutcomeUnchanged
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unchanged"
	}
}

// UpsertResult reports what happened to a single entity of a (possibly
// file-driven) upsert. Err carries a per-line failure; the rest of the batch
// is unaffected by it.
type UpsertResult struct {
	Name    string
	Outcome Outcome
	Changed []string
	Err     error
}

// DeleteResult reports a delete as an informational outcome: zero deletions
// is a no-op, not an error. The per-table counts are filled in by cascading
// deletes.
type DeleteResult struct {
	Deleted    int
	Programs   int
	Domains    int
	Subdomains int
	URLs       int
	IPs        int
}
