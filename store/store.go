// Package store saves and loads portfolio records.
//
// Two drivers are available: Dir keeps one JSONL file per portfolio in a
// directory, SQLite keeps every portfolio in a single database file.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/stocklots"
)

// ErrNotFound is returned when loading or deleting an unknown portfolio.
var ErrNotFound = errors.New("portfolio not found")

// Store persists portfolio records by name.
type Store interface {
	// Save creates or replaces the record named r.Name.
	Save(r stocklots.Record) error
	// Load returns the record named name, or ErrNotFound.
	Load(name string) (stocklots.Record, error)
	// List returns the names of all saved portfolios, sorted.
	List() ([]string, error)
	// Delete removes the record named name, or returns ErrNotFound.
	Delete(name string) error
	Close() error
}

// Open returns the Store for driver ("dir" or "sqlite") at path.
func Open(driver, path string) (Store, error) {
	switch driver {
	case "dir":
		return NewDir(path), nil
	case "sqlite":
		return OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// ValidateName checks that name can be used as a portfolio name.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty portfolio name", stocklots.ErrInvalidArgument)
	case strings.ContainsAny(name, `/\`) || name == "." || name == "..":
		return fmt.Errorf("%w: portfolio name %q contains a path separator", stocklots.ErrInvalidArgument, name)
	}
	return nil
}
