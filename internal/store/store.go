// Package store defines the row-oriented datastore the loader writes to and
// a retrying wrapper for it. Backends live in the subpackages.
package store

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// Record is one row keyed by column name.
type Record = map[string]any

// Filter selects rows whose columns equal every given value.
type Filter = map[string]any

// Store is a tabular datastore keyed by string table names.
type Store interface {
	// Insert writes one row.
	Insert(ctx context.Context, table string, rec Record) error
	// Update sets the patch columns on every row matching filter and
	// returns how many rows matched.
	Update(ctx context.Context, table string, filter Filter, patch Record) (int64, error)
	// Select returns the named columns of every row matching filter. No
	// columns means all columns.
	Select(ctx context.Context, table string, columns []string, filter Filter) ([]Record, error)
	Close() error
}

var (
	// ErrInvalidIdentifier is returned for table or column names that are not
	// plain identifiers.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrTransient marks an error as safe to retry.
	ErrTransient = errors.New("transient store error")
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier checks that name is safe to interpolate as a table or
// column name.
func ValidateIdentifier(name string) error {
	if !identifier.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// ValidateRequest checks a table name and every column referenced by the
// given records and column list.
func ValidateRequest(table string, columns []string, recs ...map[string]any) error {
	if err := ValidateIdentifier(table); err != nil {
		return err
	}
	for _, c := range columns {
		if err := ValidateIdentifier(c); err != nil {
			return err
		}
	}
	for _, rec := range recs {
		for c := range rec {
			if err := ValidateIdentifier(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// SortedKeys returns a record's column names in sorted order, so that
// generated statements are stable.
func SortedKeys(rec map[string]any) []string {
	keys := make([]string, 0, len(rec))
	for k := range rec {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Transient wraps err so that IsTransient reports true for it.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}
