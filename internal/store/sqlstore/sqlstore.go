// Package sqlstore implements store.Store over the local SQLite database.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/schoolsynth/schoolsynth/internal/database"
	"github.com/schoolsynth/schoolsynth/internal/store"
)

// Store writes rows to a migrated SQLite database.
type Store struct {
	db *database.DB
}

// Open opens the database at path and applies the schema migrations. The
// path ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	var (
		db  *database.DB
		err error
	)
	if path == ":memory:" {
		db, err = database.OpenInMemory()
	} else {
		db, err = database.Open(path)
	}
	if err != nil {
		return nil, err
	}

	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying database.
func (s *Store) DB() *database.DB {
	return s.db
}

// Insert implements store.Store.
func (s *Store) Insert(ctx context.Context, table string, rec store.Record) error {
	if err := store.ValidateRequest(table, nil, rec); err != nil {
		return err
	}
	if len(rec) == 0 {
		return fmt.Errorf("inserting into %s: empty record", table)
	}

	cols := store.SortedKeys(rec)
	args := make([]any, len(cols))
	for i, c := range cols {
		args[i] = rec[c]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), placeholders(len(cols)))

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting into %s: %w", table, err)
	}
	return nil
}

// Update implements store.Store.
func (s *Store) Update(ctx context.Context, table string, filter store.Filter, patch store.Record) (int64, error) {
	if err := store.ValidateRequest(table, nil, filter, patch); err != nil {
		return 0, err
	}
	if len(patch) == 0 {
		return 0, fmt.Errorf("updating %s: empty patch", table)
	}

	cols := store.SortedKeys(patch)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+len(filter))
	for i, c := range cols {
		sets[i] = c + " = ?"
		args = append(args, patch[c])
	}

	where, whereArgs := whereClause(filter)
	args = append(args, whereArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s%s", table, strings.Join(sets, ", "), where)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("updating %s: %w", table, err)
	}
	return res.RowsAffected()
}

// Select implements store.Store. Rows come back in rowid order.
func (s *Store) Select(ctx context.Context, table string, columns []string, filter store.Filter) ([]store.Record, error) {
	if err := store.ValidateRequest(table, columns, filter); err != nil {
		return nil, err
	}

	sel := "*"
	if len(columns) > 0 {
		sel = strings.Join(columns, ", ")
	}
	where, args := whereClause(filter)

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT %s FROM %s%s ORDER BY rowid", sel, table, where), args...)
	if err != nil {
		return nil, fmt.Errorf("selecting from %s: %w", table, err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func whereClause(filter store.Filter) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}
	cols := store.SortedKeys(filter)
	conds := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		conds[i] = c + " = ?"
		args[i] = filter[c]
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanRecords(rows *sql.Rows) ([]store.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	var out []store.Record
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		rec := make(store.Record, len(cols))
		for i, c := range cols {
			if b, ok := values[i].([]byte); ok {
				rec[c] = string(b)
			} else {
				rec[c] = values[i]
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}
