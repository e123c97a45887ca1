// Package loader writes generated tables to a store and runs the
// maintenance passes over rows already stored.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/schoolsynth/schoolsynth/internal/dataset"
	"github.com/schoolsynth/schoolsynth/internal/store"
)

// Order is the foreign-key order tables are loaded in.
var Order = []string{
	dataset.TableSubjects,
	dataset.TableClasses,
	dataset.TableTerms,
	dataset.TableTeachers,
	dataset.TableParents,
	dataset.TableStudents,
	dataset.TableStudentSubjects,
	dataset.TableTimeAllocations,
	dataset.TableAssessments,
}

// BatchSize is how many rows are written between RowsWritten events.
const BatchSize = 100

// EventKind identifies a progress event.
type EventKind int

const (
	TableStarted EventKind = iota
	RowsWritten
	TableDone
	Finished
)

func (k EventKind) String() string {
	switch k {
	case TableStarted:
		return "table_started"
	case RowsWritten:
		return "rows_written"
	case TableDone:
		return "table_done"
	case Finished:
		return "finished"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event reports load progress. Written and Total count rows of Table; for
// Finished they count rows across all tables and Err holds the run's error,
// if any.
type Event struct {
	Kind    EventKind
	Table   string
	Written int
	Total   int
	Err     error
}

// Reporter receives progress events. It is called on the loading goroutine.
type Reporter func(Event)

// Result summarises a load.
type Result struct {
	// Written is the number of rows stored per table.
	Written  map[string]int
	Rows     int
	Duration time.Duration
}

// LoadError reports where a load stopped. Rows written before the failure
// stay in the store.
type LoadError struct {
	Table   string
	Row     int
	Written int
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading %s row %d (%d rows already written): %v", e.Table, e.Row, e.Written, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Load inserts every table into st in foreign-key order. report may be nil.
// On failure it stops at once and returns a *LoadError.
func Load(ctx context.Context, st store.Store, tables []*dataset.Table, report Reporter) (Result, error) {
	if report == nil {
		report = func(Event) {}
	}

	start := time.Now()
	res := Result{Written: make(map[string]int, len(tables))}
	total := dataset.RowCount(tables)

	fail := func(err error) (Result, error) {
		res.Duration = time.Since(start)
		report(Event{Kind: Finished, Written: res.Rows, Total: total, Err: err})
		return res, err
	}

	for _, t := range sortTables(tables) {
		n := len(t.Rows)
		slog.Debug("loading table", "table", t.Name, "rows", n)
		report(Event{Kind: TableStarted, Table: t.Name, Total: n})

		for i, row := range t.Rows {
			if err := ctx.Err(); err != nil {
				return fail(&LoadError{Table: t.Name, Row: i, Written: res.Rows, Err: err})
			}
			if err := st.Insert(ctx, t.Name, row); err != nil {
				return fail(&LoadError{Table: t.Name, Row: i, Written: res.Rows, Err: err})
			}
			res.Written[t.Name]++
			res.Rows++

			if done := i + 1; done%BatchSize == 0 && done < n {
				report(Event{Kind: RowsWritten, Table: t.Name, Written: done, Total: n})
			}
		}

		report(Event{Kind: TableDone, Table: t.Name, Written: n, Total: n})
	}

	res.Duration = time.Since(start)
	slog.Info("load complete", "tables", len(tables), "rows", res.Rows, "duration", res.Duration)
	report(Event{Kind: Finished, Written: res.Rows, Total: total})
	return res, nil
}

// sortTables returns tables in load order. Tables not named in Order keep
// their relative order after the known ones.
func sortTables(tables []*dataset.Table) []*dataset.Table {
	rank := make(map[string]int, len(Order))
	for i, name := range Order {
		rank[name] = i
	}
	pos := func(name string) int {
		if r, ok := rank[name]; ok {
			return r
		}
		return len(Order)
	}

	sorted := append([]*dataset.Table(nil), tables...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return pos(sorted[i].Name) < pos(sorted[j].Name)
	})
	return sorted
}
