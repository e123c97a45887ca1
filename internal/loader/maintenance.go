package loader

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/schoolsynth/schoolsynth/internal/dataset"
	"github.com/schoolsynth/schoolsynth/internal/models"
	"github.com/schoolsynth/schoolsynth/internal/names"
	"github.com/schoolsynth/schoolsynth/internal/store"
	"github.com/schoolsynth/schoolsynth/internal/synth"
)

// RenameStudents gives every stored student the next first name from the
// cursor for their gender. Students are visited in id order. It returns the
// number of rows updated.
func RenameStudents(ctx context.Context, st store.Store, cursors *names.Cursors) (int, error) {
	rows, err := selectGendered(ctx, st, dataset.TableStudents, "student_id")
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		first, err := cursors.Next(r.gender)
		if err != nil {
			return updated, fmt.Errorf("renaming student %v: %w", r.id, err)
		}
		n, err := st.Update(ctx, dataset.TableStudents,
			store.Filter{"student_id": r.id},
			store.Record{"first_name": first},
		)
		if err != nil {
			return updated, fmt.Errorf("renaming student %v: %w", r.id, err)
		}
		updated += int(n)
	}

	male, female := cursors.Positions()
	slog.Info("students renamed", "students", updated, "male_cursor", male, "female_cursor", female)
	return updated, nil
}

// RefreshParents redraws every stored parent's first name and metadata. The
// stored gender decides both the name list and the relationship labels.
func RefreshParents(ctx context.Context, st store.Store, cursors *names.Cursors, enricher *synth.Enricher) (int, error) {
	rows, err := selectGendered(ctx, st, dataset.TableParents, "parent_id")
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, r := range rows {
		if err := ctx.Err(); err != nil {
			return updated, err
		}

		first, err := cursors.Next(r.gender)
		if err != nil {
			return updated, fmt.Errorf("refreshing parent %v: %w", r.id, err)
		}
		meta, err := enricher.Enrich(r.gender)
		if err != nil {
			return updated, fmt.Errorf("refreshing parent %v: %w", r.id, err)
		}

		n, err := st.Update(ctx, dataset.TableParents,
			store.Filter{"parent_id": r.id},
			store.Record{
				"first_name":   first,
				"relationship": string(meta.Relationship),
				"occupation":   meta.Occupation,
				"income_level": meta.IncomeLevel,
			},
		)
		if err != nil {
			return updated, fmt.Errorf("refreshing parent %v: %w", r.id, err)
		}
		updated += int(n)
	}

	slog.Info("parents refreshed", "parents", updated)
	return updated, nil
}

type genderedRow struct {
	id     any
	gender models.Gender
}

// selectGendered reads the key and gender of every row in table, sorted by
// key. Backends differ in how they type stored values, so gender is parsed
// from its printed form and the key is passed back to the store as
// returned.
func selectGendered(ctx context.Context, st store.Store, table, key string) ([]genderedRow, error) {
	recs, err := st.Select(ctx, table, []string{key, "gender"}, nil)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", table, err)
	}

	rows := make([]genderedRow, 0, len(recs))
	for _, rec := range recs {
		id, ok := rec[key]
		if !ok {
			return nil, fmt.Errorf("reading %s: row without %s", table, key)
		}
		g, err := models.ParseGender(fmt.Sprint(rec["gender"]))
		if err != nil {
			return nil, fmt.Errorf("reading %s %v: %w", table, id, err)
		}
		rows = append(rows, genderedRow{id: id, gender: g})
	}

	// Not every backend returns rows in key order.
	slices.SortStableFunc(rows, func(a, b genderedRow) int { return compareIDs(a.id, b.id) })
	return rows, nil
}

// compareIDs orders integer keys numerically, whatever their stored type,
// and anything else lexically after them.
func compareIDs(a, b any) int {
	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	ai, errA := strconv.ParseInt(as, 10, 64)
	bi, errB := strconv.ParseInt(bs, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return cmp.Compare(ai, bi)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(as, bs)
	}
}
