package loader

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"slices"
	"testing"

	"github.com/schoolsynth/schoolsynth/internal/dataset"
	"github.com/schoolsynth/schoolsynth/internal/models"
	"github.com/schoolsynth/schoolsynth/internal/names"
	"github.com/schoolsynth/schoolsynth/internal/store"
	"github.com/schoolsynth/schoolsynth/internal/synth"
	"github.com/schoolsynth/schoolsynth/internal/testutil"
)

var errBoom = errors.New("boom")

// memStore records inserts and can fail on the nth one.
type memStore struct {
	inserted []string
	failAt   int
}

func (m *memStore) Insert(_ context.Context, table string, _ store.Record) error {
	if m.failAt > 0 && len(m.inserted)+1 == m.failAt {
		return errBoom
	}
	m.inserted = append(m.inserted, table)
	return nil
}

func (m *memStore) Update(context.Context, string, store.Filter, store.Record) (int64, error) {
	return 0, nil
}

func (m *memStore) Select(context.Context, string, []string, store.Filter) ([]store.Record, error) {
	return nil, nil
}

func (m *memStore) Close() error { return nil }

func syntheticTable(name string, rows int) *dataset.Table {
	t := &dataset.Table{Name: name, Columns: []string{"n"}}
	for i := 0; i < rows; i++ {
		t.Rows = append(t.Rows, map[string]any{"n": i})
	}
	return t
}

func TestLoad_FixtureDataset(t *testing.T) {
	st := testutil.NewTestStore(t)
	tables := dataset.Tables(testutil.FixtureDataset())

	res, err := Load(context.Background(), st, tables, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if res.Rows != dataset.RowCount(tables) {
		t.Errorf("Rows = %d, want %d", res.Rows, dataset.RowCount(tables))
	}

	want := map[string]int{
		dataset.TableSubjects:        10,
		dataset.TableClasses:         1,
		dataset.TableTerms:           1,
		dataset.TableTeachers:        10,
		dataset.TableParents:         2,
		dataset.TableStudents:        2,
		dataset.TableStudentSubjects: 20,
		dataset.TableTimeAllocations: 10,
		dataset.TableAssessments:     80,
	}
	for table, n := range want {
		testutil.AssertRowCount(t, st, table, n)
		if res.Written[table] != n {
			t.Errorf("Written[%s] = %d, want %d", table, res.Written[table], n)
		}
	}
}

func TestLoad_SortsTablesIntoForeignKeyOrder(t *testing.T) {
	tables := dataset.Tables(testutil.FixtureDataset())
	reversed := make([]*dataset.Table, len(tables))
	for i, tbl := range tables {
		reversed[len(tables)-1-i] = tbl
	}

	t.Run("sqlite accepts reversed input", func(t *testing.T) {
		st := testutil.NewTestStore(t)
		if _, err := Load(context.Background(), st, reversed, nil); err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		testutil.AssertRowCount(t, st, dataset.TableAssessments, 80)
	})

	t.Run("insert order", func(t *testing.T) {
		st := &memStore{}
		extra := syntheticTable("audit_log", 1)
		input := append([]*dataset.Table{extra}, reversed...)

		if _, err := Load(context.Background(), st, input, nil); err != nil {
			t.Fatalf("Load() error = %v", err)
		}

		var order []string
		for _, table := range st.inserted {
			if len(order) == 0 || order[len(order)-1] != table {
				order = append(order, table)
			}
		}
		want := append(append([]string(nil), Order...), "audit_log")
		if !reflect.DeepEqual(order, want) {
			t.Errorf("insert order = %v, want %v", order, want)
		}
	})
}

func TestLoad_StopsOnFirstError(t *testing.T) {
	st := &memStore{failAt: 15}
	tables := dataset.Tables(testutil.FixtureDataset())

	var finished *Event
	res, err := Load(context.Background(), st, tables, func(e Event) {
		if e.Kind == Finished {
			finished = &e
		}
	})

	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("Load() error = %v, want *LoadError", err)
	}
	if !errors.Is(err, errBoom) {
		t.Errorf("errors.Is(err, errBoom) = false")
	}

	// 10 subjects, 1 class and 1 term precede the teachers.
	if loadErr.Table != dataset.TableTeachers || loadErr.Row != 2 || loadErr.Written != 14 {
		t.Errorf("LoadError = %+v, want teachers row 2 after 14 rows", loadErr)
	}
	if res.Rows != 14 || len(st.inserted) != 14 {
		t.Errorf("rows written = %d (store saw %d), want 14", res.Rows, len(st.inserted))
	}
	if finished == nil || finished.Err == nil || finished.Written != 14 {
		t.Errorf("Finished event = %+v, want error after 14 rows", finished)
	}
}

func TestLoad_ForeignKeyViolationIsReported(t *testing.T) {
	st := testutil.NewTestStore(t)
	tables := []*dataset.Table{{
		Name:    dataset.TableStudentSubjects,
		Columns: dataset.Columns[dataset.TableStudentSubjects],
		Rows:    []map[string]any{{"student_id": 99, "subject_id": 1}},
	}}

	_, err := Load(context.Background(), st, tables, nil)
	var loadErr *LoadError
	if !errors.As(err, &loadErr) || loadErr.Written != 0 {
		t.Fatalf("Load() error = %v, want *LoadError with nothing written", err)
	}
	if store.IsTransient(err) {
		t.Error("foreign key violation reported as transient")
	}
}

func TestLoad_ProgressEvents(t *testing.T) {
	tables := []*dataset.Table{
		syntheticTable(dataset.TableSubjects, 250),
		syntheticTable(dataset.TableClasses, 3),
	}

	var got []string
	_, err := Load(context.Background(), &memStore{}, tables, func(e Event) {
		got = append(got, fmt.Sprintf("%s %s %d/%d", e.Kind, e.Table, e.Written, e.Total))
	})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{
		"table_started subjects 0/250",
		"rows_written subjects 100/250",
		"rows_written subjects 200/250",
		"table_done subjects 250/250",
		"table_started classes 0/3",
		"table_done classes 3/3",
		"finished  253/253",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("events =\n%v\nwant\n%v", got, want)
	}
}

func TestLoad_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := &memStore{}
	_, err := Load(ctx, st, []*dataset.Table{syntheticTable(dataset.TableTerms, 3)}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
	if len(st.inserted) != 0 {
		t.Errorf("inserted %d rows after cancellation", len(st.inserted))
	}
}

func loadFixture(t *testing.T) store.Store {
	t.Helper()

	st := testutil.NewTestStore(t)
	if _, err := Load(context.Background(), st, dataset.Tables(testutil.FixtureDataset()), nil); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return st
}

func firstNames(t *testing.T, st store.Store, table, key string) map[string]string {
	t.Helper()

	rows, err := st.Select(context.Background(), table, []string{key, "first_name"}, nil)
	if err != nil {
		t.Fatalf("Select(%s) error = %v", table, err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[fmt.Sprint(r[key])] = fmt.Sprint(r["first_name"])
	}
	return out
}

func TestRenameStudents(t *testing.T) {
	st := loadFixture(t)
	cursors := names.NewCursors(testutil.FixtureCatalog(t))
	ctx := context.Background()

	// Student 0 is female and student 1 male.
	n, err := RenameStudents(ctx, st, cursors)
	if err != nil || n != 2 {
		t.Fatalf("RenameStudents() = %d, %v; want 2, nil", n, err)
	}
	if got, want := firstNames(t, st, dataset.TableStudents, "student_id"), map[string]string{"0": "Ada", "1": "Chike"}; !reflect.DeepEqual(got, want) {
		t.Errorf("after first pass names = %v, want %v", got, want)
	}

	if _, err := RenameStudents(ctx, st, cursors); err != nil {
		t.Fatalf("RenameStudents() error = %v", err)
	}
	if got, want := firstNames(t, st, dataset.TableStudents, "student_id"), map[string]string{"0": "Ngozi", "1": "Emeka"}; !reflect.DeepEqual(got, want) {
		t.Errorf("after second pass names = %v, want %v", got, want)
	}

	// The female list has two names, so its cursor has wrapped.
	if m, f := cursors.Positions(); m != 2 || f != 0 {
		t.Errorf("Positions() = %d, %d; want 2, 0", m, f)
	}
}

func TestRenameStudents_InvalidStoredGender(t *testing.T) {
	st := testutil.NewTestStore(t)
	testutil.ExecSQL(t, st, "PRAGMA ignore_check_constraints = ON")
	testutil.ExecSQL(t, st, "PRAGMA foreign_keys = OFF")
	testutil.ExecSQL(t, st, `INSERT INTO students (student_id, first_name, last_name, gender, parent_id, class_id, course)
		VALUES (0, 'Ada', 'Okafor', 'unknown', 0, 1, 'science')`)

	_, err := RenameStudents(context.Background(), st, names.NewCursors(testutil.FixtureCatalog(t)))
	if err == nil {
		t.Error("expected error for unparseable gender")
	}
}

func TestRefreshParents(t *testing.T) {
	st := loadFixture(t)
	cursors := names.NewCursors(testutil.FixtureCatalog(t))
	enricher, err := synth.NewEnricher(rand.New(rand.NewSource(7)), synth.OccupationTable)
	if err != nil {
		t.Fatalf("NewEnricher() error = %v", err)
	}

	n, err := RefreshParents(context.Background(), st, cursors, enricher)
	if err != nil || n != 2 {
		t.Fatalf("RefreshParents() = %d, %v; want 2, nil", n, err)
	}

	incomes := make(map[string]int, len(synth.OccupationTable))
	for _, o := range synth.OccupationTable {
		incomes[o.Name] = o.IncomeLevel
	}

	rows, err := st.Select(context.Background(), dataset.TableParents, nil, nil)
	if err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	for _, r := range rows {
		g, err := models.ParseGender(fmt.Sprint(r["gender"]))
		if err != nil {
			t.Fatalf("stored gender: %v", err)
		}

		rel := models.Relationship(fmt.Sprint(r["relationship"]))
		if !slices.Contains(models.RelationshipsFor(g), rel) {
			t.Errorf("parent %v: relationship %s does not fit gender %s", r["parent_id"], rel, g)
		}

		occ := fmt.Sprint(r["occupation"])
		want, known := incomes[occ]
		if !known {
			t.Errorf("parent %v: occupation %q not in table", r["parent_id"], occ)
		}
		if got := fmt.Sprint(r["income_level"]); got != fmt.Sprint(want) {
			t.Errorf("parent %v: income_level = %s, want %d", r["parent_id"], got, want)
		}
	}

	// Parent 0 is male and parent 1 female.
	want := map[string]string{"0": "Chike", "1": "Ada"}
	if got := firstNames(t, st, dataset.TableParents, "parent_id"); !reflect.DeepEqual(got, want) {
		t.Errorf("names = %v, want %v", got, want)
	}
}

// unorderedStore returns its rows in the order given and records the key of
// every update.
type unorderedStore struct {
	memStore
	rows    []store.Record
	updated []any
}

func (u *unorderedStore) Select(context.Context, string, []string, store.Filter) ([]store.Record, error) {
	return u.rows, nil
}

func (u *unorderedStore) Update(_ context.Context, _ string, filter store.Filter, _ store.Record) (int64, error) {
	u.updated = append(u.updated, filter["student_id"])
	return 1, nil
}

func TestRenameStudents_VisitsInKeyOrder(t *testing.T) {
	tests := []struct {
		name string
		rows []store.Record
		want []any
	}{
		{
			name: "integer keys",
			rows: []store.Record{
				{"student_id": int64(10), "gender": "male"},
				{"student_id": int64(2), "gender": "female"},
				{"student_id": int64(0), "gender": "male"},
			},
			want: []any{int64(0), int64(2), int64(10)},
		},
		{
			name: "string keys sort numerically",
			rows: []store.Record{
				{"student_id": "10", "gender": "male"},
				{"student_id": "9", "gender": "female"},
				{"student_id": "1", "gender": "male"},
			},
			want: []any{"1", "9", "10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := &unorderedStore{rows: tt.rows}
			if _, err := RenameStudents(context.Background(), st, names.NewCursors(testutil.FixtureCatalog(t))); err != nil {
				t.Fatalf("RenameStudents() error = %v", err)
			}
			if !reflect.DeepEqual(st.updated, tt.want) {
				t.Errorf("updated keys = %v, want %v", st.updated, tt.want)
			}
		})
	}
}
