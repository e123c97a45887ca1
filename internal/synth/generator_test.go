package synth

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/schoolsynth/schoolsynth/internal/models"
	"github.com/schoolsynth/schoolsynth/internal/names"
)

func testConfig() Config {
	return Config{
		StudentCount: 30,
		StudentAge:   AgeBand{Min: 9, Max: 11},
		ParentAge:    AgeBand{Min: 30, Max: 55},
		TeacherAge:   AgeBand{Min: 25, Max: 60},
		AsOfYear:     2024,
		RandomSeed:   42,
	}
}

func generate(t *testing.T, cfg Config) *models.Dataset {
	t.Helper()

	catalog, err := names.LoadDefaultCatalog()
	if err != nil {
		t.Fatalf("LoadDefaultCatalog() error = %v", err)
	}
	g, err := NewGenerator(catalog, cfg)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	ds, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return ds
}

func TestGenerator_Counts(t *testing.T) {
	ds := generate(t, testConfig())

	subjects := len(SubjectTable)
	tests := []struct {
		name string
		got  int
		want int
	}{
		{"subjects", len(ds.Subjects), subjects},
		{"classes", len(ds.Classes), len(ClassNames)},
		{"terms", len(ds.Terms), len(TermNames)},
		{"teachers", len(ds.Teachers), subjects},
		{"students", len(ds.Students), 30},
		{"parents", len(ds.Parents), 30},
		{"time allocations", len(ds.TimeAllocations), len(ClassNames) * len(TermNames) * subjects},
		{"assessments", len(ds.Assessments), 30 * len(TermNames) * models.SubjectLoad * len(models.AssessmentTypes)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %d, want %d", tt.got, tt.want)
			}
		})
	}
}

func TestGenerator_RecordsAreValid(t *testing.T) {
	ds := generate(t, testConfig())

	for _, tr := range ds.Teachers {
		if err := tr.Validate(); err != nil {
			t.Errorf("teacher %d: %v", tr.TeacherID, err)
		}
		if tr.YearsOfExperience < MinTeacherExperience || tr.YearsOfExperience > MaxTeacherExperience {
			t.Errorf("teacher %d has %d years of experience", tr.TeacherID, tr.YearsOfExperience)
		}
	}
	for _, s := range ds.Students {
		if err := s.Validate(); err != nil {
			t.Errorf("student %d: %v", s.StudentID, err)
		}
		if y := s.DateOfBirth.Year(); y < 2013 || y > 2015 {
			t.Errorf("student %d born in %d", s.StudentID, y)
		}
	}
	for _, p := range ds.Parents {
		if err := p.Validate(); err != nil {
			t.Errorf("parent %d: %v", p.ParentID, err)
		}
	}
	for _, a := range ds.TimeAllocations {
		if err := a.Validate(); err != nil {
			t.Errorf("allocation %+v: %v", a, err)
		}
	}
	for _, a := range ds.Assessments {
		if err := a.Validate(); err != nil {
			t.Fatalf("assessment %+v: %v", a, err)
		}
	}
}

func TestGenerator_ParentsMatchStudents(t *testing.T) {
	ds := generate(t, testConfig())

	for _, s := range ds.Students {
		p, ok := ds.ParentByID(s.ParentID)
		if !ok {
			t.Fatalf("student %d has no parent", s.StudentID)
		}
		if p.LastName != s.LastName {
			t.Errorf("parent %d last name %s, student %s", p.ParentID, p.LastName, s.LastName)
		}
	}
}

func TestGenerator_StudentNamesUnique(t *testing.T) {
	ds := generate(t, testConfig())

	seen := map[string]bool{}
	for _, s := range ds.Students {
		if seen[s.FullName()] {
			t.Errorf("duplicate student name %s", s.FullName())
		}
		seen[s.FullName()] = true
	}
}

func TestGenerator_AssessmentsFollowEnrolment(t *testing.T) {
	ds := generate(t, testConfig())

	enrolled := map[[2]int]bool{}
	classOf := map[int]int{}
	for _, s := range ds.Students {
		classOf[s.StudentID] = s.ClassID
		for _, id := range s.Subjects {
			enrolled[[2]int{s.StudentID, id}] = true
		}
	}

	for _, a := range ds.Assessments {
		if !enrolled[[2]int{a.StudentID, a.SubjectID}] {
			t.Fatalf("assessment for student %d in subject %d they do not take", a.StudentID, a.SubjectID)
		}
		if classOf[a.StudentID] != a.ClassID {
			t.Fatalf("assessment class %d differs from student class %d", a.ClassID, classOf[a.StudentID])
		}
	}
}

func TestGenerator_DeterministicForSeed(t *testing.T) {
	a := generate(t, testConfig())
	b := generate(t, testConfig())
	if !reflect.DeepEqual(a, b) {
		t.Error("same seed and catalog produced different datasets")
	}

	cfg := testConfig()
	cfg.RandomSeed = 43
	c := generate(t, cfg)
	if reflect.DeepEqual(a.Students, c.Students) {
		t.Error("different seeds produced identical students")
	}
}

func TestGenerator_CancelledContext(t *testing.T) {
	catalog, _ := names.LoadDefaultCatalog()
	g, err := NewGenerator(catalog, testConfig())
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Generate(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want context.Canceled", err)
	}
}

func TestGenerator_InsufficientNames(t *testing.T) {
	catalog, err := names.NewCatalog(
		[]string{"Chike", "Emeka"},
		[]string{"Ada"},
		map[string][]string{"igbo": {"Okafor", "Eze"}},
	)
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}

	g, err := NewGenerator(catalog, testConfig())
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}

	_, err = g.Generate(context.Background())
	var insufficient *names.InsufficientCombinationsError
	if !errors.As(err, &insufficient) {
		t.Errorf("expected InsufficientCombinationsError, got %v", err)
	}
}

func TestNewGenerator_NegativeCount(t *testing.T) {
	catalog, _ := names.LoadDefaultCatalog()
	cfg := testConfig()
	cfg.StudentCount = -1

	if _, err := NewGenerator(catalog, cfg); err == nil {
		t.Error("expected error for negative student count")
	}
}
