package synth

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/schoolsynth/schoolsynth/internal/models"
	"github.com/schoolsynth/schoolsynth/internal/names"
	"github.com/schoolsynth/schoolsynth/internal/util"
)

// AgeBand is an inclusive age range in years.
type AgeBand struct {
	Min int
	Max int
}

// Config configures one generation pass.
type Config struct {
	StudentCount int
	StudentAge   AgeBand
	ParentAge    AgeBand
	TeacherAge   AgeBand
	AsOfYear     int
	RandomSeed   int64
}

// DefaultConfig returns a default generation configuration.
func DefaultConfig() Config {
	return Config{
		StudentCount: 300,
		StudentAge:   AgeBand{Min: 9, Max: 11},
		ParentAge:    AgeBand{Min: 30, Max: 55},
		TeacherAge:   AgeBand{Min: 25, Max: 60},
		AsOfYear:     time.Now().Year(),
		RandomSeed:   2024,
	}
}

// Generator builds a complete dataset from a name catalog. All randomness
// comes from one RNG seeded from the config, so a fixed seed and catalog
// always produce the same dataset.
type Generator struct {
	cfg     Config
	catalog *names.Catalog
	rng     *rand.Rand

	assigner *names.Assigner
	cursors  *names.Cursors
	dob      *DOBGenerator
	enricher *Enricher
	subjects *SubjectAssigner
	scorer   *Scorer

	electives []int
	hours     map[allocationKey]float64
}

type allocationKey struct {
	classID, termID, subjectID int
}

// NewGenerator creates a generator over the catalog.
func NewGenerator(catalog *names.Catalog, cfg Config) (*Generator, error) {
	if cfg.StudentCount < 0 {
		return nil, fmt.Errorf("student count %d must not be negative", cfg.StudentCount)
	}

	rng := rand.New(rand.NewSource(cfg.RandomSeed))
	enricher, err := NewEnricher(rng, OccupationTable)
	if err != nil {
		return nil, err
	}

	return &Generator{
		cfg:      cfg,
		catalog:  catalog,
		rng:      rng,
		assigner: names.NewAssigner(rng),
		cursors:  names.NewCursors(catalog),
		dob:      NewDOBGenerator(rng),
		enricher: enricher,
		scorer:   NewScorer(rng),
		hours:    make(map[allocationKey]float64),
	}, nil
}

// Generate runs one generation pass.
func (g *Generator) Generate(ctx context.Context) (*models.Dataset, error) {
	ds := &models.Dataset{RunID: util.DeterministicRunID(g.cfg.RandomSeed)}

	slog.Info("starting dataset generation",
		"run_id", ds.RunID,
		"students", g.cfg.StudentCount,
		"seed", g.cfg.RandomSeed,
	)

	phases := []struct {
		name string
		fn   func(*models.Dataset) error
	}{
		{"school tables", g.generateSchool},
		{"teachers", g.generateTeachers},
		{"students", g.generateStudents},
		{"parents", g.generateParents},
		{"time allocations", g.generateTimeAllocations},
		{"assessments", g.generateAssessments},
	}

	for _, p := range phases {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generating %s: %w", p.name, err)
		}
		if err := p.fn(ds); err != nil {
			return nil, fmt.Errorf("generating %s: %w", p.name, err)
		}
	}

	slog.Info("dataset generation complete",
		"run_id", ds.RunID,
		"teachers", len(ds.Teachers),
		"students", len(ds.Students),
		"parents", len(ds.Parents),
		"assessments", len(ds.Assessments),
	)

	return ds, nil
}

func (g *Generator) generateSchool(ds *models.Dataset) error {
	ids := util.NewSequence(1)
	for _, def := range SubjectTable {
		s := &models.Subject{SubjectID: ids.Next(), Name: def.Name, Category: def.Category}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("subject %s: %w", def.Name, err)
		}
		ds.Subjects = append(ds.Subjects, s)
	}

	for i, name := range ClassNames {
		ds.Classes = append(ds.Classes, &models.Class{ClassID: i + 1, Name: name})
	}
	for i, name := range TermNames {
		ds.Terms = append(ds.Terms, &models.Term{TermID: i + 1, Name: name})
	}

	tracks, electives := TracksFromSubjects(ds.Subjects)
	subjects, err := NewSubjectAssigner(g.rng, tracks)
	if err != nil {
		return err
	}
	g.subjects = subjects
	g.electives = electives

	slog.Debug("school tables generated",
		"subjects", len(ds.Subjects),
		"classes", len(ds.Classes),
		"terms", len(ds.Terms),
	)
	return nil
}

func (g *Generator) generateTeachers(ds *models.Dataset) error {
	people, err := g.assigner.Generate(len(ds.Subjects), g.catalog.FirstNames(), g.catalog.AllLastNames())
	if err != nil {
		return err
	}

	for i, p := range people {
		if err := g.attachDOB(&p, g.cfg.TeacherAge); err != nil {
			return err
		}
		t := &models.Teacher{
			Person:            p,
			TeacherID:         i + 1,
			SubjectID:         ds.Subjects[i].SubjectID,
			YearsOfExperience: MinTeacherExperience + g.rng.Intn(MaxTeacherExperience-MinTeacherExperience+1),
		}
		if err := t.Validate(); err != nil {
			return fmt.Errorf("teacher %d: %w", t.TeacherID, err)
		}
		ds.Teachers = append(ds.Teachers, t)
	}

	slog.Debug("teachers generated", "count", len(ds.Teachers))
	return nil
}

func (g *Generator) generateStudents(ds *models.Dataset) error {
	people, err := g.assigner.Generate(g.cfg.StudentCount, g.catalog.FirstNames(), g.catalog.AllLastNames())
	if err != nil {
		return err
	}

	for i, p := range people {
		if err := g.attachDOB(&p, g.cfg.StudentAge); err != nil {
			return err
		}

		course := models.Courses[g.rng.Intn(len(models.Courses))]
		subjects, err := g.subjects.Assign(course, g.electives)
		if err != nil {
			return err
		}

		s := &models.Student{
			Person:    p,
			StudentID: i,
			ParentID:  i,
			ClassID:   ds.Classes[g.rng.Intn(len(ds.Classes))].ClassID,
			Course:    course,
			Subjects:  subjects,
		}
		if err := s.Validate(); err != nil {
			return fmt.Errorf("student %d: %w", s.StudentID, err)
		}
		ds.Students = append(ds.Students, s)
	}

	slog.Debug("students generated", "count", len(ds.Students))
	return nil
}

// generateParents creates one parent per student. The parent shares the
// student's last name and takes the student's index as its id.
func (g *Generator) generateParents(ds *models.Dataset) error {
	for _, s := range ds.Students {
		gender := models.GenderMale
		if g.rng.Intn(2) == 1 {
			gender = models.GenderFemale
		}

		first, err := g.cursors.Next(gender)
		if err != nil {
			return err
		}
		meta, err := g.enricher.Enrich(gender)
		if err != nil {
			return err
		}

		p := &models.Parent{
			Person:   models.Person{FirstName: first, LastName: s.LastName, Gender: gender},
			ParentID: s.ParentID,
		}
		meta.Apply(p)
		if err := g.attachDOB(&p.Person, g.cfg.ParentAge); err != nil {
			return err
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("parent %d: %w", p.ParentID, err)
		}
		ds.Parents = append(ds.Parents, p)
	}

	slog.Debug("parents generated", "count", len(ds.Parents))
	return nil
}

func (g *Generator) generateTimeAllocations(ds *models.Dataset) error {
	teacherFor := make(map[int]int, len(ds.Teachers))
	for _, t := range ds.Teachers {
		teacherFor[t.SubjectID] = t.TeacherID
	}

	span := models.MaxTeachingPct - models.MinTeachingPct
	for _, c := range ds.Classes {
		for _, term := range ds.Terms {
			for _, s := range ds.Subjects {
				teacherID, ok := teacherFor[s.SubjectID]
				if !ok {
					return fmt.Errorf("no teacher for subject %d", s.SubjectID)
				}
				a := &models.TimeAllocation{
					TeacherID: teacherID,
					ClassID:   c.ClassID,
					TermID:    term.TermID,
					SubjectID: s.SubjectID,
					Hours:     math.Round((models.MinTeachingPct+g.rng.Float64()*span)*100) / 100,
				}
				g.hours[allocationKey{c.ClassID, term.TermID, s.SubjectID}] = a.Hours
				ds.TimeAllocations = append(ds.TimeAllocations, a)
			}
		}
	}

	slog.Debug("time allocations generated", "count", len(ds.TimeAllocations))
	return nil
}

func (g *Generator) generateAssessments(ds *models.Dataset) error {
	maxIncome := g.enricher.MaxIncomeLevel()

	for _, s := range ds.Students {
		parent, ok := ds.ParentByID(s.ParentID)
		if !ok {
			return fmt.Errorf("student %d has no parent %d", s.StudentID, s.ParentID)
		}

		for _, term := range ds.Terms {
			for _, subjectID := range s.Subjects {
				hours, ok := g.hours[allocationKey{s.ClassID, term.TermID, subjectID}]
				if !ok {
					return fmt.Errorf("no time allocation for class %d term %d subject %d", s.ClassID, term.TermID, subjectID)
				}

				for _, at := range models.AssessmentTypes {
					score, err := g.scorer.Score(parent.IncomeLevel, maxIncome, hours, at)
					if err != nil {
						return err
					}
					ds.Assessments = append(ds.Assessments, &models.Assessment{
						StudentID:      s.StudentID,
						ClassID:        s.ClassID,
						TermID:         term.TermID,
						SubjectID:      subjectID,
						AssessmentType: at,
						Score:          score,
					})
				}
			}
		}
	}

	slog.Debug("assessments generated", "count", len(ds.Assessments))
	return nil
}

func (g *Generator) attachDOB(p *models.Person, band AgeBand) error {
	dob, err := g.dob.RandomDOB(band.Min, band.Max, g.cfg.AsOfYear)
	if err != nil {
		return err
	}
	p.DateOfBirth = dob
	return nil
}
