package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/schoolsynth/schoolsynth/internal/models"
	"github.com/schoolsynth/schoolsynth/internal/names"
)

var fixtureDOB = time.Date(2014, time.March, 9, 0, 0, 0, 0, time.UTC)

// FixtureStudent creates a test student with sensible defaults.
func FixtureStudent(overrides ...func(*models.Student)) *models.Student {
	s := &models.Student{
		Person: models.Person{
			FirstName:   "Ada",
			LastName:    "Okafor",
			Gender:      models.GenderFemale,
			DateOfBirth: fixtureDOB,
		},
		StudentID: 0,
		ParentID:  0,
		ClassID:   1,
		Course:    models.CourseScience,
		Subjects:  []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	}

	for _, override := range overrides {
		override(s)
	}
	return s
}

// FixtureParent creates a test parent with sensible defaults.
func FixtureParent(overrides ...func(*models.Parent)) *models.Parent {
	p := &models.Parent{
		Person: models.Person{
			FirstName:   "Chike",
			LastName:    "Okafor",
			Gender:      models.GenderMale,
			DateOfBirth: fixtureDOB.AddDate(-30, 0, 0),
		},
		ParentID:     0,
		Relationship: models.RelationshipFather,
		Occupation:   "Trader",
		IncomeLevel:  2,
	}

	for _, override := range overrides {
		override(p)
	}
	return p
}

// FixtureFemaleParent creates a female test parent.
func FixtureFemaleParent(overrides ...func(*models.Parent)) *models.Parent {
	return FixtureParent(append([]func(*models.Parent){
		func(p *models.Parent) {
			p.FirstName = "Ngozi"
			p.Gender = models.GenderFemale
			p.Relationship = models.RelationshipMother
		},
	}, overrides...)...)
}

// FixtureTeacher creates a test teacher with sensible defaults.
func FixtureTeacher(overrides ...func(*models.Teacher)) *models.Teacher {
	t := &models.Teacher{
		Person: models.Person{
			FirstName:   "Emeka",
			LastName:    "Eze",
			Gender:      models.GenderMale,
			DateOfBirth: fixtureDOB.AddDate(-35, 0, 0),
		},
		TeacherID:         1,
		SubjectID:         1,
		YearsOfExperience: 12,
	}

	for _, override := range overrides {
		override(t)
	}
	return t
}

// FixtureDataset builds a small consistent dataset: ten subjects each with
// a teacher, one class, one term, and two students with their parents.
// Every student takes all ten subjects and has one score per assessment
// type.
func FixtureDataset() *models.Dataset {
	ds := &models.Dataset{
		RunID:   "00000000-0000-4000-8000-000000000000",
		Classes: []*models.Class{{ClassID: 1, Name: "JSS1"}},
		Terms:   []*models.Term{{TermID: 1, Name: "First Term"}},
	}

	for id := 1; id <= models.SubjectLoad; id++ {
		category := models.SubjectGeneral
		if id > 4 {
			category = models.SubjectElective
		}
		ds.Subjects = append(ds.Subjects, &models.Subject{
			SubjectID: id,
			Name:      fmt.Sprintf("Subject %d", id),
			Category:  category,
		})
		ds.Teachers = append(ds.Teachers, FixtureTeacher(func(t *models.Teacher) {
			t.TeacherID = id
			t.SubjectID = id
		}))
		ds.TimeAllocations = append(ds.TimeAllocations, &models.TimeAllocation{
			TeacherID: id,
			ClassID:   1,
			TermID:    1,
			SubjectID: id,
			Hours:     50 + float64(id),
		})
	}

	ds.Parents = []*models.Parent{
		FixtureParent(),
		FixtureFemaleParent(func(p *models.Parent) {
			p.ParentID = 1
			p.LastName = "Bello"
			p.IncomeLevel = 8
			p.Occupation = "Banker"
		}),
	}
	ds.Students = []*models.Student{
		FixtureStudent(),
		FixtureStudent(func(s *models.Student) {
			s.StudentID = 1
			s.ParentID = 1
			s.FirstName = "Chike"
			s.LastName = "Bello"
			s.Gender = models.GenderMale
			s.Course = models.CourseArt
		}),
	}

	for _, s := range ds.Students {
		for _, subjectID := range s.Subjects {
			for i, at := range models.AssessmentTypes {
				ds.Assessments = append(ds.Assessments, &models.Assessment{
					StudentID:      s.StudentID,
					ClassID:        s.ClassID,
					TermID:         1,
					SubjectID:      subjectID,
					AssessmentType: at,
					Score:          float64(50 + i),
				})
			}
		}
	}

	return ds
}

// FixtureCatalog returns a small name catalog.
func FixtureCatalog(t *testing.T) *names.Catalog {
	t.Helper()

	c, err := names.NewCatalog(
		[]string{"Chike", "Emeka", "Tunde"},
		[]string{"Ada", "Ngozi"},
		map[string][]string{
			"igbo":   {"Okafor", "Eze"},
			"yoruba": {"Bello", "Adeyemi"},
			"hausa":  {"Sani"},
		},
	)
	if err != nil {
		t.Fatalf("failed to build fixture catalog: %v", err)
	}
	return c
}
