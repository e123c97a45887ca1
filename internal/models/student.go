package models

import "fmt"

// SubjectLoad is the number of subjects every student takes.
const SubjectLoad = 10

// Course is a student's track.
type Course string

const (
	CourseScience Course = "science"
	CourseArt     Course = "art"
)

// Valid returns true if the course is a known track.
func (c Course) Valid() bool {
	return c == CourseScience || c == CourseArt
}

// Courses lists every track in a stable order.
var Courses = []Course{CourseScience, CourseArt}

// Student is a generated pupil.
type Student struct {
	Person
	StudentID int    `json:"student_id" validate:"gte=0"`
	ParentID  int    `json:"parent_id" validate:"gte=0"`
	ClassID   int    `json:"class_id" validate:"gte=1"`
	Course    Course `json:"course" validate:"oneof=science art"`
	Subjects  []int  `json:"subjects"`
}

// Validate checks the student's fields and subject load.
func (s *Student) Validate() error {
	if err := validate.Struct(s); err != nil {
		return err
	}
	if len(s.Subjects) != SubjectLoad {
		return fmt.Errorf("student %d has %d subjects, want %d", s.StudentID, len(s.Subjects), SubjectLoad)
	}
	seen := make(map[int]bool, len(s.Subjects))
	for _, id := range s.Subjects {
		if seen[id] {
			return fmt.Errorf("student %d has duplicate subject %d", s.StudentID, id)
		}
		seen[id] = true
	}
	return nil
}

// Row returns the student as a store record. Subjects are stored separately
// in the student_subjects table.
func (s *Student) Row() map[string]any {
	row := s.Person.row()
	row["student_id"] = s.StudentID
	row["parent_id"] = s.ParentID
	row["class_id"] = s.ClassID
	row["course"] = string(s.Course)
	return row
}

// SubjectRows returns one student_subjects record per subject.
func (s *Student) SubjectRows() []map[string]any {
	rows := make([]map[string]any, 0, len(s.Subjects))
	for _, id := range s.Subjects {
		rows = append(rows, map[string]any{
			"student_id": s.StudentID,
			"subject_id": id,
		})
	}
	return rows
}
