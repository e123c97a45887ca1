package models

// SubjectCategory groups subjects by the track that requires them.
type SubjectCategory string

const (
	SubjectGeneral  SubjectCategory = "general"
	SubjectScience  SubjectCategory = "science"
	SubjectArt      SubjectCategory = "art"
	SubjectElective SubjectCategory = "elective"
)

// Subject is a taught subject.
type Subject struct {
	SubjectID int             `json:"id" validate:"gte=1"`
	Name      string          `json:"subject_name" validate:"required"`
	Category  SubjectCategory `json:"category" validate:"oneof=general science art elective"`
}

// Validate checks the subject's fields.
func (s *Subject) Validate() error {
	return validate.Struct(s)
}

// Row returns the subject as a store record.
func (s *Subject) Row() map[string]any {
	return map[string]any{
		"id":           s.SubjectID,
		"subject_name": s.Name,
		"category":     string(s.Category),
	}
}

// Class is a year group such as JSS1 or SS3.
type Class struct {
	ClassID int    `json:"class_id" validate:"gte=1"`
	Name    string `json:"name" validate:"required"`
}

// Row returns the class as a store record.
func (c *Class) Row() map[string]any {
	return map[string]any{"class_id": c.ClassID, "name": c.Name}
}

// Term is an academic term.
type Term struct {
	TermID int    `json:"term_id" validate:"gte=1"`
	Name   string `json:"name" validate:"required"`
}

// Row returns the term as a store record.
func (t *Term) Row() map[string]any {
	return map[string]any{"term_id": t.TermID, "name": t.Name}
}

// Teacher is a generated member of staff; each teaches one subject.
type Teacher struct {
	Person
	TeacherID         int `json:"teacher_id" validate:"gte=1"`
	SubjectID         int `json:"subject_id" validate:"gte=1"`
	YearsOfExperience int `json:"years_of_experience" validate:"gte=0"`
}

// Validate checks the teacher's fields.
func (t *Teacher) Validate() error {
	return validate.Struct(t)
}

// Row returns the teacher as a store record.
func (t *Teacher) Row() map[string]any {
	row := t.Person.row()
	row["teacher_id"] = t.TeacherID
	row["subject_id"] = t.SubjectID
	row["years_of_experience"] = t.YearsOfExperience
	return row
}
