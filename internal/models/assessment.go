package models

// Bounds on a time allocation's teaching-time percentage.
const (
	MinTeachingPct = 10.0
	MaxTeachingPct = 110.0
)

// AssessmentType is a category of scored work.
type AssessmentType string

const (
	AssessmentTest      AssessmentType = "test"
	AssessmentHomework  AssessmentType = "homework"
	AssessmentExam      AssessmentType = "exam"
	AssessmentClassTest AssessmentType = "class_test"
)

// AssessmentTypes lists every assessment type in a stable order.
var AssessmentTypes = []AssessmentType{
	AssessmentTest,
	AssessmentHomework,
	AssessmentExam,
	AssessmentClassTest,
}

// Valid returns true if the assessment type is known.
func (a AssessmentType) Valid() bool {
	switch a {
	case AssessmentTest, AssessmentHomework, AssessmentExam, AssessmentClassTest:
		return true
	default:
		return false
	}
}

// TimeAllocation is the share of teaching time a teacher gives a subject
// in one class and term. Hours is a percentage, not wall-clock hours.
type TimeAllocation struct {
	TeacherID int     `json:"teacher_id" validate:"gte=1"`
	ClassID   int     `json:"class_id" validate:"gte=1"`
	TermID    int     `json:"term_id" validate:"gte=1"`
	SubjectID int     `json:"subject_id" validate:"gte=1"`
	Hours     float64 `json:"hours" validate:"gte=10,lte=110"`
}

// Validate checks the allocation's fields.
func (t *TimeAllocation) Validate() error {
	return validate.Struct(t)
}

// Row returns the allocation as a store record.
func (t *TimeAllocation) Row() map[string]any {
	return map[string]any{
		"teacher_id": t.TeacherID,
		"class_id":   t.ClassID,
		"term_id":    t.TermID,
		"subject_id": t.SubjectID,
		"hours":      t.Hours,
	}
}

// Assessment is one scored piece of work for a student.
type Assessment struct {
	StudentID      int            `json:"student_id" validate:"gte=0"`
	ClassID        int            `json:"class_id" validate:"gte=1"`
	TermID         int            `json:"term_id" validate:"gte=1"`
	SubjectID      int            `json:"subject_id" validate:"gte=1"`
	AssessmentType AssessmentType `json:"assessment_type" validate:"oneof=test homework exam class_test"`
	Score          float64        `json:"score" validate:"gte=0,lte=100"`
}

// Validate checks the assessment's fields.
func (a *Assessment) Validate() error {
	return validate.Struct(a)
}

// Row returns the assessment as a store record.
func (a *Assessment) Row() map[string]any {
	return map[string]any{
		"student_id":      a.StudentID,
		"class_id":        a.ClassID,
		"term_id":         a.TermID,
		"subject_id":      a.SubjectID,
		"assessment_type": string(a.AssessmentType),
		"score":           a.Score,
	}
}
