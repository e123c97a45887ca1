package gormstore

// Row models for AutoMigrate. Records are written as maps through
// Table(name), so these types only describe the schema.

type subjectRow struct {
	ID          int    `gorm:"primaryKey;autoIncrement:false"`
	SubjectName string `gorm:"not null;uniqueIndex"`
	Category    string `gorm:"not null"`
}

func (subjectRow) TableName() string { return "subjects" }

type classRow struct {
	ClassID int    `gorm:"primaryKey;autoIncrement:false"`
	Name    string `gorm:"not null;uniqueIndex"`
}

func (classRow) TableName() string { return "classes" }

type termRow struct {
	TermID int    `gorm:"primaryKey;autoIncrement:false"`
	Name   string `gorm:"not null;uniqueIndex"`
}

func (termRow) TableName() string { return "terms" }

type teacherRow struct {
	TeacherID         int    `gorm:"primaryKey;autoIncrement:false"`
	FirstName         string `gorm:"not null"`
	LastName          string `gorm:"not null"`
	Gender            string `gorm:"not null"`
	DateOfBirth       string
	SubjectID         int `gorm:"not null;index"`
	YearsOfExperience int `gorm:"not null;default:0"`
}

func (teacherRow) TableName() string { return "teachers" }

type parentRow struct {
	ParentID     int    `gorm:"primaryKey;autoIncrement:false"`
	FirstName    string `gorm:"not null"`
	LastName     string `gorm:"not null"`
	Gender       string `gorm:"not null"`
	DateOfBirth  string
	Relationship string `gorm:"not null"`
	Occupation   string `gorm:"not null"`
	IncomeLevel  int    `gorm:"not null"`
}

func (parentRow) TableName() string { return "parents" }

type studentRow struct {
	StudentID   int    `gorm:"primaryKey;autoIncrement:false"`
	FirstName   string `gorm:"not null"`
	LastName    string `gorm:"not null"`
	Gender      string `gorm:"not null"`
	DateOfBirth string
	ParentID    int    `gorm:"not null;index"`
	ClassID     int    `gorm:"not null;index"`
	Course      string `gorm:"not null"`
}

func (studentRow) TableName() string { return "students" }

type studentSubjectRow struct {
	StudentID int `gorm:"primaryKey;autoIncrement:false"`
	SubjectID int `gorm:"primaryKey;autoIncrement:false"`
}

func (studentSubjectRow) TableName() string { return "student_subjects" }

type timeAllocationRow struct {
	ID        uint    `gorm:"primaryKey"`
	TeacherID int     `gorm:"not null"`
	ClassID   int     `gorm:"not null;uniqueIndex:idx_allocation_slot"`
	TermID    int     `gorm:"not null;uniqueIndex:idx_allocation_slot"`
	SubjectID int     `gorm:"not null;uniqueIndex:idx_allocation_slot"`
	Hours     float64 `gorm:"not null"`
}

func (timeAllocationRow) TableName() string { return "time_allocations" }

type assessmentRow struct {
	ID             uint    `gorm:"primaryKey"`
	StudentID      int     `gorm:"not null;index"`
	ClassID        int     `gorm:"not null"`
	TermID         int     `gorm:"not null;index:idx_assessment_subject_term"`
	SubjectID      int     `gorm:"not null;index:idx_assessment_subject_term"`
	AssessmentType string  `gorm:"not null"`
	Score          float64 `gorm:"not null"`
}

func (assessmentRow) TableName() string { return "assessments" }

func schemaModels() []any {
	return []any{
		&subjectRow{},
		&classRow{},
		&termRow{},
		&teacherRow{},
		&parentRow{},
		&studentRow{},
		&studentSubjectRow{},
		&timeAllocationRow{},
		&assessmentRow{},
	}
}
