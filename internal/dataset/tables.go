package dataset

import (
	"fmt"
	"strconv"

	"github.com/schoolsynth/schoolsynth/internal/models"
)

// Table names shared by the file writers, the loader and the store schema.
const (
	TableSubjects        = "subjects"
	TableClasses         = "classes"
	TableTerms           = "terms"
	TableTeachers        = "teachers"
	TableParents         = "parents"
	TableStudents        = "students"
	TableStudentSubjects = "student_subjects"
	TableTimeAllocations = "time_allocations"
	TableAssessments     = "assessments"
)

var personColumns = []string{"first_name", "last_name", "gender", "date_of_birth"}

// Columns lists each table's columns in output order.
var Columns = map[string][]string{
	TableSubjects:        {"id", "subject_name", "category"},
	TableClasses:         {"class_id", "name"},
	TableTerms:           {"term_id", "name"},
	TableTeachers:        append([]string{"teacher_id"}, append(personColumns, "subject_id", "years_of_experience")...),
	TableParents:         append([]string{"parent_id"}, append(personColumns, "relationship", "occupation", "income_level")...),
	TableStudents:        append([]string{"student_id"}, append(personColumns, "parent_id", "class_id", "course")...),
	TableStudentSubjects: {"student_id", "subject_id"},
	TableTimeAllocations: {"teacher_id", "class_id", "term_id", "subject_id", "hours"},
	TableAssessments:     {"student_id", "class_id", "term_id", "subject_id", "assessment_type", "score"},
}

// PrimaryKeys names the column that identifies a row, for stores that key
// rows individually. Tables absent here are keyed by row position.
var PrimaryKeys = map[string]string{
	TableSubjects: "id",
	TableClasses:  "class_id",
	TableTerms:    "term_id",
	TableTeachers: "teacher_id",
	TableParents:  "parent_id",
	TableStudents: "student_id",
}

// Table is a named, column-ordered set of rows.
type Table struct {
	Name    string
	Columns []string
	Rows    []map[string]any
}

// Tables flattens a dataset into tables in foreign-key order: every table
// appears after the tables it references.
func Tables(ds *models.Dataset) []*Table {
	subjects := newTable(TableSubjects, len(ds.Subjects))
	for _, s := range ds.Subjects {
		subjects.Rows = append(subjects.Rows, s.Row())
	}

	classes := newTable(TableClasses, len(ds.Classes))
	for _, c := range ds.Classes {
		classes.Rows = append(classes.Rows, c.Row())
	}

	terms := newTable(TableTerms, len(ds.Terms))
	for _, t := range ds.Terms {
		terms.Rows = append(terms.Rows, t.Row())
	}

	teachers := newTable(TableTeachers, len(ds.Teachers))
	for _, t := range ds.Teachers {
		teachers.Rows = append(teachers.Rows, t.Row())
	}

	parents := newTable(TableParents, len(ds.Parents))
	for _, p := range ds.Parents {
		parents.Rows = append(parents.Rows, p.Row())
	}

	students := newTable(TableStudents, len(ds.Students))
	studentSubjects := newTable(TableStudentSubjects, len(ds.Students)*models.SubjectLoad)
	for _, s := range ds.Students {
		students.Rows = append(students.Rows, s.Row())
		studentSubjects.Rows = append(studentSubjects.Rows, s.SubjectRows()...)
	}

	allocations := newTable(TableTimeAllocations, len(ds.TimeAllocations))
	for _, a := range ds.TimeAllocations {
		allocations.Rows = append(allocations.Rows, a.Row())
	}

	assessments := newTable(TableAssessments, len(ds.Assessments))
	for _, a := range ds.Assessments {
		assessments.Rows = append(assessments.Rows, a.Row())
	}

	return []*Table{
		subjects, classes, terms, teachers, parents,
		students, studentSubjects, allocations, assessments,
	}
}

func newTable(name string, capacity int) *Table {
	return &Table{
		Name:    name,
		Columns: Columns[name],
		Rows:    make([]map[string]any, 0, capacity),
	}
}

// RowCount returns the total number of rows across tables.
func RowCount(tables []*Table) int {
	n := 0
	for _, t := range tables {
		n += len(t.Rows)
	}
	return n
}

// formatValue renders a cell for text formats.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
