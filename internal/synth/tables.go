package synth

import "github.com/schoolsynth/schoolsynth/internal/models"

// SubjectSpec is one entry of the subject table before ids are assigned.
type SubjectSpec struct {
	Name     string
	Category models.SubjectCategory
}

// SubjectTable lists every subject offered. General subjects are taken by
// both tracks; science and art subjects belong to their track only.
var SubjectTable = []SubjectSpec{
	{"English Language", models.SubjectGeneral},
	{"Mathematics", models.SubjectGeneral},
	{"Civic Education", models.SubjectGeneral},
	{"Computer Studies", models.SubjectGeneral},

	{"Physics", models.SubjectScience},
	{"Chemistry", models.SubjectScience},
	{"Biology", models.SubjectScience},

	{"Literature in English", models.SubjectArt},
	{"Government", models.SubjectArt},
	{"History", models.SubjectArt},

	{"Agricultural Science", models.SubjectElective},
	{"Economics", models.SubjectElective},
	{"Geography", models.SubjectElective},
	{"Further Mathematics", models.SubjectElective},
	{"Christian Religious Studies", models.SubjectElective},
	{"Islamic Religious Studies", models.SubjectElective},
	{"Yoruba", models.SubjectElective},
	{"Igbo", models.SubjectElective},
	{"Hausa", models.SubjectElective},
	{"French", models.SubjectElective},
	{"Fine Arts", models.SubjectElective},
	{"Music", models.SubjectElective},
	{"Technical Drawing", models.SubjectElective},
	{"Commerce", models.SubjectElective},
}

// OccupationTable is the lookup table parents draw their occupation and
// income level from.
var OccupationTable = []models.Occupation{
	{Name: "Farmer", IncomeLevel: 1},
	{Name: "Trader", IncomeLevel: 2},
	{Name: "Tailor", IncomeLevel: 2},
	{Name: "Mechanic", IncomeLevel: 2},
	{Name: "Driver", IncomeLevel: 2},
	{Name: "Electrician", IncomeLevel: 3},
	{Name: "Teacher", IncomeLevel: 3},
	{Name: "Nurse", IncomeLevel: 4},
	{Name: "Civil Servant", IncomeLevel: 4},
	{Name: "Police Officer", IncomeLevel: 4},
	{Name: "Accountant", IncomeLevel: 6},
	{Name: "Pharmacist", IncomeLevel: 7},
	{Name: "Lawyer", IncomeLevel: 8},
	{Name: "Engineer", IncomeLevel: 8},
	{Name: "Banker", IncomeLevel: 8},
	{Name: "Doctor", IncomeLevel: 9},
	{Name: "Business Owner", IncomeLevel: 10},
}

// ClassNames are the year groups in order, junior then senior secondary.
var ClassNames = []string{"JSS1", "JSS2", "JSS3", "SS1", "SS2", "SS3"}

// TermNames are the academic terms in order.
var TermNames = []string{"First Term", "Second Term", "Third Term"}

// Teaching experience bounds in years, inclusive.
const (
	MinTeacherExperience = 5
	MaxTeacherExperience = 49
)
