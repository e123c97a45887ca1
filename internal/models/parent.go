package models

import "fmt"

// Relationship labels a parent's relation to the student.
type Relationship string

const (
	RelationshipFather Relationship = "father"
	RelationshipNephew Relationship = "nephew"
	RelationshipUncle  Relationship = "uncle"
	RelationshipMother Relationship = "mother"
	RelationshipNiece  Relationship = "niece"
	RelationshipAunt   Relationship = "aunt"
)

// RelationshipsFor returns the relationship labels consistent with a gender.
func RelationshipsFor(g Gender) []Relationship {
	switch g {
	case GenderMale:
		return []Relationship{RelationshipFather, RelationshipNephew, RelationshipUncle}
	case GenderFemale:
		return []Relationship{RelationshipMother, RelationshipNiece, RelationshipAunt}
	default:
		return nil
	}
}

// Occupation is one entry of the occupation lookup table.
type Occupation struct {
	Name        string `json:"occupation"`
	IncomeLevel int    `json:"income_level"`
}

// Parent is a guardian generated for a student.
type Parent struct {
	Person
	ParentID     int          `json:"parent_id" validate:"gte=0"`
	Relationship Relationship `json:"relationship" validate:"required"`
	Occupation   string       `json:"occupation" validate:"required"`
	IncomeLevel  int          `json:"income_level" validate:"gte=1"`
}

// Validate checks the parent's fields, including gender/relationship agreement.
func (p *Parent) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}
	for _, r := range RelationshipsFor(p.Gender) {
		if r == p.Relationship {
			return nil
		}
	}
	return fmt.Errorf("relationship %q does not match gender %q", p.Relationship, p.Gender)
}

// Row returns the parent as a store record.
func (p *Parent) Row() map[string]any {
	row := p.Person.row()
	row["parent_id"] = p.ParentID
	row["relationship"] = string(p.Relationship)
	row["occupation"] = p.Occupation
	row["income_level"] = p.IncomeLevel
	return row
}
