package names

import (
	"fmt"

	"github.com/schoolsynth/schoolsynth/internal/models"
)

// Cursors hands out first names in list order, one independent position
// per gender. A position wraps to the start once it reaches the end of its
// list. State lives in the value; use one Cursors per run.
type Cursors struct {
	male   []string
	female []string
	m, f   int
}

// NewCursors creates cursors over the catalog's first-name lists.
func NewCursors(c *Catalog) *Cursors {
	return &Cursors{
		male:   c.ForGender(models.GenderMale),
		female: c.ForGender(models.GenderFemale),
	}
}

// Next returns the next first name for the gender and advances its cursor.
func (c *Cursors) Next(g models.Gender) (string, error) {
	switch g {
	case models.GenderMale:
		return next(c.male, &c.m, ListMale)
	case models.GenderFemale:
		return next(c.female, &c.f, ListFemale)
	default:
		return "", fmt.Errorf("no first-name cursor for gender %q", g)
	}
}

// Positions returns the current male and female cursor positions.
func (c *Cursors) Positions() (male, female int) {
	return c.m, c.f
}

func next(list []string, pos *int, name string) (string, error) {
	if len(list) == 0 {
		return "", &MissingDataError{List: name}
	}
	if *pos >= len(list) {
		*pos = 0
	}
	n := list[*pos]
	*pos++
	if *pos >= len(list) {
		*pos = 0
	}
	return n, nil
}
