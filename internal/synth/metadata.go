package synth

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/schoolsynth/schoolsynth/internal/models"
)

// ParentMetadata is the relationship and occupation attached to a parent.
type ParentMetadata struct {
	Relationship models.Relationship
	Occupation   string
	IncomeLevel  int
}

// Enricher draws parent metadata. Relationship follows the parent's gender;
// occupation and income come together from one occupation table entry.
type Enricher struct {
	rng         *rand.Rand
	occupations []models.Occupation
	maxIncome   int
}

// NewEnricher creates an Enricher over the given occupation table.
func NewEnricher(rng *rand.Rand, occupations []models.Occupation) (*Enricher, error) {
	if len(occupations) == 0 {
		return nil, errors.New("occupation table is empty")
	}

	maxIncome := 0
	for _, o := range occupations {
		if o.IncomeLevel < 1 {
			return nil, fmt.Errorf("occupation %q has income level %d, want at least 1", o.Name, o.IncomeLevel)
		}
		if o.IncomeLevel > maxIncome {
			maxIncome = o.IncomeLevel
		}
	}

	return &Enricher{
		rng:         rng,
		occupations: append([]models.Occupation(nil), occupations...),
		maxIncome:   maxIncome,
	}, nil
}

// Enrich returns metadata for a parent of the given gender.
func (e *Enricher) Enrich(g models.Gender) (ParentMetadata, error) {
	rels := models.RelationshipsFor(g)
	if len(rels) == 0 {
		return ParentMetadata{}, fmt.Errorf("no relationships for gender %q", g)
	}

	occ := e.occupations[e.rng.Intn(len(e.occupations))]
	return ParentMetadata{
		Relationship: rels[e.rng.Intn(len(rels))],
		Occupation:   occ.Name,
		IncomeLevel:  occ.IncomeLevel,
	}, nil
}

// MaxIncomeLevel returns the highest income level in the occupation table.
func (e *Enricher) MaxIncomeLevel() int {
	return e.maxIncome
}

// Apply copies the metadata onto a parent.
func (m ParentMetadata) Apply(p *models.Parent) {
	p.Relationship = m.Relationship
	p.Occupation = m.Occupation
	p.IncomeLevel = m.IncomeLevel
}
