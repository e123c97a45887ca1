// Package synth generates the synthetic school dataset: birth dates, parent
// metadata, subject loads, assessment scores and the full generation pass
// that ties them together.
package synth

import (
	"fmt"
	"math/rand"
	"time"
)

// DOBGenerator draws dates of birth inside an age band.
type DOBGenerator struct {
	rng *rand.Rand
}

// NewDOBGenerator creates a DOBGenerator drawing from rng.
func NewDOBGenerator(rng *rand.Rand) *DOBGenerator {
	return &DOBGenerator{rng: rng}
}

// RandomDOB returns a date whose year is uniform in
// [asOf-maxAge, asOf-minAge]. Month is uniform in [1,12] and day in [1,28],
// so every result is a valid date in every month.
func (d *DOBGenerator) RandomDOB(minAge, maxAge, asOf int) (time.Time, error) {
	if minAge < 0 || maxAge < 0 {
		return time.Time{}, fmt.Errorf("age band [%d,%d] must not be negative", minAge, maxAge)
	}
	if minAge > maxAge {
		return time.Time{}, fmt.Errorf("age band [%d,%d] is inverted", minAge, maxAge)
	}

	minYear := asOf - maxAge
	year := minYear + d.rng.Intn(maxAge-minAge+1)
	month := time.Month(1 + d.rng.Intn(12))
	day := 1 + d.rng.Intn(28)

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), nil
}

