package names

import (
	"errors"
	"math/rand"

	"github.com/schoolsynth/schoolsynth/internal/models"
)

// Assigner pairs first names with last names to produce unique people.
type Assigner struct {
	rng *rand.Rand
}

// NewAssigner creates an Assigner drawing from rng.
func NewAssigner(rng *rand.Rand) *Assigner {
	return &Assigner{rng: rng}
}

type combination struct {
	first GenderedName
	last  string
}

// Generate returns count people built from the first x last product.
//
// The product is shuffled once. A first pass walks it in order and takes a
// combination only if its last name is still unused. If that runs out
// before count, a second pass takes the earliest combinations of the same
// shuffled order that were not already taken, so the repeated last names
// are always the head of the shuffle. No (first, last) pair is produced
// twice. Repeated first or last names in the input count once; the first
// occurrence wins. Output is in selection order. Dates of birth are left
// unset.
func (a *Assigner) Generate(count int, firstNames []GenderedName, lastNames []string) ([]models.Person, error) {
	if count < 0 {
		return nil, errors.New("count must be non-negative")
	}

	firstNames = distinct(firstNames, func(f GenderedName) string { return f.Name })
	lastNames = distinct(lastNames, func(l string) string { return l })

	total := len(firstNames) * len(lastNames)
	if count > total {
		return nil, &InsufficientCombinationsError{Requested: count, Available: total}
	}
	if count == 0 {
		return []models.Person{}, nil
	}

	combos := make([]combination, 0, total)
	for _, f := range firstNames {
		for _, l := range lastNames {
			combos = append(combos, combination{first: f, last: l})
		}
	}
	a.rng.Shuffle(len(combos), func(i, j int) {
		combos[i], combos[j] = combos[j], combos[i]
	})

	people := make([]models.Person, 0, count)
	taken := make([]bool, len(combos))
	usedLast := make(map[string]bool, len(lastNames))

	for i, c := range combos {
		if len(people) >= count {
			break
		}
		if usedLast[c.last] {
			continue
		}
		usedLast[c.last] = true
		taken[i] = true
		people = append(people, c.person())
	}

	for i, c := range combos {
		if len(people) >= count {
			break
		}
		if taken[i] {
			continue
		}
		taken[i] = true
		people = append(people, c.person())
	}

	return people, nil
}

func distinct[T any](in []T, key func(T) string) []T {
	seen := make(map[string]bool, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		k := key(v)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, v)
	}
	return out
}

func (c combination) person() models.Person {
	return models.Person{
		FirstName: c.first.Name,
		LastName:  c.last,
		Gender:    c.first.Gender,
	}
}
