// Package names loads first and last name lists and turns them into
// unique person identities.
package names

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"unicode"

	"github.com/schoolsynth/schoolsynth/internal/dataset"
	"github.com/schoolsynth/schoolsynth/internal/models"
)

//go:embed data/male.txt data/female.txt data/ethnic_names.json
var defaultData embed.FS

// Names of the backing lists, used in MissingDataError.
const (
	ListMale      = "male"
	ListFemale    = "female"
	ListLastNames = "ethnic_last_names"
)

// CatalogPaths locates the files backing a Catalog.
type CatalogPaths struct {
	Male      string
	Female    string
	LastNames string
}

// Catalog holds gendered first names and last names grouped by ethnic
// group. It is immutable once built; accessors return copies.
type Catalog struct {
	male      []string
	female    []string
	lastNames map[string][]string
	groups    []string
}

// GenderedName is a first name with its gender tag.
type GenderedName struct {
	Name   string
	Gender models.Gender
}

// NewCatalog validates the lists and builds a Catalog.
func NewCatalog(male, female []string, lastNames map[string][]string) (*Catalog, error) {
	if err := checkList(ListMale, male); err != nil {
		return nil, err
	}
	if err := checkList(ListFemale, female); err != nil {
		return nil, err
	}
	if err := checkDistinct(male, female); err != nil {
		return nil, err
	}
	if len(lastNames) == 0 {
		return nil, &MissingDataError{List: ListLastNames}
	}

	c := &Catalog{
		male:      append([]string(nil), male...),
		female:    append([]string(nil), female...),
		lastNames: make(map[string][]string, len(lastNames)),
	}
	for group, list := range lastNames {
		if err := checkList(ListLastNames+"."+group, list); err != nil {
			return nil, err
		}
		c.lastNames[group] = append([]string(nil), list...)
		c.groups = append(c.groups, group)
	}
	sort.Strings(c.groups)

	return c, nil
}

// LoadCatalog reads the name lists from disk. Loading unchanged files
// always yields an equal catalog.
func LoadCatalog(paths CatalogPaths) (*Catalog, error) {
	male, err := dataset.ReadLines(paths.Male)
	if err != nil {
		return nil, fmt.Errorf("loading male names: %w", err)
	}
	female, err := dataset.ReadLines(paths.Female)
	if err != nil {
		return nil, fmt.Errorf("loading female names: %w", err)
	}

	var lastNames map[string][]string
	if err := dataset.LoadJSON(paths.LastNames, &lastNames); err != nil {
		return nil, fmt.Errorf("loading last names: %w", err)
	}

	return NewCatalog(male, female, lastNames)
}

// LoadDefaultCatalog loads the name lists compiled into the binary.
func LoadDefaultCatalog() (*Catalog, error) {
	male, err := readEmbeddedLines("data/male.txt")
	if err != nil {
		return nil, err
	}
	female, err := readEmbeddedLines("data/female.txt")
	if err != nil {
		return nil, err
	}

	raw, err := defaultData.ReadFile("data/ethnic_names.json")
	if err != nil {
		return nil, fmt.Errorf("reading embedded last names: %w", err)
	}
	var lastNames map[string][]string
	if err := json.Unmarshal(raw, &lastNames); err != nil {
		return nil, fmt.Errorf("parsing embedded last names: %w", err)
	}

	return NewCatalog(male, female, lastNames)
}

// WriteDefaultCatalog copies the compiled-in name lists to paths, so they
// can be edited or refreshed.
func WriteDefaultCatalog(paths CatalogPaths) error {
	c, err := LoadDefaultCatalog()
	if err != nil {
		return err
	}
	if err := dataset.WriteLines(paths.Male, c.male); err != nil {
		return err
	}
	if err := dataset.WriteLines(paths.Female, c.female); err != nil {
		return err
	}
	return dataset.SaveJSON(paths.LastNames, c.lastNames)
}

func readEmbeddedLines(name string) ([]string, error) {
	raw, err := defaultData.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("reading embedded %s: %w", name, err)
	}
	return dataset.ParseLines(bytes.NewReader(raw))
}

func checkList(list string, names []string) error {
	if len(names) == 0 {
		return &MissingDataError{List: list}
	}
	for i, n := range names {
		if !IsAlphabetic(n) {
			return &MissingDataError{List: list, Reason: fmt.Sprintf("entry %d (%q) is not alphabetic", i, n)}
		}
	}
	return nil
}

// checkDistinct rejects a first name listed twice, within one list or
// across both. A person is identified by first and last name only, so a
// repeated first name would yield repeated people.
func checkDistinct(male, female []string) error {
	seen := make(map[string]string, len(male)+len(female))
	for _, l := range []struct {
		list  string
		names []string
	}{{ListMale, male}, {ListFemale, female}} {
		for _, n := range l.names {
			if prev, ok := seen[n]; ok {
				return &MissingDataError{List: l.list, Reason: fmt.Sprintf("duplicate first name %q (already in %s)", n, prev)}
			}
			seen[n] = l.list
		}
	}
	return nil
}

// IsAlphabetic reports whether s is non-empty and made only of letters.
func IsAlphabetic(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Male returns the male first names.
func (c *Catalog) Male() []string {
	return append([]string(nil), c.male...)
}

// Female returns the female first names.
func (c *Catalog) Female() []string {
	return append([]string(nil), c.female...)
}

// Groups returns the ethnic group names in sorted order.
func (c *Catalog) Groups() []string {
	return append([]string(nil), c.groups...)
}

// LastNames returns the last names of one group.
func (c *Catalog) LastNames(group string) []string {
	return append([]string(nil), c.lastNames[group]...)
}

// AllLastNames returns every group's last names, groups in sorted order,
// with duplicates across groups removed (first occurrence kept).
func (c *Catalog) AllLastNames() []string {
	seen := make(map[string]bool)
	var all []string
	for _, g := range c.groups {
		for _, n := range c.lastNames[g] {
			if seen[n] {
				continue
			}
			seen[n] = true
			all = append(all, n)
		}
	}
	return all
}

// FirstNames returns the male names followed by the female names, each
// tagged with its gender.
func (c *Catalog) FirstNames() []GenderedName {
	out := make([]GenderedName, 0, len(c.male)+len(c.female))
	for _, n := range c.male {
		out = append(out, GenderedName{Name: n, Gender: models.GenderMale})
	}
	for _, n := range c.female {
		out = append(out, GenderedName{Name: n, Gender: models.GenderFemale})
	}
	return out
}

// ForGender returns the first names of one gender.
func (c *Catalog) ForGender(g models.Gender) []string {
	switch g {
	case models.GenderMale:
		return c.Male()
	case models.GenderFemale:
		return c.Female()
	default:
		return nil
	}
}
