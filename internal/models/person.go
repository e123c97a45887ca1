// Package models defines the school record types produced by a generation run.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Gender is the gender tag carried by every generated person.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Valid returns true if the gender is a known value.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// String returns the display string for the gender.
func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	default:
		return "Unknown"
	}
}

// ParseGender parses a stored gender value, case-insensitively.
func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(s)))
	if !g.Valid() {
		return "", fmt.Errorf("invalid gender: %q", s)
	}
	return g, nil
}

// Person is the identity shared by students, parents and teachers.
type Person struct {
	FirstName   string    `json:"first_name" validate:"required,alphaunicode"`
	LastName    string    `json:"last_name" validate:"required,alphaunicode"`
	Gender      Gender    `json:"gender" validate:"oneof=male female"`
	DateOfBirth time.Time `json:"date_of_birth"`
}

// FullName returns "First Last".
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// DOB returns the date of birth as an ISO date, or "" when unset.
func (p Person) DOB() string {
	if p.DateOfBirth.IsZero() {
		return ""
	}
	return p.DateOfBirth.Format(time.DateOnly)
}

// Validate checks the identity fields.
func (p Person) Validate() error {
	return validate.Struct(p)
}

func (p Person) row() map[string]any {
	row := map[string]any{
		"first_name": p.FirstName,
		"last_name":  p.LastName,
		"gender":     string(p.Gender),
	}
	if dob := p.DOB(); dob != "" {
		row["date_of_birth"] = dob
	}
	return row
}
