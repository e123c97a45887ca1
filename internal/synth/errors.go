package synth

import (
	"fmt"

	"github.com/schoolsynth/schoolsynth/internal/models"
)

// InvalidAssessmentTypeError reports a score request for an unknown
// assessment type.
type InvalidAssessmentTypeError struct {
	Type models.AssessmentType
}

func (e *InvalidAssessmentTypeError) Error() string {
	return fmt.Sprintf("invalid assessment type %q", string(e.Type))
}

// InsufficientElectivesError reports an elective pool too small to bring a
// student up to the full subject load.
type InsufficientElectivesError struct {
	Course    models.Course
	Needed    int
	Available int
}

func (e *InsufficientElectivesError) Error() string {
	return fmt.Sprintf("%s track needs %d electives but the pool offers %d",
		e.Course, e.Needed, e.Available)
}
