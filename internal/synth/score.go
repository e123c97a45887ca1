package synth

import (
	"math"
	"math/rand"

	"github.com/schoolsynth/schoolsynth/internal/models"
)

// scoreRange is the inclusive base score band of an assessment type.
type scoreRange struct {
	min, max int
}

var baseScores = map[models.AssessmentType]scoreRange{
	models.AssessmentTest:      {40, 70},
	models.AssessmentHomework:  {50, 80},
	models.AssessmentExam:      {50, 90},
	models.AssessmentClassTest: {45, 75},
}

// scoreNoise bounds the uniform noise added to every raw score.
const scoreNoise = 5.0

// Scorer synthesizes assessment scores.
type Scorer struct {
	rng *rand.Rand
}

// NewScorer creates a Scorer drawing from rng.
func NewScorer(rng *rand.Rand) *Scorer {
	return &Scorer{rng: rng}
}

// Score returns a score in [0,100], rounded to two decimals.
//
// The base score is drawn from the assessment type's band, scaled by an
// income factor in [0.8,1.2] and by teachingPct/100, then offset by noise
// in [-5,5] and clamped. maxIncomeLevel must be positive.
func (s *Scorer) Score(incomeLevel, maxIncomeLevel int, teachingPct float64, t models.AssessmentType) (float64, error) {
	if maxIncomeLevel <= 0 {
		panic("synth: maxIncomeLevel must be positive")
	}

	band, ok := baseScores[t]
	if !ok {
		return 0, &InvalidAssessmentTypeError{Type: t}
	}

	incomeInfluence := 0.8 + (float64(incomeLevel)/float64(maxIncomeLevel))*0.4
	hoursInfluence := teachingPct / 100
	base := float64(band.min + s.rng.Intn(band.max-band.min+1))

	raw := base * incomeInfluence * hoursInfluence
	noise := s.rng.Float64()*2*scoreNoise - scoreNoise

	return math.Round(clamp(raw+noise, 0, 100)*100) / 100, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
