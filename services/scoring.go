// services/scoring.go - Effort Score (RR) Calculator
//
// Pure functions only: score depends on (kind, activity type, metrics,
// member age) and nothing else. Activity behavior is table-driven so a
// new activity type is a new table entry, not new control flow.
package services

import (
	"math"
	"time"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/models"
)

// MaxRR caps every computed effort score.
const MaxRR = 2.0

// MinAcceptedRR gates workout submissions: anything below is refused
// synchronously before persistence.
const MinAcceptedRR = 1.0

// Metrics are the raw numbers attached to one entry. All optional;
// which ones matter depends on the activity type.
type Metrics struct {
	DurationMinutes *int
	DistanceKM      *float64
	Steps           *int
	Holes           *int
}

// ageThresholds hold the age-adjusted targets used by step- and
// duration-based formulas.
type ageThresholds struct {
	stepLow          float64
	stepHigh         float64
	durationBaseline float64
}

func thresholdsForAge(age int) ageThresholds {
	switch {
	case age > 75:
		return ageThresholds{stepLow: 3000, stepHigh: 6000, durationBaseline: 30}
	case age > 65:
		return ageThresholds{stepLow: 5000, stepHigh: 10000, durationBaseline: 30}
	default:
		return ageThresholds{stepLow: 10000, stepHigh: 20000, durationBaseline: 45}
	}
}

// AgeOn returns the calendar age at the given date, adjusted when the
// birthday has not yet been reached that year.
func AgeOn(dob time.Time, on time.Time) int {
	age := on.Year() - dob.Year()
	if on.Month() < dob.Month() || (on.Month() == dob.Month() && on.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		age = 0
	}
	return age
}

// measurement is one activity type's scoring behavior. formulas lists
// every way the activity can qualify; the strongest applicable metric
// wins. An unmeasured activity always scores the neutral 1.0.
type measurement struct {
	unmeasured bool
	formulas   []formula
}

type formula func(m Metrics, t ageThresholds) (float64, bool)

func durationFormula(m Metrics, t ageThresholds) (float64, bool) {
	if m.DurationMinutes == nil {
		return 0, false
	}
	return float64(*m.DurationMinutes) / t.durationBaseline, true
}

func distanceFormula(perKM float64) formula {
	return func(m Metrics, _ ageThresholds) (float64, bool) {
		if m.DistanceKM == nil {
			return 0, false
		}
		return *m.DistanceKM / perKM, true
	}
}

func stepFormula(m Metrics, t ageThresholds) (float64, bool) {
	if m.Steps == nil {
		return 0, false
	}
	steps := float64(*m.Steps)
	if steps < t.stepLow {
		return 0, true
	}
	capped := math.Min(steps, t.stepHigh)
	return 1 + (capped-t.stepLow)/(t.stepHigh-t.stepLow), true
}

func golfFormula(m Metrics, _ ageThresholds) (float64, bool) {
	if m.Holes == nil {
		return 0, false
	}
	return float64(*m.Holes) / 9, true
}

// measurements is the activity dispatch table. Activities not listed
// fall back to the plain duration formula.
var measurements = map[string]measurement{
	"steps":   {formulas: []formula{stepFormula}},
	"golf":    {formulas: []formula{golfFormula}},
	"run":     {formulas: []formula{durationFormula, distanceFormula(4)}},
	"cardio":  {formulas: []formula{durationFormula, distanceFormula(4)}},
	"cycling": {formulas: []formula{durationFormula, distanceFormula(10)}},

	// No quantitative tracking for these; they pass at the neutral RR.
	"stretching": {unmeasured: true},
	"meditation": {unmeasured: true},
}

var defaultMeasurement = measurement{formulas: []formula{durationFormula}}

// ComputeRR computes the normalized effort score for one entry.
// Rest days always score exactly 1.0. Workout scores are clamped to
// [0, MaxRR]; an entry with no usable metric passes at 1.0.
func ComputeRR(kind models.EntryKind, activityType string, m Metrics, age int) float64 {
	if kind == models.EntryKindRest {
		return 1.0
	}

	meas, ok := measurements[activityType]
	if !ok {
		meas = defaultMeasurement
	}
	if meas.unmeasured {
		return 1.0
	}

	t := thresholdsForAge(age)
	best := 0.0
	applicable := false
	for _, f := range meas.formulas {
		score, ok := f(m, t)
		if !ok {
			continue
		}
		applicable = true
		if score > best {
			best = score
		}
	}
	if !applicable {
		return 1.0
	}
	return clampRR(best)
}

// PreviewRR evaluates every formula in the table against the supplied
// metrics and returns the best achievable score. Used by the client
// preview so a member can qualify via whichever metric is strongest.
func PreviewRR(m Metrics, age int) float64 {
	t := thresholdsForAge(age)
	best := 0.0
	applicable := false
	evaluate := func(f formula) {
		if score, ok := f(m, t); ok {
			applicable = true
			if score > best {
				best = score
			}
		}
	}
	for _, meas := range measurements {
		for _, f := range meas.formulas {
			evaluate(f)
		}
	}
	for _, f := range defaultMeasurement.formulas {
		evaluate(f)
	}
	if !applicable {
		return 1.0
	}
	return clampRR(best)
}

func clampRR(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > MaxRR {
		return MaxRR
	}
	return score
}
