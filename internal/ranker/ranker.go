// Package ranker implements the multi-factor relevance score combining
// vector distance with recency, importance, usage, and confidence
// (spec.md §4.8). The Ranker is scope-free: project/global scope boosts
// are applied by the caller (MemoryEngine.recall), not here, so the
// formula stays independently unit-testable.
package ranker

import "math"

// Input is everything the score formula needs for one memory row.
type Input struct {
	Distance     float64
	AgeDays      float64
	Importance   int
	AccessCount  int
	Confidence   float64
	BoostRecency bool
	HalfLifeDays float64
}

// Score computes the scalar relevance score for in (spec.md §4.8):
//
//	similarity = 1 / (1 + d)
//	recency    = 0.7 + 0.3 * exp(-age_days / half_life_days)   [if boost_recency, else 1]
//	importance = 0.5 + 0.1 * clamp(importance, 1, 5)           [yields 0.6..1.0]
//	usage      = 1 + 0.05 * min(access_count, 10)              [yields 1.0..1.5]
//	score      = similarity * recency * importance * usage * confidence
func Score(in Input) float64 {
	similarity := 1 / (1 + in.Distance)

	recency := 1.0
	if in.BoostRecency {
		halfLife := in.HalfLifeDays
		if halfLife <= 0 {
			halfLife = 1
		}
		recency = 0.7 + 0.3*math.Exp(-in.AgeDays/halfLife)
	}

	clampedImportance := clamp(float64(in.Importance), 1, 5)
	importance := 0.5 + 0.1*clampedImportance

	usage := 1 + 0.05*math.Min(float64(in.AccessCount), 10)

	return similarity * recency * importance * usage * in.Confidence
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Scope boost multipliers applied by MemoryEngine.recall outside the
// Ranker (spec.md §4.7).
const (
	ProjectMatchBoost          = 1.3
	GlobalPreferenceInProject  = 1.1
)
