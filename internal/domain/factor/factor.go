// Package factor defines the explainability unit shared by every decision
// engine: a named, weighted contribution with a human-readable rationale.
//
// Engines accumulate factors through a Builder and finalize them into a
// normalized weighted-average score. Keeping the normalization in one place
// localizes the weighted_sum/total_weight invariant.
package factor

import "math"

// Factor is the smallest explainability unit. Every decision the service
// produces is traceable to an ordered list of these.
type Factor struct {
	Name        string  `json:"name"`
	Weight      float64 `json:"weight"` // [0, 1]
	Value       float64 `json:"value"`  // [0, 1]
	Description string  `json:"description"`
}

// Builder accumulates weighted factor contributions for a single decision.
// The zero value is not usable; construct with NewBuilder.
type Builder struct {
	factors     []Factor
	weightedSum float64
	totalWeight float64
}

// NewBuilder returns an empty factor accumulator.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add records a named, weighted contribution. Descriptions are required for
// audit; an empty description falls back to the factor name so the non-empty
// invariant holds for every factor ever produced.
func (b *Builder) Add(name string, weight, value float64, description string) *Builder {
	if description == "" {
		description = name
	}
	b.factors = append(b.factors, Factor{
		Name:        name,
		Weight:      weight,
		Value:       value,
		Description: description,
	})
	b.weightedSum += weight * value
	b.totalWeight += weight
	return b
}

// Annotate records a factor that explains a decision without contributing to
// the weighted average (e.g. timing rationale on an NBA result).
func (b *Builder) Annotate(name string, weight, value float64, description string) *Builder {
	if description == "" {
		description = name
	}
	b.factors = append(b.factors, Factor{
		Name:        name,
		Weight:      weight,
		Value:       value,
		Description: description,
	})
	return b
}

// Factors returns the accumulated factors in insertion order.
func (b *Builder) Factors() []Factor {
	return b.factors
}

// Score finalizes the accumulation into a 0-100 score: weighted sum divided by
// the total weight actually applied, clamped and rounded to one decimal.
// Weights for a single decision need not sum to 1.
func (b *Builder) Score() float64 {
	if b.totalWeight == 0 {
		return 0
	}
	return Round1(Clamp(b.weightedSum/b.totalWeight*100, 0, 100))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
