// Package synth implements the field synthesizer, record assembler and
// dataset generator. Everything here is purely functional over a seeded
// random stream so a dataset is exactly reproducible from (run seed, n).
package synth

import (
	"math"
	"math/rand"

	"github.com/synthlab/synth360/pkg/catalog"
	"github.com/synthlab/synth360/pkg/core"
)

// maxResamples bounds how often an out-of-range draw is retried before the
// value is clamped into its domain.
const maxResamples = 8

// Shape selects the distribution a numeric field is drawn from.
type Shape string

const (
	Uniform            Shape = "uniform"
	NormalClamped      Shape = "normal"
	ExponentialClamped Shape = "exponential"
)

// NumericSpec declares a bounded numeric distribution. Min and Max are hard
// bounds; Mean/StdDev apply to the normal shape and Rate to the exponential.
type NumericSpec struct {
	Shape  Shape
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	Rate   float64
}

// CorrelatedSpec declares a pair of fields sampled jointly. The base field is
// drawn from Base, the dependent field from a linear relation perturbed by
// gaussian noise and clamped to [DepMin, DepMax].
type CorrelatedSpec struct {
	Base      NumericSpec
	Intercept float64
	Slope     float64
	Noise     float64
	DepMin    float64
	DepMax    float64
}

// SampleCategorical draws one value from a weighted catalog table.
func SampleCategorical(t catalog.Table, rng *rand.Rand) (string, error) {
	if len(t.Entries) == 0 {
		return "", &core.ConfigError{Field: t.Name, Message: "distribution table is empty"}
	}
	total := t.TotalWeight()
	if total <= 0 {
		return "", &core.ConfigError{Field: t.Name, Message: "distribution weights sum to zero"}
	}

	target := rng.Float64() * total
	var cum float64
	for _, e := range t.Entries {
		cum += e.Weight
		if target < cum {
			return e.Value, nil
		}
	}
	// Float accumulation can land a hair past the last boundary.
	return t.Entries[len(t.Entries)-1].Value, nil
}

// SampleNumeric draws from the declared distribution shape. The result is
// always within [spec.Min, spec.Max]: out-of-range draws are resampled up to
// maxResamples times and then clamped.
func SampleNumeric(spec NumericSpec, rng *rand.Rand) float64 {
	var v float64
	for attempt := 0; attempt <= maxResamples; attempt++ {
		switch spec.Shape {
		case NormalClamped:
			v = spec.Mean + rng.NormFloat64()*spec.StdDev
		case ExponentialClamped:
			v = spec.Min + rng.ExpFloat64()/spec.Rate
		default:
			v = spec.Min + rng.Float64()*(spec.Max-spec.Min)
		}
		if v >= spec.Min && v <= spec.Max {
			return v
		}
	}
	return Clamp(v, spec.Min, spec.Max)
}

// SampleCorrelatedPair draws the base field and a dependent field whose joint
// distribution encodes a statistical relationship rather than a hard
// function.
func SampleCorrelatedPair(spec CorrelatedSpec, rng *rand.Rand) (base, dependent float64) {
	base = SampleNumeric(spec.Base, rng)
	dependent = spec.Intercept + spec.Slope*base + rng.NormFloat64()*spec.Noise
	dependent = Clamp(dependent, spec.DepMin, spec.DepMax)
	return base, dependent
}

// Clamp bounds v to [min, max].
func Clamp(v, min, max float64) float64 {
	return math.Min(math.Max(v, min), max)
}

// RecordRand derives an independent random stream for one record from the run
// seed and the record index. Streams never share state, so records can be
// regenerated individually and in any order.
func RecordRand(runSeed, index int64) *rand.Rand {
	return rand.New(rand.NewSource(mix(runSeed, index)))
}

// mix is a splitmix64 finalizer over the seed/index pair. It decorrelates
// neighboring indexes so nearby records do not share low-bit patterns.
func mix(seed, index int64) int64 {
	z := uint64(seed) + uint64(index)*0x9E3779B97F4A7C15
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	z = z ^ (z >> 31)
	return int64(z)
}
