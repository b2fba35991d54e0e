package synth

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthlab/synth360/pkg/catalog"
	"github.com/synthlab/synth360/pkg/core"
)

func TestSampleCategorical_EmptyTable(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := SampleCategorical(catalog.Table{Name: "empty"}, rng)
	require.Error(t, err)

	var cfgErr *core.ConfigError
	assert.True(t, errors.As(err, &cfgErr), "expected a ConfigError, got %T", err)
}

func TestSampleCategorical_ZeroWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	table := catalog.Table{
		Name: "zero",
		Entries: []catalog.Entry{
			{Value: "a", Weight: 0},
			{Value: "b", Weight: 0},
		},
	}
	_, err := SampleCategorical(table, rng)
	require.Error(t, err)

	var cfgErr *core.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestSampleCategorical_RespectsWeights(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	table := catalog.Table{
		Name: "skewed",
		Entries: []catalog.Entry{
			{Value: "heavy", Weight: 99},
			{Value: "light", Weight: 1},
		},
	}

	counts := map[string]int{}
	for i := 0; i < 5000; i++ {
		v, err := SampleCategorical(table, rng)
		require.NoError(t, err)
		counts[v]++
	}

	assert.Greater(t, counts["heavy"], 4500, "heavy entry should dominate draws")
	assert.Less(t, counts["light"], 500)
}

func TestSampleNumeric_WithinBounds(t *testing.T) {
	specs := map[string]NumericSpec{
		"uniform":     {Shape: Uniform, Min: 10, Max: 20},
		"normal":      {Shape: NormalClamped, Min: 0, Max: 1, Mean: 0.5, StdDev: 0.4},
		"exponential": {Shape: ExponentialClamped, Min: 0, Max: 5, Rate: 1},
	}

	for name, spec := range specs {
		t.Run(name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(11))
			for i := 0; i < 2000; i++ {
				v := SampleNumeric(spec, rng)
				assert.GreaterOrEqual(t, v, spec.Min)
				assert.LessOrEqual(t, v, spec.Max)
			}
		})
	}
}

func TestSampleCorrelatedPair_BoundsAndInverseCorrelation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	const n = 4000
	var sumB, sumD, sumBB, sumDD, sumBD float64
	for i := 0; i < n; i++ {
		b, d := SampleCorrelatedPair(engagementChurnSpec, rng)
		require.GreaterOrEqual(t, b, 0.0)
		require.LessOrEqual(t, b, 1.0)
		require.GreaterOrEqual(t, d, 0.0)
		require.LessOrEqual(t, d, 1.0)
		sumB += b
		sumD += d
		sumBB += b * b
		sumDD += d * d
		sumBD += b * d
	}

	// Pearson correlation should be clearly negative: high engagement means
	// low churn risk, inside a noise band.
	cov := sumBD/n - (sumB/n)*(sumD/n)
	varB := sumBB/n - (sumB/n)*(sumB/n)
	varD := sumDD/n - (sumD/n)*(sumD/n)
	corr := cov / (math.Sqrt(varB) * math.Sqrt(varD))
	assert.Less(t, corr, -0.3, "engagement and churn should be inversely correlated, got r=%v", corr)

	// The relation is a band, not a hard function: the pair should not sum
	// to exactly 1.
	mean := (sumB + sumD) / n
	assert.InDelta(t, 1.0, mean, 0.15)
}

func TestRecordRand_IndependentStreams(t *testing.T) {
	a := RecordRand(42, 0)
	b := RecordRand(42, 1)
	c := RecordRand(42, 0)

	v1, v2 := a.Float64(), b.Float64()
	assert.NotEqual(t, v1, v2, "adjacent indexes should not share a stream")
	assert.Equal(t, v1, c.Float64(), "same (seed, index) should reproduce the stream")
}
