package trends

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Zero(t, mean(nil))
	assert.Equal(t, 5.0, mean([]float64{5}))
	assert.Equal(t, 150.0, mean([]float64{100, 100, 100, 200, 200, 200}))
}

func TestSampleStdDev(t *testing.T) {
	t.Run("degenerate inputs fall back to zero", func(t *testing.T) {
		assert.Zero(t, sampleStdDev(nil))
		assert.Zero(t, sampleStdDev([]float64{42}))
	})

	t.Run("constant series has zero deviation", func(t *testing.T) {
		assert.Zero(t, sampleStdDev([]float64{7, 7, 7, 7}))
	})

	t.Run("matches the n-1 estimator", func(t *testing.T) {
		// mean 1500, squared diffs 4*250000, variance 1e6/3
		assert.InDelta(t, 577.3502691896, sampleStdDev([]float64{1000, 1000, 2000, 2000}), 1e-9)
	})
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single", []float64{3}, 3},
		{"odd length", []float64{9, 1, 5}, 5},
		{"even length averages middle pair", []float64{1, 2, 3, 10}, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, median(tt.values))
		})
	}
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestWeightedAverage(t *testing.T) {
	// (40*1.5 + 50*1.25 + 60*1.0) / 3.75
	assert.InDelta(t, 48.666666666, weightedAverage([]float64{40, 50, 60}, recentWeights), 1e-9)
	// mirrored weights on the same window
	assert.InDelta(t, 51.333333333, weightedAverage([]float64{40, 50, 60}, previousWeights), 1e-9)
	// uniform window is weight-invariant
	assert.Equal(t, 10.0, weightedAverage([]float64{10, 10, 10}, recentWeights))
}
