package trends

import (
	"math"
	"sort"
)

// mean returns the arithmetic mean, or 0 for an empty slice.
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev calculates the sample (n-1) standard deviation.
// Fewer than two points is degenerate and yields 0 rather than an error.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sumSquaredDiff := 0.0
	for _, v := range values {
		diff := v - m
		sumSquaredDiff += diff * diff
	}
	return math.Sqrt(sumSquaredDiff / float64(len(values)-1))
}

// median returns the middle value of the slice (average of the two
// middle values for even lengths), or 0 for an empty slice. The input
// is not modified.
func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// weightedAverage applies the weights positionally to a 3-element
// window and normalizes by the weight sum.
func weightedAverage(window []float64, weights [3]float64) float64 {
	weightSum := 0.0
	weighted := 0.0
	for i, w := range weights {
		weighted += window[i] * w
		weightSum += w
	}
	return weighted / weightSum
}
