package trends

import (
	"math"

	"salespulse/pkg/contracts/domain"
)

const (
	// minSeriesLength is the minimum number of monthly points required
	// before any trend call is attempted.
	minSeriesLength = 4

	// weightedWindowLength is the series length at which the classifier
	// switches from the simple median split to the weighted
	// recent/previous three-month comparison.
	weightedWindowLength = 6

	// Volume brackets for the stability threshold. Comparisons are
	// strict: an average of exactly 50,000 lands in the medium bracket.
	smallVolumeCutoff  = 50_000
	mediumVolumeCutoff = 200_000

	smallVolumeThreshold  = 0.25
	mediumVolumeThreshold = 0.15
	largeVolumeThreshold  = 0.10

	// Combination ratio between the weighted average and the median of
	// each three-month window.
	weightedShare = 0.6
	medianShare   = 0.4

	// significanceFactor scales the standard error in the significance
	// check: a change must exceed 1.5 * sigma / sqrt(n) to count.
	significanceFactor = 1.5

	// strongMultiplier: a high-confidence change beyond twice the
	// stability threshold upgrades up/down to strong_up/strong_down.
	strongMultiplier = 2
)

// Weight vectors for the recent and previous three-month windows,
// applied positionally in chronological order. The mapping is literal:
// the oldest element of the recent window gets 1.5 and the newest 1.0,
// mirrored for the previous window. Downstream thresholds were tuned
// against this exact assignment, so it must not be "corrected".
var (
	recentWeights   = [3]float64{1.5, 1.25, 1.0}
	previousWeights = [3]float64{1.0, 1.25, 1.5}
)

// Classify runs the trend heuristic over one entity's aggregated
// series. The series must already be sorted ascending by month with
// one record per month, as produced by AggregateMonthly.
func Classify(series []domain.MonthlyRecord) domain.TrendResult {
	totals := Totals(series)
	return ClassifyTotals(totals, mean(totals))
}

// ClassifyTotals classifies an ordered slice of monthly totals given
// the entity's average monthly sales. It always returns a well-formed
// result: degenerate statistics fall back to safe defaults instead of
// producing an error.
func ClassifyTotals(totals []float64, avgMonthlySales float64) domain.TrendResult {
	n := len(totals)
	if n < minSeriesLength {
		return domain.TrendResult{
			Direction:     domain.DirectionInsufficientData,
			GrowthRatePct: 0,
			Confidence:    domain.ConfidenceLow,
		}
	}

	threshold := stabilityThreshold(avgMonthlySales)

	// Volatility. A zero mean makes cv undefined; treat it as 0 so a
	// dead-flat or empty-revenue series reads as non-volatile.
	stdDev := sampleStdDev(totals)
	cv := 0.0
	if m := mean(totals); m > 0 {
		cv = stdDev / m
	}

	recentCombined, previousCombined := combinedEstimates(totals)

	var pctChange, growthRate float64
	if previousCombined > 0 {
		pctChange = (recentCombined - previousCombined) / previousCombined
		growthRate = pctChange * 100
	}

	// Standard-error-scaled significance check. With stdDev == 0 the
	// windows are identical, so the strict inequality fails and the
	// series is never significant.
	significant := math.Abs(recentCombined-previousCombined) > significanceFactor*stdDev/math.Sqrt(float64(n))

	confidence := confidenceGrade(n, cv)

	var direction domain.Direction
	switch {
	case !significant || math.Abs(pctChange) < threshold:
		direction = domain.DirectionStable
	case pctChange > threshold:
		direction = domain.DirectionUp
	default:
		direction = domain.DirectionDown
	}

	if confidence == domain.ConfidenceHigh && math.Abs(pctChange) > strongMultiplier*threshold {
		switch direction {
		case domain.DirectionUp:
			direction = domain.DirectionStrongUp
		case domain.DirectionDown:
			direction = domain.DirectionStrongDown
		}
	}

	return domain.TrendResult{
		Direction:     direction,
		GrowthRatePct: growthRate,
		Confidence:    confidence,
	}
}

// combinedEstimates produces the recent and previous level estimates
// the growth rate is measured between. Six or more months use the
// weighted-average/median blend over the last two three-month windows;
// four or five months fall back to medians around the floor midpoint.
func combinedEstimates(totals []float64) (recentCombined, previousCombined float64) {
	n := len(totals)
	if n >= weightedWindowLength {
		recent := totals[n-3:]
		previous := totals[n-6 : n-3]

		recentCombined = weightedShare*weightedAverage(recent, recentWeights) + medianShare*median(recent)
		previousCombined = weightedShare*weightedAverage(previous, previousWeights) + medianShare*median(previous)
		return recentCombined, previousCombined
	}

	mid := n / 2
	return median(totals[mid:]), median(totals[:mid])
}

// stabilityThreshold selects the minimum fractional change that counts
// as a trend. Smaller shops swing more month to month, so the bar
// scales inversely with volume.
func stabilityThreshold(avgMonthlySales float64) float64 {
	switch {
	case avgMonthlySales < smallVolumeCutoff:
		return smallVolumeThreshold
	case avgMonthlySales < mediumVolumeCutoff:
		return mediumVolumeThreshold
	default:
		return largeVolumeThreshold
	}
}

// confidenceGrade grades the classification by series length and
// volatility. Holding n fixed, lower cv never lowers the grade.
func confidenceGrade(n int, cv float64) domain.Confidence {
	switch {
	case n >= 6 && cv < 0.5:
		return domain.ConfidenceHigh
	case n >= 4 && cv < 1.0:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}
