// Package trends implements the sales trend engine for the dispensary
// dashboard: monthly aggregation of raw report rows and heuristic
// trend classification of the resulting series.
//
// # Core Components
//
//  1. Aggregation: collapses raw rows sharing the same (entity, month)
//     pair into one summed MonthlyRecord and orders the result
//     chronologically.
//  2. Classification: turns an ordered series of monthly totals into a
//     trend direction, a growth-rate percentage, and a confidence
//     grade using volume-adaptive stability thresholds, a weighted
//     average/median combination over recent and previous windows, and
//     a standard-error-scaled significance check.
//
// # Architecture
//
//   - aggregate.go:  per-entity monthly aggregation and grouping helpers
//   - classifier.go: the trend classification heuristic
//   - stats.go:      small statistical helpers (mean, median, stdev)
//
// The engine is pure and synchronous: it owns no I/O and no shared
// state, so classification of different entities is trivially
// parallelizable by the caller.
//
// The classification formula is a tuned business heuristic, not a
// general statistical model. The weight vectors, window splits, and
// the 60/40 weighted/median combination are load-bearing; downstream
// stability and upgrade thresholds were calibrated against exactly
// these numbers.
package trends
