// Package peak picks event onsets from restored score streams.
//
// Find locates local maxima of a single stream, keeping those whose height
// is inside a range and that are far enough from higher neighbors. A flat
// top counts as one peak at its middle sample (left middle for even
// widths). When two candidates are closer than the minimum distance the
// higher one survives; of equal heights the later one survives.
//
// Detector adds class arbitration: a candidate of the target class is kept
// only if no competing class has a strictly higher mean score over the
// neighborhood around the candidate. Equal means do not block a pick.
package peak
