// Package score connects window batches to an external classifier and
// turns its window-rate output back into per-sample score streams.
//
// The classifier is anything implementing Scorer. Run submits a batch in
// consecutive chunks, checks that each answer has one row per window and
// one probability per class, and concatenates the rows in window order.
// Streams splits the resulting Matrix into one Stream per class, and
// Restore upsamples a window-rate stream to sample resolution by linear
// interpolation between consecutive window scores.
package score
