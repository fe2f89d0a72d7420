// Package buffer provides the window arena used by the picker: a single
// float64 allocation carved into fixed-size slots, one per window, plus a
// pool for reusing arenas between scans.
//
// Slots never alias each other. Each slot is returned with its capacity
// capped at the slot size, so appending to a slot reallocates instead of
// spilling into its neighbor. This is what allows the normalizer to rescale
// overlapping windows in place.
package buffer
