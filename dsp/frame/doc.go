// Package frame slices aligned channel signals into fixed-length,
// fixed-stride overlapping windows and stacks them into a window batch
// shaped (windows × features × channels).
//
// For a signal of N samples, window length size and stride shift the
// number of windows is
//
//	floor((N - size) / shift) + 1
//
// and window i covers samples [i*shift, i*shift+size). Trailing samples
// that do not fill a whole window are dropped.
//
// Every window is copied into its own arena slot (see package buffer), so
// windows never share storage with the source signal or with each other.
package frame
