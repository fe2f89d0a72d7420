// Package scan runs the onset picking pipeline over a group of channel
// traces.
//
// A Scanner aligns the traces to their common span, cuts them into
// overlapping multi-channel windows, normalizes each window, asks a
// score.Scorer for per-class probabilities, restores the window-rate
// scores to one value per sample and finally picks peaks of every target
// class against all other classes. Detections carry the sample index in
// the aligned group and its absolute timestamp.
//
// Scanner is safe for concurrent use: every call to Scan works on its own
// window batch and score buffers.
package scan
