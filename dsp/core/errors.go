package core

import "errors"

// Error categories shared by all picker packages. Package-level errors wrap
// one of these so callers can classify failures with errors.Is.
var (
	// ErrConfiguration reports malformed parameters: non-positive shift,
	// windows longer than the signal, unknown enum values, thresholds out
	// of range.
	ErrConfiguration = errors.New("invalid configuration")

	// ErrAlignment reports a channel group without a common time span.
	ErrAlignment = errors.New("channels cannot be aligned")

	// ErrContractViolation reports classifier output that does not match
	// the submitted batch or is not a probability.
	ErrContractViolation = errors.New("classifier contract violated")

	// ErrInputType reports a value supplied where a channel signal is
	// expected that is not one.
	ErrInputType = errors.New("not a channel signal")
)
