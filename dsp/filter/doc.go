// Package filter provides the highpass filters used to condition seismic
// traces before windowing.
//
// ButterworthHighpass designs a causal IIR cascade of second-order
// sections processed in Direct Form II Transposed. ZeroPhaseHighpass
// applies the squared Butterworth magnitude in the frequency domain, which
// matches forward-backward filtering without its start-up transients.
package filter
