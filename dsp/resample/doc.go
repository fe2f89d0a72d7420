// Package resample converts traces between sample rates with a polyphase
// windowed-sinc FIR.
//
// The rate ratio is reduced to up/down (rates that are not integer
// multiples are approximated by continued fractions). The prototype lowpass
// cuts at the lower of the two Nyquist frequencies, so content the output
// rate cannot carry is attenuated instead of folding back.
//
// Output sample j lies at input time j*down/up: the filter's group delay is
// removed by starting the polyphase walk at the filter centre. A one-shot
// conversion of n samples yields floor((n-1)*up/down)+1 samples covering the
// same time span.
//
// Quality modes:
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
package resample
