package interp

// Linspace returns n evenly spaced values from start to stop inclusive.
// The first value is exactly start and the last exactly stop.
// Returns nil for n <= 0 and [start] for n == 1.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	LinspaceInto(out, start, stop)
	return out
}

// LinspaceInto fills dst with len(dst) evenly spaced values from start to
// stop inclusive.
func LinspaceInto(dst []float64, start, stop float64) {
	n := len(dst)
	switch n {
	case 0:
		return
	case 1:
		dst[0] = start
		return
	}

	step := (stop - start) / float64(n-1)
	for i := range dst {
		dst[i] = start + float64(i)*step
	}
	dst[n-1] = stop
}
