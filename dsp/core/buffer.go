package core

// Zero clears buf.
func Zero(buf []float64) {
	clear(buf)
}

// Fill sets every element of buf to v.
func Fill(buf []float64, v float64) {
	for i := range buf {
		buf[i] = v
	}
}
