package buffer

// Arena is a contiguous block of count slots holding size samples each.
type Arena struct {
	data  []float64
	count int
	size  int
}

// NewArena returns a zero-filled arena of count slots of size samples.
// Negative dimensions are treated as zero.
func NewArena(count, size int) *Arena {
	a := &Arena{}
	a.Resize(count, size)
	return a
}

// Len returns the number of slots.
func (a *Arena) Len() int {
	return a.count
}

// Size returns the number of samples per slot.
func (a *Arena) Size() int {
	return a.size
}

// Cap returns the capacity of the backing allocation in samples.
func (a *Arena) Cap() int {
	return cap(a.data)
}

// Slot returns the storage of slot i. The returned slice has len and cap
// equal to Size. Panics if i is out of range.
func (a *Arena) Slot(i int) []float64 {
	if i < 0 || i >= a.count {
		panic("buffer: slot index out of range")
	}
	off := i * a.size
	return a.data[off : off+a.size : off+a.size]
}

// Span returns the contiguous storage of slots [from, to). It is used to
// hand a run of windows to a consumer without copying.
func (a *Arena) Span(from, to int) []float64 {
	if from < 0 || to > a.count || from > to {
		panic("buffer: span out of range")
	}
	return a.data[from*a.size : to*a.size : to*a.size]
}

// Resize sets the arena dimensions, reusing existing capacity when possible.
// All slots are zeroed.
func (a *Arena) Resize(count, size int) {
	if count < 0 {
		count = 0
	}
	if size < 0 {
		size = 0
	}
	n := count * size
	if n <= cap(a.data) {
		a.data = a.data[:n]
	} else {
		a.data = make([]float64, n)
	}
	a.count = count
	a.size = size
	a.Zero()
}

// Zero sets every sample of every slot to 0.
func (a *Arena) Zero() {
	for i := range a.data {
		a.data[i] = 0
	}
}
