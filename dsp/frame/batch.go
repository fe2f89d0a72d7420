package frame

import (
	"fmt"

	"github.com/cwbudde/algo-pick/dsp/buffer"
)

// Batch is a (windows × features × channels) block of owned window
// buffers. Each window occupies one arena slot laid out channel by
// channel: sample s of channel c lives at slot[c*features+s].
type Batch struct {
	arena    *buffer.Arena
	pool     *buffer.Pool
	offset   int
	count    int
	features int
	channels int
	view     bool
}

// Len returns the number of windows.
func (b *Batch) Len() int { return b.count }

// Features returns the window length in samples.
func (b *Batch) Features() int { return b.features }

// Channels returns the number of channels per window.
func (b *Batch) Channels() int { return b.channels }

// Window returns all channels of window i, channel-major.
func (b *Batch) Window(i int) []float64 {
	return b.arena.Slot(b.offset + b.index(i))
}

// Channel returns channel c of window i.
func (b *Batch) Channel(i, c int) []float64 {
	if c < 0 || c >= b.channels {
		panic(errChannelMissing)
	}
	w := b.Window(i)
	return w[c*b.features : (c+1)*b.features : (c+1)*b.features]
}

// At returns sample s of channel c in window i, matching the
// (window, feature, channel) indexing of the classifier contract.
func (b *Batch) At(i, s, c int) float64 {
	return b.Channel(i, c)[s]
}

// Slice returns a view of windows [from, to). The view shares storage with
// b and is meant for read-only consumers such as a classifier.
func (b *Batch) Slice(from, to int) (*Batch, error) {
	if from < 0 || to > b.count || from > to {
		return nil, fmt.Errorf("frame: slice [%d, %d) out of range for %d windows", from, to, b.count)
	}
	return &Batch{
		arena:    b.arena,
		offset:   b.offset + from,
		count:    to - from,
		features: b.features,
		channels: b.channels,
		view:     true,
	}, nil
}

// Release hands pooled storage back to its pool. Views and batches built
// without a pool are left to the garbage collector. b must not be used
// afterwards.
func (b *Batch) Release() {
	if b.view || b.pool == nil {
		return
	}
	b.pool.Put(b.arena)
	b.arena = nil
	b.count = 0
}

func (b *Batch) index(i int) int {
	if i < 0 || i >= b.count {
		panic(fmt.Sprintf("frame: window %d out of range [0, %d)", i, b.count))
	}
	return i
}
