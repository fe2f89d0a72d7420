package frame

import "github.com/cwbudde/algo-pick/dsp/buffer"

// Count returns the number of whole windows of length size, spaced shift
// samples apart, that fit into n samples. It returns 0 when the parameters
// are invalid or the signal is shorter than one window.
func Count(n, size, shift int) int {
	if validate(n, size, shift) != nil {
		return 0
	}
	return (n-size)/shift + 1
}

// Extract slices one channel into windows of size samples with the given
// shift. The result is a single-channel Batch whose windows are owned
// copies of the source samples.
func Extract(data []float64, size, shift int, opts ...Option) (*Batch, error) {
	return Stack([][]float64{data}, size, shift, opts...)
}

// Stack extracts every channel into one Batch. Channels may differ in
// length; the window count is the minimum across channels, so every
// channel contributes the same number of windows.
func Stack(channels [][]float64, size, shift int, opts ...Option) (*Batch, error) {
	if len(channels) == 0 {
		return nil, errNoChannels
	}

	count := -1
	for _, ch := range channels {
		if err := validate(len(ch), size, shift); err != nil {
			return nil, err
		}
		c := (len(ch)-size)/shift + 1
		if count < 0 || c < count {
			count = c
		}
	}

	cfg := applyOptions(opts)
	var arena *buffer.Arena
	if cfg.pool != nil {
		arena = cfg.pool.Get(count, size*len(channels))
	} else {
		arena = buffer.NewArena(count, size*len(channels))
	}

	b := &Batch{
		arena:    arena,
		pool:     cfg.pool,
		count:    count,
		features: size,
		channels: len(channels),
	}
	for c, ch := range channels {
		for i := 0; i < count; i++ {
			start := i * shift
			copy(b.Channel(i, c), ch[start:start+size])
		}
	}

	return b, nil
}

// Option configures window extraction.
type Option func(*config)

type config struct {
	pool *buffer.Pool
}

// WithPool draws the window arena from p. Release returns it.
func WithPool(p *buffer.Pool) Option {
	return func(c *config) {
		c.pool = p
	}
}

func applyOptions(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
