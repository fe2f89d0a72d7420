package buffer

import "sync"

// Pool provides sync.Pool-based Arena reuse so repeated scans of equally
// sized channel groups do not reallocate their window storage.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return &Arena{}
			},
		},
	}
}

// Get returns a zeroed Arena with the requested dimensions.
// Callers must return it via Put when done.
func (p *Pool) Get(count, size int) *Arena {
	a := p.pool.Get().(*Arena)
	a.Resize(count, size)
	return a
}

// Put returns an Arena to the pool for reuse.
// The caller must not use the arena after calling Put.
func (p *Pool) Put(a *Arena) {
	if a == nil {
		return
	}
	p.pool.Put(a)
}
