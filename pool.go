package md2speech

import "sync"

// MaxPoolSize caps pooled narrators; each one may hold a worker group of
// backend calls, and a single TTS backend saturates quickly.
const MaxPoolSize = 8

// NarratorPool manages a fixed set of Narrator instances for batch
// processing, capping how many documents are narrated concurrently against
// the shared backend.
type NarratorPool struct {
	size      int
	narrators []*Narrator
	sem       chan *Narrator
	mu        sync.Mutex
	closed    bool
}

// NewNarratorPool creates a pool with n Narrator instances sharing the
// given options. n is clamped to [1, MaxPoolSize].
func NewNarratorPool(n int, opts ...Option) (*NarratorPool, error) {
	if n < 1 {
		n = 1
	}
	if n > MaxPoolSize {
		n = MaxPoolSize
	}

	p := &NarratorPool{
		size:      n,
		narrators: make([]*Narrator, 0, n),
		sem:       make(chan *Narrator, n),
	}
	for i := 0; i < n; i++ {
		nar, err := NewNarrator(opts...)
		if err != nil {
			return nil, err
		}
		p.narrators = append(p.narrators, nar)
		p.sem <- nar
	}
	return p, nil
}

// Acquire gets a narrator from the pool, blocking if all are in use.
func (p *NarratorPool) Acquire() *Narrator {
	return <-p.sem
}

// Release returns a narrator to the pool.
func (p *NarratorPool) Release(nar *Narrator) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.sem <- nar
	}
}

// Close releases all narrator resources.
func (p *NarratorPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	narrators := p.narrators
	p.mu.Unlock()

	var lastErr error
	for _, nar := range narrators {
		if err := nar.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Size returns the pool capacity.
func (p *NarratorPool) Size() int {
	return p.size
}
