package inference

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrPoolClosed indicates Acquire on a closed pool.
var ErrPoolClosed = errors.New("inference: pool is closed")

// Pool shares a fixed set of sessions of one model between goroutines.
// Each generation step borrows a session for a single Infer call.
type Pool struct {
	sessions chan *Session
	size     int

	mu     sync.Mutex
	closed bool
}

// NewPool opens size sessions of the model at modelPath. A size below one
// opens a single session. If any session fails, the ones already open are
// closed.
func NewPool(modelPath string, size int) (*Pool, error) {
	size = max(size, 1)
	p := &Pool{
		sessions: make(chan *Session, size),
		size:     size,
	}

	for i := range size {
		s, err := NewSession(modelPath)
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("creating session %d of %d: %w", i+1, size, err)
		}
		p.sessions <- s
	}
	return p, nil
}

// Acquire waits for an idle session or for ctx to end.
func (p *Pool) Acquire(ctx context.Context) (*Session, error) {
	select {
	case s, ok := <-p.sessions:
		if !ok {
			return nil, ErrPoolClosed
		}
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release hands s back. Sessions released after Close, or beyond the pool's
// capacity, are closed instead.
func (p *Pool) Release(s *Session) {
	if s == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		_ = s.Close()
		return
	}
	select {
	case p.sessions <- s:
	default:
		_ = s.Close()
	}
}

// Infer runs one window through a borrowed session.
func (p *Pool) Infer(ctx context.Context, inputIDs []int64) ([]float32, error) {
	s, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer p.Release(s)

	return s.Infer(ctx, inputIDs)
}

// Close closes the idle sessions; sessions still borrowed are closed when
// released. Close is idempotent.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sessions)
	p.mu.Unlock()

	var errs []error
	for s := range p.sessions {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the number of sessions the pool was opened with.
func (p *Pool) Size() int {
	return p.size
}
