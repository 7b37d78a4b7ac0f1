package views

import (
	"context"
	"errors"
	"sync"
)

// ErrNotMounted is returned by view operations outside Mount/Unmount.
var ErrNotMounted = errors.New("view is not mounted")

// scope tracks the mounted lifetime of a view and the generation of its
// latest fetch.
type scope struct {
	mu     sync.Mutex
	ctx    context.Context
	cancel context.CancelFunc
	gen    uint64
}

func (s *scope) mount(parent context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.ctx, s.cancel = context.WithCancel(parent)
	s.gen++
}

func (s *scope) unmount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}

// begin derives an operation context that ends with ctx or with Unmount,
// whichever comes first. The returned generation identifies this operation.
func (s *scope) begin(ctx context.Context) (context.Context, context.CancelFunc, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return nil, nil, 0, ErrNotMounted
	}

	s.gen++
	opCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(s.ctx, cancel)

	return opCtx, func() {
		stop()
		cancel()
	}, s.gen, nil
}

// current reports whether gen is still the newest operation of a mounted
// view. Callers hold their own state lock while applying results; current
// is checked under that lock.
func (s *scope) current(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil && s.gen == gen
}

func (s *scope) mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// dropped is the error for a result that was discarded: ErrNotMounted after
// Unmount, nil when a newer fetch superseded it.
func (s *scope) dropped() error {
	if s.mounted() {
		return nil
	}
	return ErrNotMounted
}
