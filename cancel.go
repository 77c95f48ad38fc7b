package slidecast

import "sync"

// CancelToken signals cooperative cancellation of a long render or save.
// The export loop checks it at every suspension point (before each
// frame, before each save chunk) rather than relying on goroutine
// preemption, so cancellation takes effect within one unit of work.
//
// A nil *CancelToken is valid and never cancelled.
type CancelToken struct {
	once sync.Once
	done chan struct{}
}

// NewCancelToken returns a token in the not-cancelled state.
func NewCancelToken() *CancelToken {
	return &CancelToken{done: make(chan struct{})}
}

// Cancel transitions the token to cancelled. Safe to call from any
// goroutine and idempotent.
func (t *CancelToken) Cancel() {
	if t == nil {
		return
	}
	t.once.Do(func() { close(t.done) })
}

// Cancelled reports whether Cancel has been called.
func (t *CancelToken) Cancelled() bool {
	if t == nil {
		return false
	}
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done exposes the cancellation channel for select loops. For a nil
// token it returns nil, which never receives.
func (t *CancelToken) Done() <-chan struct{} {
	if t == nil {
		return nil
	}
	return t.done
}
