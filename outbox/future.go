package outbox

import (
	"context"
	"sync"
)

// Future is the handle a Build call returns. It resolves exactly once to an
// OutgoingMessage or a categorized error, and supports cancellation as a
// first-class operation.
type Future struct {
	done   chan struct{}
	cancel context.CancelFunc

	once sync.Once
	msg  *OutgoingMessage
	err  error
}

func newFuture(cancel context.CancelFunc) *Future {
	return &Future{
		done:   make(chan struct{}),
		cancel: cancel,
	}
}

// resolve records the outcome and wakes all waiters. Later calls are no-ops,
// so a completed solution never overwrites a cancellation already reported.
func (f *Future) resolve(msg *OutgoingMessage, err error) {
	f.once.Do(func() {
		f.msg = msg
		f.err = err
		close(f.done)
	})
}

// Done returns a channel closed when the build has completed, failed or been
// cancelled.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the build resolves or the caller's context expires.
// A context expiry abandons the wait, not the build; use Cancel to abort
// the work itself.
func (f *Future) Wait(ctx context.Context) (*OutgoingMessage, error) {
	select {
	case <-f.done:
		return f.msg, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result returns the outcome of a resolved future. It must only be called
// after Done is closed.
func (f *Future) Result() (*OutgoingMessage, error) {
	return f.msg, f.err
}

// Cancel signals that the result is no longer needed. A proof-of-work search
// in flight observes the signal cooperatively and the future resolves with
// ErrBuildCancelled; no completed-but-unreported solution is retained.
func (f *Future) Cancel() {
	f.cancel()
}
