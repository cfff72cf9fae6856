package artifact

import (
	"context"
	"sync"
)

// Once is a one-shot completion signal. The first Complete wins; later calls
// are ignored, so competing error and finish events cannot both complete it.
type Once struct {
	once sync.Once
	done chan struct{}
	err  error
}

// NewOnce returns an armed completion signal.
func NewOnce() *Once {
	return &Once{done: make(chan struct{})}
}

// Complete records err and fires the signal. It reports whether this call was
// the one that fired.
func (o *Once) Complete(err error) bool {
	fired := false
	o.once.Do(func() {
		o.err = err
		fired = true
		close(o.done)
	})
	return fired
}

// Done is closed once the signal fires.
func (o *Once) Done() <-chan struct{} {
	return o.done
}

// Wait blocks until the signal fires or ctx ends and returns the recorded error.
func (o *Once) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
