package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/spatocode/preview/publish"
)

// ErrNoCompletion is reported when a pipeline ends without signalling.
var ErrNoCompletion = errors.New("preview finished without a result")

// Completion carries the single outcome of one invocation. The first of
// Succeed or Fail wins; later calls are ignored.
type Completion struct {
	once   sync.Once
	done   chan struct{}
	report *publish.Report
	err    error
}

func NewCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// Succeed records report as the outcome. It reports whether the call won.
func (c *Completion) Succeed(report *publish.Report) bool {
	return c.complete(report, nil)
}

// Fail records err as the outcome. A nil err is recorded as
// ErrNoCompletion. It reports whether the call won.
func (c *Completion) Fail(err error) bool {
	if err == nil {
		err = ErrNoCompletion
	}
	return c.complete(nil, err)
}

func (c *Completion) complete(report *publish.Report, err error) bool {
	won := false
	c.once.Do(func() {
		c.report, c.err = report, err
		won = true
		close(c.done)
	})
	return won
}

// Done is closed once an outcome is recorded.
func (c *Completion) Done() <-chan struct{} {
	return c.done
}

// Wait blocks until an outcome is recorded or ctx ends.
func (c *Completion) Wait(ctx context.Context) (*publish.Report, error) {
	select {
	case <-c.done:
		return c.report, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
