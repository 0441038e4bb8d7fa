// Package pipeline drives batch extraction of person rows from merged
// report files, keeping runaway parses from stalling the run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gwu-libraries/elements-migrate/authors"
)

// ErrTimeout reports a parse abandoned at its deadline.
var ErrTimeout = errors.New("name parse timed out")

// ParseFunc parses one raw contributor string into cleaned authors.
type ParseFunc func(ctx context.Context, names string) ([]*authors.Author, error)

// Worker runs parses under a wall-clock budget. When a parse misses
// its deadline the in-flight computation is abandoned and a fresh
// parse function is installed, so one pathological input cannot poison
// the ones that follow.
type Worker struct {
	timeout time.Duration
	newFn   func() ParseFunc
	fn      ParseFunc
}

// NewWorker builds a worker around the parse functions produced by
// newFn. A fresh function replaces the current one after every
// timeout.
func NewWorker(timeout time.Duration, newFn func() ParseFunc) *Worker {
	return &Worker{timeout: timeout, newFn: newFn, fn: newFn()}
}

// NewParserWorker builds a worker around a dedicated name parser,
// post-cleaning every successful result.
func NewParserWorker(timeout time.Duration) *Worker {
	return NewWorker(timeout, func() ParseFunc {
		p := authors.NewParser()
		return func(ctx context.Context, names string) ([]*authors.Author, error) {
			parsed, err := p.ParseOne(ctx, names)
			if err != nil {
				return nil, err
			}
			return p.PostClean(parsed), nil
		}
	})
}

type parseResult struct {
	authors []*authors.Author
	err     error
}

// Parse runs one input under the worker's budget. A missed deadline
// returns ErrTimeout; cancellation of the caller's context is passed
// through unchanged.
func (w *Worker) Parse(ctx context.Context, names string) ([]*authors.Author, error) {
	runCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	done := make(chan parseResult, 1)
	fn := w.fn
	go func() {
		parsed, err := fn(runCtx, names)
		done <- parseResult{authors: parsed, err: err}
	}()

	select {
	case res := <-done:
		if errors.Is(res.err, context.DeadlineExceeded) {
			return nil, w.timedOut(ctx, names)
		}
		return res.authors, res.err
	case <-runCtx.Done():
		// Abandon the in-flight parse; it observes the context and
		// drains into the buffered channel on its own.
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return nil, w.timedOut(ctx, names)
		}
		return nil, runCtx.Err()
	}
}

func (w *Worker) timedOut(ctx context.Context, names string) error {
	if err := ctx.Err(); err != nil {
		// The caller's own context expired, not our budget.
		return err
	}
	w.fn = w.newFn()
	return fmt.Errorf("%w after %s: %q", ErrTimeout, w.timeout, names)
}
