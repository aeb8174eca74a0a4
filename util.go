package ws

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
)

// aLongTimeAgo is a non-zero time, far in the past, used for immediate
// cancellation of i/o.
var aLongTimeAgo = time.Unix(42, 0)

type deadliner interface {
	SetDeadline(time.Time) error
}

// watchContext starts interrupting i/o on rw once ctx is done. It returns a
// function that must be called with the result of the i/o; it stops the
// watcher and returns ctx.Err() instead of the given error when the i/o was
// canceled by us.
//
// If ctx could not be canceled or rw has no SetDeadline method, watchContext
// does nothing.
func watchContext(ctx context.Context, rw io.ReadWriter) func(error) error {
	d, ok := rw.(deadliner)
	if !ok || ctx.Done() == nil {
		return func(err error) error { return err }
	}
	var (
		done      = make(chan struct{})
		interrupt = make(chan error, 1)
	)
	go func() {
		select {
		case <-done:
			interrupt <- nil
		case <-ctx.Done():
			// Cancel i/o immediately.
			d.SetDeadline(aLongTimeAgo)
			interrupt <- ctx.Err()
		}
	}()
	return func(err error) error {
		close(done)
		// If ctx.Err() is non-nil and the original err is net.Error with
		// Timeout() == true, then it means that i/o was canceled by us by
		// SetDeadline(aLongTimeAgo) call. Even if the i/o has succeeded, the
		// deadline is already set and rw is not usable.
		if ctxErr := <-interrupt; ctxErr != nil && (err == nil || isTimeoutError(err)) {
			return ctxErr
		}
		return err
	}
}

func isTimeoutError(err error) bool {
	var t interface{ Timeout() bool }
	if errors.As(err, &t) {
		return t.Timeout()
	}
	return false
}

func nonZero(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}

func nonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
