package generation

import (
	"context"
	"errors"
	"strings"
	"time"
)

// #region types
// Request is one prompt sent to a text-generation backend.
type Request struct {
	Prompt   string
	Language string
}

// Result is the raw text returned by a backend.
type Result struct {
	Text    string
	Model   string
	Elapsed time.Duration
}

// Generator is the text-generation service boundary.
type Generator interface {
	Generate(ctx context.Context, req Request) (Result, error)
}

// ErrEmptyResponse is returned when a backend answers with no text.
var ErrEmptyResponse = errors.New("empty generation response")

// #endregion types

// #region bounded
// DefaultTimeout bounds a generation call when the caller sets none.
const DefaultTimeout = 30 * time.Second

// Bounded applies a timeout to every call and classifies failures. It never retries.
type Bounded struct {
	next    Generator
	timeout time.Duration
}

// NewBounded wraps next with the given timeout.
func NewBounded(next Generator, timeout time.Duration) *Bounded {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Bounded{next: next, timeout: timeout}
}

type outcome struct {
	res Result
	err error
}

// Generate runs the wrapped backend under the timeout. Failures come back as *Error.
func (b *Bounded) Generate(ctx context.Context, req Request) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		res, err := b.next.Generate(ctx, req)
		done <- outcome{res, err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		out.err = ctx.Err()
	}
	elapsed := time.Since(start)

	if out.err == nil && strings.TrimSpace(out.res.Text) == "" {
		out.err = ErrEmptyResponse
	}
	if out.err != nil {
		return Result{}, Classify(out.err, elapsed)
	}
	out.res.Elapsed = elapsed
	return out.res, nil
}

// #endregion bounded
