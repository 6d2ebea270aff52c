package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// #region kinds
// Kind names a class of generation failure.
type Kind string

const (
	KindTimeout     Kind = "timeout"
	KindQuota       Kind = "quota"
	KindMalformed   Kind = "malformed"
	KindUnavailable Kind = "unavailable"
	KindCancelled   Kind = "cancelled"
)

// #endregion kinds

// #region error
// Error is a classified generation failure.
type Error struct {
	Kind    Kind
	Elapsed time.Duration
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("generation %s after %s: %v", e.Kind, e.Elapsed.Round(time.Millisecond), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the failure kind of err, or "" when err is not a generation error.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}

// #endregion error

// #region classify
// Classify maps an error from any backend onto a Kind.
func Classify(err error, elapsed time.Duration) *Error {
	if err == nil {
		return nil
	}
	var ge *Error
	if errors.As(err, &ge) {
		return ge
	}
	return &Error{Kind: kindFor(err), Elapsed: elapsed, Err: err}
}

func kindFor(err error) Kind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCancelled
	case errors.Is(err, ErrEmptyResponse), errors.Is(err, ErrMalformed):
		return KindMalformed
	}

	if st, ok := status.FromError(err); ok {
		switch st.Code() {
		case codes.DeadlineExceeded:
			return KindTimeout
		case codes.Canceled:
			return KindCancelled
		case codes.ResourceExhausted:
			return KindQuota
		case codes.InvalidArgument, codes.DataLoss:
			return KindMalformed
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"), strings.Contains(msg, "resource_exhausted"),
		strings.Contains(msg, "quota"), strings.Contains(msg, "rate limit"):
		return KindQuota
	case strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "timeout"):
		return KindTimeout
	}
	return KindUnavailable
}

// #endregion classify
