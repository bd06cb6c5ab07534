// Package llm defines the text-generation provider boundary and its adapters.
// Adapters classify failures into typed errors so callers never inspect
// error messages.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Provider generates text from a prompt.
type Provider interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Kind classifies a provider failure.
type Kind int

const (
	KindOther Kind = iota
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	default:
		return "other"
	}
}

// Error is the only error type a Provider returns.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider error (%s): %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// IsRateLimited reports whether err carries a rate-limit classification.
func IsRateLimited(err error) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.Kind == KindRateLimited
}

// ClassifyStatus maps an HTTP status code to a failure kind.
func ClassifyStatus(status int) Kind {
	if status == http.StatusTooManyRequests {
		return KindRateLimited
	}
	return KindOther
}

// Wrap classifies err with kind unless it is already a provider error.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var perr *Error
	if errors.As(err, &perr) {
		return err
	}
	return &Error{Kind: kind, Err: err}
}
