// Package apperr defines the error categories surfaced to users of an analysis run.
package apperr

import (
	"context"

	"github.com/rotisserie/eris"
)

// Error categories. Wrap them with eris so callers can test with eris.Is.
var (
	ErrValidation = eris.New("validation error")
	ErrNotFound   = eris.New("not found")
	ErrUpstream   = eris.New("upstream error")
	ErrRender     = eris.New("render error")
)

// Validation wraps ErrValidation with a user-facing message.
func Validation(msg string) error { return eris.Wrap(ErrValidation, msg) }

// NotFound wraps ErrNotFound with a formatted message.
func NotFound(format string, args ...any) error { return eris.Wrapf(ErrNotFound, format, args...) }

// Upstream marks err as an upstream failure. A nil err yields a bare ErrUpstream wrapped with msg.
func Upstream(err error, msg string) error {
	if err == nil {
		return eris.Wrap(ErrUpstream, msg)
	}
	return eris.Wrap(eris.Wrap(ErrUpstream, err.Error()), msg)
}

// Render marks err as a chart or map serialisation failure.
func Render(err error, msg string) error {
	if err == nil {
		return eris.Wrap(ErrRender, msg)
	}
	return eris.Wrap(eris.Wrap(ErrRender, err.Error()), msg)
}

// Kind returns the category name of err, or "internal" for anything
// uncategorised. A run stopped through its context reports "canceled".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case eris.Is(err, context.Canceled):
		return "canceled"
	case eris.Is(err, ErrValidation):
		return "validation"
	case eris.Is(err, ErrNotFound):
		return "not_found"
	case eris.Is(err, ErrUpstream):
		return "upstream"
	case eris.Is(err, ErrRender):
		return "render"
	default:
		return "internal"
	}
}
