package helper

import (
	"errors"
	"fmt"
	"strings"
)

// Error wraps an error with the trace of operations it passed through.
type Error struct {
	Original error
	Trace    []string
}

// NewError wraps err with trace. If err already is an Error the trace is
// appended instead of nesting a second wrapper.
func NewError(trace string, err error) error {
	var existing Error
	if errors.As(err, &existing) {
		traces := make([]string, 0, len(existing.Trace)+1)
		traces = append(traces, existing.Trace...)
		traces = append(traces, trace)
		return Error{
			Original: existing.Original,
			Trace:    traces,
		}
	}

	return Error{
		Original: err,
		Trace:    []string{trace},
	}
}

// Error implements the error interface.
func (e Error) Error() string {
	return fmt.Sprintf("%v | Trace: %s", e.Original, strings.Join(e.Trace, ", "))
}

// Unwrap returns the original error
func (e Error) Unwrap() error {
	return e.Original
}
