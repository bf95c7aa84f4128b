package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnparseableFragment marks a listing fragment without a posting URL.
// Callers skip such fragments; they never produce a record.
var ErrUnparseableFragment = errors.New("unparseable fragment: no posting url")

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ParseError reports a pay statement that could not be annualized.
type ParseError struct {
	Input  string // offending raw text
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse compensation %q: %s", e.Input, e.Reason)
}
