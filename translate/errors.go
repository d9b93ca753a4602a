package translate

import (
	"fmt"
	"time"
)

// MismatchError reports a well-formed backend reply whose content
// disagrees with the request: wrong translation count, or a reply that
// cannot be decoded as the required JSON array. Deterministic, so it is
// never retried.
type MismatchError struct {
	// Chunk is the 1-based index of the originating chunk.
	Chunk int
	// Expected and Actual are the requested and returned entry counts.
	Expected int
	Actual   int
	// Reason is set when the reply shape, not the count, is invalid.
	Reason string
}

func (e *MismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("chunk %d: invalid translation reply: %s", e.Chunk, e.Reason)
	}
	return fmt.Sprintf("chunk %d: backend returned %d translations, expected %d", e.Chunk, e.Actual, e.Expected)
}

// RateLimitError reports an HTTP 429 from the backend. Transient;
// retried with the server-suggested delay when one is provided.
type RateLimitError struct {
	// RetryAfter is the server-suggested wait, 0 when none was given.
	RetryAfter time.Duration
	Body       string
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited by backend (retry after %s)", e.RetryAfter)
	}
	return "rate limited by backend"
}

// TransportError reports a network-level failure or an HTTP error
// status. Status is 0 for pure network errors. Retryable only for
// network errors and 5xx responses.
type TransportError struct {
	Status int
	Body   string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("backend request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Transient reports whether retrying this transport error could help.
func (e *TransportError) Transient() bool {
	return e.Status == 0 || e.Status >= 500
}
