package recommender

import (
	"errors"
	"fmt"
)

// ErrUpstreamUnavailable is returned when no chat model client was configured.
var ErrUpstreamUnavailable = errors.New("completion gateway is not configured")

var errEmptyCompletion = errors.New("no completion choices returned")

// UpstreamError wraps a failed or timed out call to the chat model.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s failed: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
