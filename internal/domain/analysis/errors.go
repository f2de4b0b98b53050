package analysis

import (
	"errors"
	"fmt"
)

// ErrInvalidInput indicates a bad or missing image payload from the client.
var ErrInvalidInput = errors.New("invalid input")

// ErrUnparsableResponse indicates no JSON object could be extracted from the model output.
var ErrUnparsableResponse = errors.New("unparsable model response")

// ErrMalformedResponse indicates the extracted JSON does not match the expected schema.
var ErrMalformedResponse = errors.New("malformed model response")

// ErrNotFound indicates the requested analysis record does not exist.
var ErrNotFound = errors.New("analysis not found")

// ErrStoreUnavailable indicates persistence failed after a successful classification.
var ErrStoreUnavailable = errors.New("record store unavailable")

// MalformedResponseError carries the offending field path.
// It matches ErrMalformedResponse under errors.Is.
type MalformedResponseError struct {
	Field  string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed model response: %s: %s", e.Field, e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return ErrMalformedResponse }
