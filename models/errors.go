package models

import (
	"errors"
	"fmt"
)

// ErrInvalidQuestion is returned when a question is empty or whitespace-only.
var ErrInvalidQuestion = errors.New("question is empty")

// ErrGenerationTimeout is returned when the language model does not answer
// within the caller's deadline.
var ErrGenerationTimeout = errors.New("answer generation timed out")

// ErrMalformedEpisode is returned when an episode object in the transcript
// input is missing a required field or carries the wrong type.
type ErrMalformedEpisode struct {
	Index int    // position in the input array
	Field string // offending field, empty when the document itself is bad
}

func (e ErrMalformedEpisode) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed episode at index %d", e.Index)
	}
	return fmt.Sprintf("malformed episode at index %d: missing or invalid %q", e.Index, e.Field)
}

// ErrDuplicateEpisode is returned when an episode id is already present.
type ErrDuplicateEpisode struct {
	ID string
}

func (e ErrDuplicateEpisode) Error() string {
	return fmt.Sprintf("episode %q already exists", e.ID)
}

// ErrGeneration wraps a language-model transport or quota failure. Retry
// policy belongs to the provider, so the failure propagates as-is.
type ErrGeneration struct {
	Err error
}

func (e ErrGeneration) Error() string {
	return fmt.Sprintf("answer generation failed: %v", e.Err)
}

func (e ErrGeneration) Unwrap() error { return e.Err }
