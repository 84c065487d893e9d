package apperror

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ProviderError wraps a failed call to an external AI provider (embedding or
// generation). The core never retries these; backoff policy belongs to the caller.
type ProviderError struct {
	Provider string // "embedding" or "llm"
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider, op string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Op: op, Err: err}
}

// SchemaValidationError means a structured-generation response did not conform
// to the expected schema. Conformance is binary: no partial object is returned.
type SchemaValidationError struct {
	Reason string
	Raw    string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("schema validation failed: %s", e.Reason)
}

func NewSchemaValidationError(reason, raw string) *SchemaValidationError {
	return &SchemaValidationError{Reason: reason, Raw: raw}
}

// IngestionRollbackError is raised when cleanup of a failed document ingestion
// itself failed. It signals orphaned-data risk requiring manual cleanup, so it
// must be logged distinctly from the original ingestion failure.
type IngestionRollbackError struct {
	DocumentId  uuid.UUID
	Cause       error // the original ingestion failure
	RollbackErr error // the failure while rolling back
}

func (e *IngestionRollbackError) Error() string {
	return fmt.Sprintf("ingestion rollback failed for document %s: %v (original failure: %v)",
		e.DocumentId, e.RollbackErr, e.Cause)
}

func (e *IngestionRollbackError) Unwrap() error {
	return e.Cause
}

// EmptyTranscriptError is returned when meeting-end is requested with no messages.
type EmptyTranscriptError struct {
	MeetingId uuid.UUID
}

func (e *EmptyTranscriptError) Error() string {
	return fmt.Sprintf("meeting %s has no messages to summarize", e.MeetingId)
}

// ConcurrentModificationError is a soft error: the optimistic version guard on
// a meeting found no matching row. The turn itself succeeded, so callers log
// it instead of surfacing it to the user.
type ConcurrentModificationError struct {
	MeetingId uuid.UUID
	Version   int
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("meeting %s was modified concurrently (expected version %d)", e.MeetingId, e.Version)
}

// NotFoundError covers missing or inaccessible resources.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found or access denied", e.Resource)
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

// InvalidStateError covers rejected state transitions, e.g. ending a meeting
// that is already COMPLETED.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

func NewInvalidStateError(format string, args ...interface{}) *InvalidStateError {
	return &InvalidStateError{Message: fmt.Sprintf(format, args...)}
}

// RateLimitError is returned by the rate limiter middleware helpers.
type RateLimitError struct {
	Limit     int
	Remaining int
}

func (e *RateLimitError) Error() string {
	return "rate limit exceeded"
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

func IsSchemaValidation(err error) bool {
	var se *SchemaValidationError
	return errors.As(err, &se)
}

func IsEmptyTranscript(err error) bool {
	var te *EmptyTranscriptError
	return errors.As(err, &te)
}

func IsConcurrentModification(err error) bool {
	var ce *ConcurrentModificationError
	return errors.As(err, &ce)
}

func IsInvalidState(err error) bool {
	var ie *InvalidStateError
	return errors.As(err, &ie)
}
