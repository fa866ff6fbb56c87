package models

import (
	"errors"
	"fmt"
)

// Pipeline error kinds. The HTTP layer maps these to status codes; the
// pipeline itself only ever emits a (kind, message) pair.
type ErrorKind string

const (
	KindInvalidURL            ErrorKind = "invalid_url"
	KindQuotaExceeded         ErrorKind = "quota_exceeded"
	KindTranscriptUnavailable ErrorKind = "transcript_unavailable"
	KindInternal              ErrorKind = "internal_error"
)

// Quota denial reasons, machine-readable.
const (
	ReasonDailyLimit  = "daily_limit_exceeded"
	ReasonMinuteLimit = "minute_limit_exceeded"
)

// Sentinel errors for permanent upstream conditions. These are never retried.
var (
	ErrInvalidURL   = errors.New("unrecognized video url")
	ErrNoTranscript = errors.New("no transcript available for video")
	ErrNotFound     = errors.New("not found")
)

// PipelineError is the user-visible failure form of the summarize operation.
type PipelineError struct {
	Kind      ErrorKind
	Message   string
	Reason    string          // set for quota denials
	Remaining RemainingLimits // set for quota denials
	Err       error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error { return e.Err }

func NewPipelineError(kind ErrorKind, message string, err error) *PipelineError {
	return &PipelineError{Kind: kind, Message: message, Err: err}
}

// AsPipelineError unwraps err to a *PipelineError, or wraps it as an
// internal error so callers always get a classified failure.
func AsPipelineError(err error) *PipelineError {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe
	}
	return &PipelineError{Kind: KindInternal, Message: "internal error", Err: err}
}
