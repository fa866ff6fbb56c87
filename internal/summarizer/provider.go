package summarizer

import (
	"context"
	"errors"
	"fmt"
)

// ErrorClass groups provider failures for logging and fallback decisions.
// Every class falls through to the next provider; the class only changes
// what gets logged and whether the attempt is retried first.
type ErrorClass string

const (
	ErrorClassAuth      ErrorClass = "auth"
	ErrorClassQuota     ErrorClass = "quota"
	ErrorClassNetwork   ErrorClass = "network"
	ErrorClassMalformed ErrorClass = "malformed"
)

// ProviderError wraps a provider failure with its class and origin.
type ProviderError struct {
	Provider string
	Class    ErrorClass
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider %s error: %v", e.Provider, e.Class, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func newProviderError(provider string, class ErrorClass, err error) *ProviderError {
	return &ProviderError{Provider: provider, Class: class, Err: err}
}

// classOf extracts the error class, defaulting to network for unwrapped
// transport errors.
func classOf(err error) ErrorClass {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Class
	}
	return ErrorClassNetwork
}

// retryableClass reports whether an attempt with this failure class is worth
// repeating against the same provider. Auth failures will not clear on
// retry, and malformed output rarely does. Quota responses (429) are
// terminal here too: a throttled model API stays throttled well past the
// backoff window, and the chain has another provider to move to. The
// transcript fetcher makes the opposite call for 429 because it has no
// second backend.
func retryableClass(err error) bool {
	switch classOf(err) {
	case ErrorClassAuth, ErrorClassQuota, ErrorClassMalformed:
		return false
	}
	return true
}

// APIClient is one summary backend. SendRequest returns the raw model
// output for a prompt; Name is the lowercase provider identifier recorded
// on results.
type APIClient interface {
	SendRequest(ctx context.Context, prompt string, maxTokens int) (string, error)
	Name() string
}
