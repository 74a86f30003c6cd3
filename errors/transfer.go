package errors

import (
	"errors"
	"fmt"
)

// Every failure raised by the remote service carries a retryable/fatal
// classification. Transports report it through the ShouldRetry capability;
// the part uploader inspects it with IsRetryable and never special-cases
// concrete error types.

// Classifier is implemented by transfer errors that know whether the
// operation that produced them is safe to attempt again.
type Classifier interface {
	ShouldRetry() bool
}

// RetryableError marks a transfer failure as transient (network blip,
// throttling). The failed transfer may be retried with a fresh reader.
type RetryableError struct {
	Err error
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("b2: retryable: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *RetryableError) Unwrap() error { return e.Err }

// ShouldRetry reports that the transfer is safe to retry.
func (e *RetryableError) ShouldRetry() bool { return true }

// FatalError marks a transfer failure as permanent (auth, permission,
// validation). It is propagated immediately and never retried.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("b2: fatal: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *FatalError) Unwrap() error { return e.Err }

// ShouldRetry reports that the transfer must not be retried.
func (e *FatalError) ShouldRetry() bool { return false }

// MaxRetriesError indicates that a transfer exhausted its retry budget.
// It wraps the last retryable error observed.
type MaxRetriesError struct {
	// Attempts is the total number of attempts made, including the first.
	Attempts int

	// LastErr is the final retryable error before giving up.
	LastErr error
}

func (e *MaxRetriesError) Error() string {
	return fmt.Sprintf("b2: giving up after %d attempts: %v", e.Attempts, e.LastErr)
}

// Unwrap returns the last observed retryable error.
func (e *MaxRetriesError) Unwrap() error { return e.LastErr }

// IsRetryable reports whether err carries a retryable classification.
// Errors without a classification are treated as fatal.
func IsRetryable(err error) bool {
	var c Classifier
	if errors.As(err, &c) {
		return c.ShouldRetry()
	}
	return false
}

// IsMaxRetries checks if an error indicates an exhausted retry budget.
func IsMaxRetries(err error) bool {
	var m *MaxRetriesError
	return errors.As(err, &m)
}
