// Package errors provides error types and handling for B2 operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a B2 operation error with context about the operation that
// failed. It wraps the underlying transport or service error with additional
// context for better debugging.
type Error struct {
	// Op is the operation that failed (e.g., "upload", "ls", "finishLargeFile")
	Op string

	// Bucket is the B2 bucket name (if applicable)
	Bucket string

	// Key is the file name or file id (if applicable)
	Key string

	// Err is the underlying error from the transport or other source
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("b2.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("b2.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("b2.%s file %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("b2.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds file name context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// NewBucketError creates a new Error with bucket context.
func NewBucketError(op, bucket string, err error) *Error {
	return &Error{
		Op:     op,
		Bucket: bucket,
		Err:    err,
	}
}

// Sentinel errors for common B2 operation failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("b2: invalid input")

	// ErrBucketNotFound indicates that the requested bucket does not exist
	ErrBucketNotFound = errors.New("b2: bucket not found")

	// ErrFileNotFound indicates that the requested file does not exist
	ErrFileNotFound = errors.New("b2: file not found")

	// ErrBucketAlreadyExists indicates that the bucket already exists
	ErrBucketAlreadyExists = errors.New("b2: bucket already exists")

	// ErrInvalidBucketName indicates that the bucket name is invalid
	ErrInvalidBucketName = errors.New("b2: invalid bucket name")

	// ErrInvalidFileName indicates that the file name is invalid
	ErrInvalidFileName = errors.New("b2: invalid file name")

	// ErrChecksumMismatch indicates that content digests don't match
	ErrChecksumMismatch = errors.New("b2: checksum mismatch")

	// ErrPartOutOfSequence indicates a part sequence that is not contiguous from 1
	ErrPartOutOfSequence = errors.New("b2: part out of sequence")
)

// IsBucketNotFound checks if an error indicates that a bucket was not found.
func IsBucketNotFound(err error) bool {
	return errors.Is(err, ErrBucketNotFound)
}

// IsFileNotFound checks if an error indicates that a file was not found.
func IsFileNotFound(err error) bool {
	return errors.Is(err, ErrFileNotFound)
}

// IsInvalidInput checks if an error indicates invalid input.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
