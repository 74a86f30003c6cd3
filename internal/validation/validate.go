package validation

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/input-output-hk/catalyst-forge-libs/b2/errors"
)

const (
	minBucketNameLength = 6
	maxBucketNameLength = 50
	maxFileNameBytes    = 1024
)

// ValidateBucketName validates that a bucket name complies with the
// service's naming rules: 6-50 characters, lowercase letters, digits, and
// hyphens, beginning and ending with a letter or digit.
// Returns ErrInvalidBucketName if the bucket name is invalid.
func ValidateBucketName(bucket string) error {
	if len(bucket) < minBucketNameLength || len(bucket) > maxBucketNameLength {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage("bucket name must be 6-50 characters")
	}

	for _, r := range bucket {
		if !isLowerAlnum(r) && r != '-' {
			return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
				WithBucket(bucket).
				WithMessage("bucket name may only contain lowercase letters, digits, and hyphens")
		}
	}

	if bucket[0] == '-' || bucket[len(bucket)-1] == '-' {
		return errors.NewError("validateBucketName", errors.ErrInvalidBucketName).
			WithBucket(bucket).
			WithMessage("bucket name must begin and end with a letter or digit")
	}

	return nil
}

// ValidateFileName validates that a file name is acceptable to the service.
// This includes preventing path traversal and ensuring valid characters.
func ValidateFileName(name string) error {
	if name == "" {
		return errors.NewError("validateFileName", errors.ErrInvalidFileName).
			WithMessage("file name cannot be empty")
	}

	if len(name) > maxFileNameBytes {
		return errors.NewError("validateFileName", errors.ErrInvalidFileName).
			WithKey(name).
			WithMessage("file name cannot exceed 1024 bytes")
	}

	if !utf8.ValidString(name) {
		return errors.NewError("validateFileName", errors.ErrInvalidFileName).
			WithKey(name).
			WithMessage("file name must be valid UTF-8")
	}

	if strings.HasPrefix(name, "/") {
		return errors.NewError("validateFileName", errors.ErrInvalidFileName).
			WithKey(name).
			WithMessage("file name cannot start with a slash")
	}

	if hasPathTraversal(name) {
		return errors.NewError("validateFileName", errors.ErrInvalidFileName).
			WithKey(name).
			WithMessage("file name cannot contain path traversal sequences")
	}

	if hasControlCharacters(name) {
		return errors.NewError("validateFileName", errors.ErrInvalidFileName).
			WithKey(name).
			WithMessage("file name cannot contain control characters")
	}

	return nil
}

// hasPathTraversal reports whether any path segment is "." or "..".
func hasPathTraversal(name string) bool {
	for _, segment := range strings.Split(name, "/") {
		if segment == "." || segment == ".." {
			return true
		}
	}
	return false
}

func hasControlCharacters(s string) bool {
	for _, r := range s {
		if unicode.IsControl(r) {
			return true
		}
	}
	return false
}

func isLowerAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}
