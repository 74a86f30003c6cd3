package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/b2/errors"
)

func TestValidateBucketName(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		wantErr bool
	}{
		{
			name:   "valid simple name",
			bucket: "my-bucket",
		},
		{
			name:   "valid with digits",
			bucket: "bucket-2024-backup",
		},
		{
			name:   "valid minimum length",
			bucket: "bucket",
		},
		{
			name:   "valid maximum length",
			bucket: strings.Repeat("a", 50),
		},
		{
			name:    "too short",
			bucket:  "abc",
			wantErr: true,
		},
		{
			name:    "too long",
			bucket:  strings.Repeat("a", 51),
			wantErr: true,
		},
		{
			name:    "empty",
			bucket:  "",
			wantErr: true,
		},
		{
			name:    "uppercase letters",
			bucket:  "My-Bucket",
			wantErr: true,
		},
		{
			name:    "underscore",
			bucket:  "my_bucket",
			wantErr: true,
		},
		{
			name:    "leading hyphen",
			bucket:  "-bucket",
			wantErr: true,
		},
		{
			name:    "trailing hyphen",
			bucket:  "bucket-",
			wantErr: true,
		},
		{
			name:    "spaces",
			bucket:  "my bucket",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBucketName(tt.bucket)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidBucketName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFileName(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		wantErr  bool
	}{
		{
			name:     "valid simple name",
			fileName: "hello.txt",
		},
		{
			name:     "valid nested path",
			fileName: "photos/2024/kitten.jpg",
		},
		{
			name:     "valid maximum length",
			fileName: strings.Repeat("a", 1024),
		},
		{
			name:     "empty",
			fileName: "",
			wantErr:  true,
		},
		{
			name:     "too long",
			fileName: strings.Repeat("a", 1025),
			wantErr:  true,
		},
		{
			name:     "leading slash",
			fileName: "/hello.txt",
			wantErr:  true,
		},
		{
			name:     "dot segment",
			fileName: "photos/./kitten.jpg",
			wantErr:  true,
		},
		{
			name:     "dot-dot segment",
			fileName: "photos/../secret.txt",
			wantErr:  true,
		},
		{
			name:     "control character",
			fileName: "hello\x00world",
			wantErr:  true,
		},
		{
			name:     "newline",
			fileName: "hello\nworld",
			wantErr:  true,
		},
		{
			name:     "invalid utf-8",
			fileName: "hello\xff\xfe",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFileName(tt.fileName)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, errors.ErrInvalidFileName)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
