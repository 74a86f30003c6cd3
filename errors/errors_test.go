package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	underlying := stderrors.New("boom")

	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "op only",
			err:  NewError("upload", underlying),
			want: "b2.upload: boom",
		},
		{
			name: "bucket only",
			err:  NewBucketError("createBucket", "my-bucket", underlying),
			want: "b2.createBucket bucket my-bucket: boom",
		},
		{
			name: "key only",
			err:  NewError("hideFile", underlying).WithKey("doc.txt"),
			want: "b2.hideFile file doc.txt: boom",
		},
		{
			name: "bucket and key",
			err:  NewBucketError("upload", "my-bucket", underlying).WithKey("doc.txt"),
			want: "b2.upload my-bucket/doc.txt: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	err := NewBucketError("download", "my-bucket", ErrFileNotFound).WithKey("doc.txt")

	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.True(t, IsFileNotFound(err))
	assert.False(t, IsBucketNotFound(err))
}

func TestWithMessageKeepsSentinel(t *testing.T) {
	err := NewError("validateFileName", ErrInvalidFileName).WithMessage("file name cannot be empty")

	assert.ErrorIs(t, err, ErrInvalidFileName)
	assert.Contains(t, err.Error(), "file name cannot be empty")
}
