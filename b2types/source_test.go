package b2types

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"
)

func readRange(t *testing.T, source UploadSource, offset, length int64) []byte {
	t.Helper()
	rc, err := source.Open(offset, length)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return data
}

func TestBytesSource(t *testing.T) {
	source := NewBytesSource([]byte("hello world"))

	assert.Equal(t, int64(11), source.Size())
	assert.Equal(t, []byte("hello world"), readRange(t, source, 0, 11))
	assert.Equal(t, []byte("world"), readRange(t, source, 6, 5))
	assert.Empty(t, readRange(t, source, 0, 0))
}

func TestBytesSourceRangeOutOfBounds(t *testing.T) {
	source := NewBytesSource([]byte("hello"))

	tests := []struct {
		name           string
		offset, length int64
	}{
		{name: "negative offset", offset: -1, length: 1},
		{name: "negative length", offset: 0, length: -1},
		{name: "past end", offset: 3, length: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := source.Open(tt.offset, tt.length)
			assert.Error(t, err)
		})
	}
}

func TestBytesSourceRepeatedOpens(t *testing.T) {
	source := NewBytesSource([]byte("hello world"))

	// The same range must be re-readable any number of times.
	first := readRange(t, source, 6, 5)
	second := readRange(t, source, 6, 5)
	assert.Equal(t, first, second)
}

func TestFileSource(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	require.NoError(t, fsys.WriteFile("data/payload.bin", []byte("hello world"), 0o644))

	source, err := NewFileSource(fsys, "data/payload.bin")
	require.NoError(t, err)

	assert.Equal(t, int64(11), source.Size())
	assert.Equal(t, []byte("hello world"), readRange(t, source, 0, 11))
	assert.Equal(t, []byte("world"), readRange(t, source, 6, 5))
}

func TestFileSourceMissingFile(t *testing.T) {
	fsys := billy.NewInMemoryFS()

	_, err := NewFileSource(fsys, "missing.bin")
	assert.Error(t, err)
}

func TestReaderSource(t *testing.T) {
	source, err := NewReaderSource(strings.NewReader("hello world"))
	require.NoError(t, err)

	assert.Equal(t, int64(11), source.Size())
	assert.Equal(t, []byte("world"), readRange(t, source, 6, 5))
}
