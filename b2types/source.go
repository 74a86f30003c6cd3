package b2types

import (
	"bytes"
	"io"

	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/input-output-hk/catalyst-forge-libs/b2/errors"
)

// UploadSource abstracts a byte-producing origin for uploads. Sources must
// support opening a bounded-range reader at an arbitrary offset any number
// of times: a failed transfer consumes its reader, and the retry re-reads
// the exact same range.
type UploadSource interface {
	// Size returns the total length in bytes.
	Size() int64

	// Open returns a reader positioned at offset that yields exactly
	// length bytes. Each call returns a fresh, independent reader.
	Open(offset, length int64) (io.ReadCloser, error)
}

// BytesSource is an UploadSource over an in-memory buffer.
type BytesSource struct {
	data []byte
}

// NewBytesSource creates an UploadSource over data. The slice is not copied;
// the caller must not mutate it while the upload is in flight.
func NewBytesSource(data []byte) *BytesSource {
	return &BytesSource{data: data}
}

// Size returns the buffer length.
func (s *BytesSource) Size() int64 {
	return int64(len(s.data))
}

// Open returns a reader over data[offset : offset+length].
func (s *BytesSource) Open(offset, length int64) (io.ReadCloser, error) {
	if offset < 0 || length < 0 || offset+length > int64(len(s.data)) {
		return nil, errors.NewError("openSource", errors.ErrInvalidInput).
			WithMessage("byte range out of bounds")
	}
	return io.NopCloser(bytes.NewReader(s.data[offset : offset+length])), nil
}

// FileSource is an UploadSource backed by a file on a filesystem.
type FileSource struct {
	fsys fs.Filesystem
	path string
	size int64
}

// NewFileSource creates an UploadSource for the file at path. The size is
// captured at creation time; the file must not change during the upload.
func NewFileSource(fsys fs.Filesystem, path string) (*FileSource, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, errors.NewError("openSource", err).WithKey(path)
	}
	if info.IsDir() {
		return nil, errors.NewError("openSource", errors.ErrInvalidInput).
			WithKey(path).
			WithMessage("path points to a directory, not a file")
	}
	return &FileSource{fsys: fsys, path: path, size: info.Size()}, nil
}

// Size returns the file length captured at creation time.
func (s *FileSource) Size() int64 {
	return s.size
}

// Open opens the file and returns a reader over the requested range.
// The file handle is closed when the returned reader is closed.
func (s *FileSource) Open(offset, length int64) (io.ReadCloser, error) {
	if offset < 0 || length < 0 || offset+length > s.size {
		return nil, errors.NewError("openSource", errors.ErrInvalidInput).
			WithKey(s.path).
			WithMessage("byte range out of bounds")
	}
	f, err := s.fsys.Open(s.path)
	if err != nil {
		return nil, errors.NewError("openSource", err).WithKey(s.path)
	}
	return &sectionReadCloser{
		SectionReader: io.NewSectionReader(f, offset, length),
		closer:        f,
	}, nil
}

type sectionReadCloser struct {
	*io.SectionReader
	closer io.Closer
}

func (r *sectionReadCloser) Close() error {
	return r.closer.Close()
}

// NewReaderSource buffers r fully in memory and returns a re-readable
// source over it. Use this for streams whose length is not known upfront;
// large payloads are better served by NewFileSource.
func NewReaderSource(r io.Reader) (*BytesSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewError("openSource", err)
	}
	return NewBytesSource(data), nil
}
