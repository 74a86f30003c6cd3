// Package b2types provides shared type definitions for the B2 module.
package b2types

import (
	"log/slog"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
)

// Action identifies what kind of record a FileVersion is.
type Action string

// Predefined file version actions
const (
	// ActionUpload is a finished, downloadable file version
	ActionUpload Action = "upload"

	// ActionHide hides all older versions of the same name from name listings
	ActionHide Action = "hide"

	// ActionStart is a large file that was begun but not finished or aborted
	ActionStart Action = "start"
)

// FileVersion is one immutable, named, versioned object record in a bucket.
// The service assigns ids so that listing versions of a name returns the
// newest first.
type FileVersion struct {
	// ID is the opaque, service-assigned file identifier
	ID string

	// Name is the path-like file name
	Name string

	// Size is the content length in bytes
	Size int64

	// ContentType is the MIME type recorded at upload time
	ContentType string

	// Action distinguishes uploads, hide markers, and unfinished large files
	Action Action

	// UploadTimestamp is when the version was created
	UploadTimestamp time.Time
}

// Part is one uploaded slice of a large file, identified by
// (file id, part number). Part numbers are contiguous starting at 1.
type Part struct {
	// FileID is the parent large file identifier
	FileID string

	// Number is the 1-based part sequence number
	Number int

	// Size is the part length in bytes
	Size int64

	// SHA1 is the hex digest of the part content
	SHA1 string
}

// BucketInfo describes a bucket as reported by the service.
type BucketInfo struct {
	// ID is the service-assigned bucket identifier
	ID string

	// Name is the bucket name
	Name string

	// Type is the bucket visibility ("allPublic" or "allPrivate")
	Type string
}

// ListEntry is one result of a folder listing. Either FileVersion is set
// (a direct leaf entry) or Folder is set (a synthetic folder marker for a
// common path prefix, emitted once per folder).
type ListEntry struct {
	// FileVersion is the file record, nil for folder markers
	FileVersion *FileVersion

	// Folder is the folder path including the trailing slash, empty for leaves
	Folder string
}

// LsResult wraps a listing entry or error for channel-based delivery.
type LsResult struct {
	Entry ListEntry
	Err   error
}

// PartResult wraps a part record or error for channel-based delivery.
type PartResult struct {
	Part Part
	Err  error
}

// FileVersionResult wraps a file version or error for channel-based delivery.
type FileVersionResult struct {
	FileVersion FileVersion
	Err         error
}

// Configuration types for functional options

// ClientConfig holds configuration for the B2 client.
type ClientConfig struct {
	MaxRetries  int
	Concurrency int
	MinPartSize int64
	RetryDelay  time.Duration
	Filesystem  fs.Filesystem // Filesystem abstraction for file operations
	Logger      *slog.Logger
}

// UploadOptionConfig holds configuration for upload operations via functional options.
type UploadOptionConfig struct {
	ContentType string
	Metadata    map[string]string
	Listener    ProgressListener
	MinPartSize int64
	Concurrency int
	MaxRetries  int
	RetryDelay  time.Duration
}

// ListOptionConfig holds configuration for listing operations via functional options.
type ListOptionConfig struct {
	AllVersions bool
	FetchCount  int
}

// Option is a functional option for configuring the B2 client.
type (
	Option func(*ClientConfig)
	// UploadOption is a functional option for configuring upload operations.
	UploadOption func(*UploadOptionConfig)
	// ListOption is a functional option for configuring listing operations.
	ListOption func(*ListOptionConfig)
)
