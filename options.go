package b2

import (
	"log/slog"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/fs"

	"github.com/input-output-hk/catalyst-forge-libs/b2/b2types"
)

// Client options

// WithMaxRetries sets the default per-transfer retry budget. Each request is
// attempted at most n+1 times before giving up.
func WithMaxRetries(n int) b2types.Option {
	return func(cfg *b2types.ClientConfig) {
		cfg.MaxRetries = n
	}
}

// WithConcurrency sets the default number of parts transferred at once
// during multipart uploads. Values below 2 mean sequential part uploads.
func WithConcurrency(n int) b2types.Option {
	return func(cfg *b2types.ClientConfig) {
		cfg.Concurrency = n
	}
}

// WithMinPartSize overrides the multipart threshold and part size floor.
// When unset, the service's advertised minimum is used.
func WithMinPartSize(size int64) b2types.Option {
	return func(cfg *b2types.ClientConfig) {
		cfg.MinPartSize = size
	}
}

// WithRetryDelay seeds the exponential backoff between retry attempts.
func WithRetryDelay(d time.Duration) b2types.Option {
	return func(cfg *b2types.ClientConfig) {
		cfg.RetryDelay = d
	}
}

// WithFilesystem sets the filesystem abstraction used by file-based
// operations such as Bucket.UploadFile. Defaults to the OS filesystem.
func WithFilesystem(fsys fs.Filesystem) b2types.Option {
	return func(cfg *b2types.ClientConfig) {
		cfg.Filesystem = fsys
	}
}

// WithLogger sets the logger for debug-level operational events.
// By default nothing is logged.
func WithLogger(log *slog.Logger) b2types.Option {
	return func(cfg *b2types.ClientConfig) {
		cfg.Logger = log
	}
}

// Upload options

// WithContentType sets the MIME type recorded for the upload, bypassing
// content-based detection.
func WithContentType(contentType string) b2types.UploadOption {
	return func(cfg *b2types.UploadOptionConfig) {
		cfg.ContentType = contentType
	}
}

// WithMetadata attaches key/value metadata to the uploaded file.
func WithMetadata(metadata map[string]string) b2types.UploadOption {
	return func(cfg *b2types.UploadOptionConfig) {
		cfg.Metadata = metadata
	}
}

// WithProgressListener registers a listener for transfer progress. The
// listener is told the total size once, then receives monotonically
// increasing cumulative byte counts.
func WithProgressListener(listener b2types.ProgressListener) b2types.UploadOption {
	return func(cfg *b2types.UploadOptionConfig) {
		cfg.Listener = listener
	}
}

// WithUploadConcurrency overrides the client's part concurrency for one
// upload.
func WithUploadConcurrency(n int) b2types.UploadOption {
	return func(cfg *b2types.UploadOptionConfig) {
		cfg.Concurrency = n
	}
}

// WithUploadMaxRetries overrides the client's retry budget for one upload.
func WithUploadMaxRetries(n int) b2types.UploadOption {
	return func(cfg *b2types.UploadOptionConfig) {
		cfg.MaxRetries = n
	}
}

// WithUploadMinPartSize overrides the multipart threshold for one upload.
func WithUploadMinPartSize(size int64) b2types.UploadOption {
	return func(cfg *b2types.UploadOptionConfig) {
		cfg.MinPartSize = size
	}
}

// WithRetryInterval overrides the initial backoff delay for one upload.
func WithRetryInterval(d time.Duration) b2types.UploadOption {
	return func(cfg *b2types.UploadOptionConfig) {
		cfg.RetryDelay = d
	}
}

// List options

// WithAllVersions lists every version of each name, newest first, instead
// of collapsing to the current one.
func WithAllVersions() b2types.ListOption {
	return func(cfg *b2types.ListOptionConfig) {
		cfg.AllVersions = true
	}
}

// WithFetchCount sets the number of entries requested per underlying page.
func WithFetchCount(n int) b2types.ListOption {
	return func(cfg *b2types.ListOptionConfig) {
		cfg.FetchCount = n
	}
}
