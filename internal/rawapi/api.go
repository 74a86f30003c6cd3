// Package rawapi defines the boundary to the remote B2 service.
//
// Implementations execute individual request/response operations and attach
// a retryable/fatal classification to every transfer failure. The in-memory
// simulator implements this interface for tests; a wire transport would
// implement it over HTTP.
package rawapi

import (
	"context"
	"io"

	"github.com/input-output-hk/catalyst-forge-libs/b2/b2types"
)

// API is the set of remote operations the client orchestrates.
//
// Listing operations return continuation cursors: the zero value ("" or 0)
// signals that no further page exists. Cursors are inclusive start positions
// for the next request.
type API interface {
	// MinPartSize returns the smallest part size the service accepts,
	// used as the default multipart threshold.
	MinPartSize() int64

	// CreateBucket creates a bucket and returns its record.
	CreateBucket(ctx context.Context, name, bucketType string) (*b2types.BucketInfo, error)

	// DeleteBucket deletes an empty bucket.
	DeleteBucket(ctx context.Context, bucketID string) error

	// ListBuckets returns all buckets for the account.
	ListBuckets(ctx context.Context) ([]b2types.BucketInfo, error)

	// UploadFile performs a single-shot upload of size bytes read from r.
	UploadFile(
		ctx context.Context,
		bucketID, name, contentType string,
		metadata map[string]string,
		r io.Reader,
		size int64,
	) (*b2types.FileVersion, error)

	// DownloadFileByName returns a reader over the newest version of the
	// named file, along with its version record.
	DownloadFileByName(ctx context.Context, bucketName, fileName string) (io.ReadCloser, *b2types.FileVersion, error)

	// HideFile records a hide marker for the named file.
	HideFile(ctx context.Context, bucketID, fileName string) (*b2types.FileVersion, error)

	// StartLargeFile begins a multipart transfer and returns a FileVersion
	// with action "start" whose ID accepts part uploads.
	StartLargeFile(
		ctx context.Context,
		bucketID, name, contentType string,
		metadata map[string]string,
	) (*b2types.FileVersion, error)

	// UploadPart transfers one part. Re-uploading a part number overwrites
	// the previous record for that number.
	UploadPart(ctx context.Context, fileID string, partNumber int, r io.Reader, size int64) (*b2types.Part, error)

	// FinishLargeFile assembles the uploaded parts, verifying the ordered
	// digest list, and returns the finished FileVersion.
	FinishLargeFile(ctx context.Context, fileID string, partSHA1s []string) (*b2types.FileVersion, error)

	// ListParts returns one page of parts ordered by part number ascending,
	// starting at startPart. nextPart is 0 when the listing is exhausted.
	ListParts(ctx context.Context, fileID string, startPart, count int) (parts []b2types.Part, nextPart int, err error)

	// ListUnfinishedLargeFiles returns one page of large files with action
	// "start" in creation order. nextFileID is "" when exhausted.
	ListUnfinishedLargeFiles(
		ctx context.Context,
		bucketID, startFileID string,
		count int,
	) (files []b2types.FileVersion, nextFileID string, err error)

	// ListFileVersions returns one page of all file versions ordered by
	// (name, newest first). Both cursors are "" when exhausted.
	ListFileVersions(
		ctx context.Context,
		bucketID, startName, startID string,
		count int,
	) (files []b2types.FileVersion, nextName, nextID string, err error)

	// ListFileNames returns one page of the newest version per name,
	// ordered by name. nextName is "" when exhausted.
	ListFileNames(
		ctx context.Context,
		bucketID, startName string,
		count int,
	) (files []b2types.FileVersion, nextName string, err error)
}
