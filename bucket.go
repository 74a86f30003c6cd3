package b2

import (
	"context"
	"io"

	"github.com/gabriel-vasile/mimetype"

	"github.com/input-output-hk/catalyst-forge-libs/b2/b2types"
	"github.com/input-output-hk/catalyst-forge-libs/b2/errors"
	"github.com/input-output-hk/catalyst-forge-libs/b2/internal/operations/list"
	"github.com/input-output-hk/catalyst-forge-libs/b2/internal/pool"
	"github.com/input-output-hk/catalyst-forge-libs/b2/internal/transfer/multipart"
	"github.com/input-output-hk/catalyst-forge-libs/b2/internal/validation"
)

// sniffLength is how many leading bytes are read for content-type detection.
const sniffLength = 3072

// Bucket is a handle to one bucket, obtained from Client.CreateBucket or
// Client.BucketByName. All file operations go through a Bucket.
type Bucket struct {
	client *Client

	// ID is the service-assigned bucket identifier
	ID string

	// Name is the bucket name
	Name string

	// Type is the bucket visibility
	Type string
}

// Upload transfers source to the named file and returns the resulting
// version. Sources smaller than the part-size threshold upload in a single
// request; larger sources are split into parts, transferred with the
// configured concurrency, and finished server-side. Transient failures are
// retried per part with exponential backoff.
//
// When no content type is set, one is detected from the leading bytes of
// the source.
func (b *Bucket) Upload(
	ctx context.Context,
	name string,
	source b2types.UploadSource,
	opts ...b2types.UploadOption,
) (*b2types.FileVersion, error) {
	if err := validation.ValidateFileName(name); err != nil {
		return nil, err
	}

	cfg := b.uploadConfig(opts)
	if cfg.ContentType == "" {
		contentType, err := detectContentType(source)
		if err != nil {
			return nil, errors.NewBucketError("upload", b.Name, err).WithKey(name)
		}
		cfg.ContentType = contentType
	}

	uploader := multipart.NewUploader(b.client.api, b.client.log)
	version, err := uploader.Upload(ctx, b.ID, name, source, cfg)
	if err != nil {
		return nil, errors.NewBucketError("upload", b.Name, err).WithKey(name)
	}
	return version, nil
}

// UploadBytes uploads an in-memory payload to the named file.
func (b *Bucket) UploadBytes(
	ctx context.Context,
	name string,
	data []byte,
	opts ...b2types.UploadOption,
) (*b2types.FileVersion, error) {
	return b.Upload(ctx, name, b2types.NewBytesSource(data), opts...)
}

// UploadFile uploads a local file, read through the client's filesystem
// abstraction, to the named file.
func (b *Bucket) UploadFile(
	ctx context.Context,
	name, path string,
	opts ...b2types.UploadOption,
) (*b2types.FileVersion, error) {
	source, err := b2types.NewFileSource(b.client.fs, path)
	if err != nil {
		return nil, errors.NewBucketError("upload", b.Name, err).WithKey(name)
	}
	return b.Upload(ctx, name, source, opts...)
}

// Download writes the newest version of the named file to w and returns its
// version record.
func (b *Bucket) Download(ctx context.Context, name string, w io.Writer) (*b2types.FileVersion, error) {
	rc, version, err := b.client.api.DownloadFileByName(ctx, b.Name, name)
	if err != nil {
		return nil, errors.NewBucketError("download", b.Name, err).WithKey(name)
	}
	defer rc.Close()

	buf := pool.GetCopyBuffer()
	defer pool.PutCopyBuffer(buf)

	if _, err := io.CopyBuffer(w, rc, buf); err != nil {
		return nil, errors.NewBucketError("download", b.Name, err).WithKey(name)
	}
	return version, nil
}

// HideFile records a hide marker for the named file, removing it and its
// older versions from name listings without deleting them.
func (b *Bucket) HideFile(ctx context.Context, name string) (*b2types.FileVersion, error) {
	if err := validation.ValidateFileName(name); err != nil {
		return nil, err
	}
	version, err := b.client.api.HideFile(ctx, b.ID, name)
	if err != nil {
		return nil, errors.NewBucketError("hideFile", b.Name, err).WithKey(name)
	}
	return version, nil
}

// StartLargeFile begins a multipart transfer without uploading any parts.
// The returned version has action "start"; its ID accepts part uploads and
// appears in the unfinished-file listing until finished or aborted.
func (b *Bucket) StartLargeFile(
	ctx context.Context,
	name string,
	opts ...b2types.UploadOption,
) (*b2types.FileVersion, error) {
	if err := validation.ValidateFileName(name); err != nil {
		return nil, err
	}

	cfg := b.uploadConfig(opts)
	if cfg.ContentType == "" {
		cfg.ContentType = "application/octet-stream"
	}

	version, err := b.client.api.StartLargeFile(ctx, b.ID, name, cfg.ContentType, cfg.Metadata)
	if err != nil {
		return nil, errors.NewBucketError("startLargeFile", b.Name, err).WithKey(name)
	}
	return version, nil
}

// Ls streams a folder view of the bucket under prefix: direct children are
// yielded as leaf entries, deeper names are grouped into folder markers
// emitted once per folder. With WithAllVersions, every version of each leaf
// is yielded, newest first, instead of only the current one.
//
// Entries arrive lazily as pages are fetched. The channel closes when the
// listing is exhausted or after an error entry; cancel ctx to stop early.
func (b *Bucket) Ls(ctx context.Context, prefix string, opts ...b2types.ListOption) <-chan b2types.LsResult {
	cfg := listConfig(opts)
	lister := list.New(b.client.api, b.client.log)
	return lister.Ls(ctx, &list.Config{
		BucketID:    b.ID,
		Prefix:      prefix,
		AllVersions: cfg.AllVersions,
		FetchCount:  cfg.FetchCount,
	})
}

// ListParts streams the uploaded parts of a large file, ordered by part
// number ascending.
func (b *Bucket) ListParts(ctx context.Context, fileID string, opts ...b2types.ListOption) <-chan b2types.PartResult {
	cfg := listConfig(opts)
	lister := list.New(b.client.api, b.client.log)
	return lister.Parts(ctx, fileID, cfg.FetchCount)
}

// ListUnfinishedLargeFiles streams the large files that were started but
// never finished, in creation order.
func (b *Bucket) ListUnfinishedLargeFiles(ctx context.Context, opts ...b2types.ListOption) <-chan b2types.FileVersionResult {
	cfg := listConfig(opts)
	lister := list.New(b.client.api, b.client.log)
	return lister.Unfinished(ctx, b.ID, cfg.FetchCount)
}

// uploadConfig resolves per-upload settings from the client defaults and
// the given options.
func (b *Bucket) uploadConfig(opts []b2types.UploadOption) *multipart.Config {
	optCfg := b2types.UploadOptionConfig{
		MinPartSize: b.client.config.MinPartSize,
		Concurrency: b.client.config.Concurrency,
		MaxRetries:  b.client.config.MaxRetries,
		RetryDelay:  b.client.config.RetryDelay,
	}
	for _, opt := range opts {
		opt(&optCfg)
	}
	return &multipart.Config{
		ContentType: optCfg.ContentType,
		Metadata:    optCfg.Metadata,
		Listener:    optCfg.Listener,
		MinPartSize: optCfg.MinPartSize,
		Concurrency: optCfg.Concurrency,
		MaxRetries:  optCfg.MaxRetries,
		RetryDelay:  optCfg.RetryDelay,
	}
}

func listConfig(opts []b2types.ListOption) b2types.ListOptionConfig {
	var cfg b2types.ListOptionConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// detectContentType sniffs the MIME type from the leading bytes of source.
func detectContentType(source b2types.UploadSource) (string, error) {
	length := min(source.Size(), sniffLength)
	rc, err := source.Open(0, length)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	head, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	return mimetype.Detect(head).String(), nil
}
