package b2

import (
	"context"
	"log/slog"

	"github.com/input-output-hk/catalyst-forge-libs/fs"
	"github.com/input-output-hk/catalyst-forge-libs/fs/billy"

	"github.com/input-output-hk/catalyst-forge-libs/b2/b2types"
	"github.com/input-output-hk/catalyst-forge-libs/b2/errors"
	"github.com/input-output-hk/catalyst-forge-libs/b2/internal/rawapi"
	"github.com/input-output-hk/catalyst-forge-libs/b2/internal/transfer/multipart"
	"github.com/input-output-hk/catalyst-forge-libs/b2/internal/validation"
)

// Client represents a B2 client with configurable options.
// It provides access to bucket management and, through Bucket, to upload,
// download, and listing operations with built-in retry logic, concurrency
// control, and progress tracking.
type Client struct {
	// api is the underlying raw service API
	api rawapi.API

	// config holds the resolved client configuration
	config b2types.ClientConfig

	// fs is the filesystem abstraction for file operations
	fs fs.Filesystem

	// log receives debug-level operational events
	log *slog.Logger
}

// New creates a new B2 client over the given raw API with the provided
// options.
//
// Example:
//
//	client, err := b2.New(api,
//	    b2.WithConcurrency(4),
//	    b2.WithMaxRetries(3),
//	)
func New(api rawapi.API, opts ...b2types.Option) (*Client, error) {
	if api == nil {
		return nil, errors.NewError("client initialization", errors.ErrInvalidInput).
			WithMessage("api must not be nil")
	}

	clientCfg := b2types.ClientConfig{
		MaxRetries:  multipart.DefaultMaxRetries,
		Concurrency: 1, // sequential part uploads by default
	}
	for _, opt := range opts {
		opt(&clientCfg)
	}

	if clientCfg.MinPartSize <= 0 {
		clientCfg.MinPartSize = api.MinPartSize()
	}

	filesystem := clientCfg.Filesystem
	if filesystem == nil {
		filesystem = billy.NewOSFS("/")
	}

	log := clientCfg.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Client{
		api:    api,
		config: clientCfg,
		fs:     filesystem,
		log:    log,
	}, nil
}

// CreateBucket creates a bucket and returns a handle to it.
// bucketType is the bucket visibility, "allPublic" or "allPrivate".
func (c *Client) CreateBucket(ctx context.Context, name, bucketType string) (*Bucket, error) {
	if err := validation.ValidateBucketName(name); err != nil {
		return nil, err
	}

	info, err := c.api.CreateBucket(ctx, name, bucketType)
	if err != nil {
		return nil, errors.NewBucketError("createBucket", name, err)
	}
	c.log.Debug("created bucket", slog.String("bucket", name), slog.String("id", info.ID))

	return c.bucket(info), nil
}

// BucketByName returns a handle to an existing bucket.
// Returns ErrBucketNotFound if no bucket has that name.
func (c *Client) BucketByName(ctx context.Context, name string) (*Bucket, error) {
	buckets, err := c.api.ListBuckets(ctx)
	if err != nil {
		return nil, errors.NewBucketError("bucketByName", name, err)
	}
	for i := range buckets {
		if buckets[i].Name == name {
			return c.bucket(&buckets[i]), nil
		}
	}
	return nil, errors.NewBucketError("bucketByName", name, errors.ErrBucketNotFound)
}

// ListBuckets returns all buckets for the account.
func (c *Client) ListBuckets(ctx context.Context) ([]b2types.BucketInfo, error) {
	buckets, err := c.api.ListBuckets(ctx)
	if err != nil {
		return nil, errors.NewError("listBuckets", err)
	}
	return buckets, nil
}

// DeleteBucket deletes the named bucket. The bucket must be empty.
func (c *Client) DeleteBucket(ctx context.Context, name string) error {
	bucket, err := c.BucketByName(ctx, name)
	if err != nil {
		return err
	}
	if err := c.api.DeleteBucket(ctx, bucket.ID); err != nil {
		return errors.NewBucketError("deleteBucket", name, err)
	}
	return nil
}

func (c *Client) bucket(info *b2types.BucketInfo) *Bucket {
	return &Bucket{
		client: c,
		ID:     info.ID,
		Name:   info.Name,
		Type:   info.Type,
	}
}
