package multipart

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/input-output-hk/catalyst-forge-libs/b2/b2types"
	"github.com/input-output-hk/catalyst-forge-libs/b2/errors"
	"github.com/input-output-hk/catalyst-forge-libs/b2/internal/progress"
	"github.com/input-output-hk/catalyst-forge-libs/b2/internal/rawapi"
)

const (
	// DefaultMaxRetries is the per-transfer retry budget when none is configured.
	DefaultMaxRetries = 5

	// defaultRetryDelay seeds the exponential backoff between attempts.
	defaultRetryDelay = 100 * time.Millisecond
)

// Uploader orchestrates uploads against the raw API.
type Uploader struct {
	api rawapi.API
	log *slog.Logger
}

// NewUploader creates an upload orchestrator.
func NewUploader(api rawapi.API, log *slog.Logger) *Uploader {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Uploader{api: api, log: log}
}

// Config holds the per-upload settings resolved by the caller.
type Config struct {
	ContentType string
	Metadata    map[string]string
	Listener    b2types.ProgressListener

	// MinPartSize is the multipart threshold: sources smaller than this
	// upload in a single shot.
	MinPartSize int64

	// Concurrency bounds the number of parts transferring at once.
	// Values below 2 mean sequential part uploads.
	Concurrency int

	// MaxRetries is the per-part retry budget; each part is attempted at
	// most MaxRetries+1 times.
	MaxRetries int

	// RetryDelay seeds the exponential backoff between retry attempts.
	RetryDelay time.Duration
}

// Upload transfers source to bucketID/name and returns the resulting
// FileVersion. Sources below the part-size threshold upload in one shot;
// larger sources are split into parts, transferred with the configured
// concurrency, and finished server-side.
//
// If any part permanently fails, the large file is left unfinished and
// discoverable through the unfinished-file listing; it is not deleted here.
func (u *Uploader) Upload(
	ctx context.Context,
	bucketID, name string,
	source b2types.UploadSource,
	cfg *Config,
) (*b2types.FileVersion, error) {
	size := source.Size()
	agg := progress.NewAggregator(size, cfg.Listener)

	if size < cfg.MinPartSize {
		return u.uploadSingle(ctx, bucketID, name, source, cfg, agg)
	}

	// All non-final parts share one size; the final part may be smaller.
	count := (size + cfg.MinPartSize - 1) / cfg.MinPartSize
	partSize := (size + count - 1) / count

	started, err := u.api.StartLargeFile(ctx, bucketID, name, cfg.ContentType, cfg.Metadata)
	if err != nil {
		return nil, err
	}

	sha1s := make([]string, count)
	g, gctx := errgroup.WithContext(ctx)
	limit := cfg.Concurrency
	if limit < 1 {
		limit = 1
	}
	g.SetLimit(limit)

	for i := range int(count) {
		offset := int64(i) * partSize
		length := min(partSize, size-offset)
		part := agg.Part()

		g.Go(func() error {
			// A failed sibling cancels gctx; parts not yet started are
			// abandoned rather than attempted.
			if err := gctx.Err(); err != nil {
				return err
			}
			uploaded, err := u.uploadPart(gctx, started.ID, i+1, offset, length, source, cfg, part)
			if err != nil {
				return err
			}
			sha1s[i] = uploaded.SHA1
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return u.api.FinishLargeFile(ctx, started.ID, sha1s)
}

// uploadSingle performs a one-shot upload through the same retry loop a
// part transfer uses.
func (u *Uploader) uploadSingle(
	ctx context.Context,
	bucketID, name string,
	source b2types.UploadSource,
	cfg *Config,
	agg *progress.Aggregator,
) (*b2types.FileVersion, error) {
	size := source.Size()
	part := agg.Part()

	var version *b2types.FileVersion
	err := u.withRetry(ctx, cfg, name, func() error {
		rc, err := source.Open(0, size)
		if err != nil {
			return err
		}
		defer rc.Close()

		version, err = u.api.UploadFile(
			ctx, bucketID, name, cfg.ContentType, cfg.Metadata,
			progress.Reader(rc, part), size,
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return version, nil
}

// uploadPart transfers one part, retrying on retryable failures with a
// fresh range reader per attempt.
func (u *Uploader) uploadPart(
	ctx context.Context,
	fileID string,
	number int,
	offset, length int64,
	source b2types.UploadSource,
	cfg *Config,
	part *progress.PartProgress,
) (*b2types.Part, error) {
	var uploaded *b2types.Part
	err := u.withRetry(ctx, cfg, fileID, func() error {
		// A failed transfer consumes its reader, so every attempt
		// re-acquires one over the exact byte range.
		rc, err := source.Open(offset, length)
		if err != nil {
			return err
		}
		defer rc.Close()

		uploaded, err = u.api.UploadPart(ctx, fileID, number, progress.Reader(rc, part), length)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uploaded, nil
}

// withRetry runs fn up to cfg.MaxRetries+1 times. Fatal errors propagate
// unwrapped on first sight; exhausting the budget on retryable errors fails
// with MaxRetriesError wrapping the last one.
func (u *Uploader) withRetry(ctx context.Context, cfg *Config, key string, fn func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = cfg.RetryDelay
	if bo.InitialInterval <= 0 {
		bo.InitialInterval = defaultRetryDelay
	}
	bo.MaxElapsedTime = 0

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, bo.NextBackOff()); err != nil {
				return err
			}
		}

		err := fn()
		if err == nil {
			return nil
		}
		if !errors.IsRetryable(err) {
			return err
		}
		lastErr = err
		u.log.Debug("retrying transfer",
			slog.String("file", key),
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()),
		)
	}

	return &errors.MaxRetriesError{Attempts: cfg.MaxRetries + 1, LastErr: lastErr}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
