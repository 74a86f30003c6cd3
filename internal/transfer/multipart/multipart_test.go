package multipart

import (
	"context"
	stderrors "errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/b2/b2types"
	"github.com/input-output-hk/catalyst-forge-libs/b2/errors"
	"github.com/input-output-hk/catalyst-forge-libs/b2/internal/simulator"
	"github.com/input-output-hk/catalyst-forge-libs/b2/internal/testutil"
)

func testConfig(listener b2types.ProgressListener) *Config {
	return &Config{
		ContentType: "application/octet-stream",
		Listener:    listener,
		MinPartSize: simulator.MinPartSize,
		Concurrency: 1,
		MaxRetries:  DefaultMaxRetries,
		RetryDelay:  time.Millisecond,
	}
}

func newBucket(t *testing.T, sim *simulator.Simulator) *b2types.BucketInfo {
	t.Helper()
	info, err := sim.CreateBucket(context.Background(), "test-bucket", "allPublic")
	require.NoError(t, err)
	return info
}

func download(t *testing.T, sim *simulator.Simulator, bucketName, fileName string) []byte {
	t.Helper()
	rc, _, err := sim.DownloadFileByName(context.Background(), bucketName, fileName)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	return data
}

func TestUploadSingleShot(t *testing.T) {
	sim := simulator.New()
	bucket := newBucket(t, sim)
	uploader := NewUploader(sim, nil)

	data := testutil.DeterministicData(100)
	listener := &testutil.RecordingProgressListener{}

	version, err := uploader.Upload(
		context.Background(), bucket.ID, "small.bin",
		b2types.NewBytesSource(data), testConfig(listener),
	)
	require.NoError(t, err)

	assert.Equal(t, "small.bin", version.Name)
	assert.Equal(t, int64(len(data)), version.Size)
	assert.Equal(t, b2types.ActionUpload, version.Action)
	assert.Equal(t, data, download(t, sim, bucket.Name, "small.bin"))
}

func TestUploadZeroLength(t *testing.T) {
	sim := simulator.New()
	bucket := newBucket(t, sim)
	uploader := NewUploader(sim, nil)

	listener := &testutil.RecordingProgressListener{}
	version, err := uploader.Upload(
		context.Background(), bucket.ID, "empty.bin",
		b2types.NewBytesSource(nil), testConfig(listener),
	)
	require.NoError(t, err)

	assert.Equal(t, int64(0), version.Size)
	assert.Equal(t, "0:", listener.History())
	assert.Empty(t, download(t, sim, bucket.Name, "empty.bin"))
}

func TestUploadMultipart(t *testing.T) {
	sim := simulator.New()
	bucket := newBucket(t, sim)
	uploader := NewUploader(sim, nil)

	data := testutil.DeterministicData(600)
	listener := &testutil.RecordingProgressListener{}

	version, err := uploader.Upload(
		context.Background(), bucket.ID, "large.bin",
		b2types.NewBytesSource(data), testConfig(listener),
	)
	require.NoError(t, err)

	assert.Equal(t, int64(600), version.Size)
	assert.Equal(t, b2types.ActionUpload, version.Action)
	assert.Equal(t, data, download(t, sim, bucket.Name, "large.bin"))

	// Three sequential 200-byte parts report in order.
	assert.Equal(t, "600: 200 400 600", listener.History())
}

func TestUploadMultipartUnevenFinalPart(t *testing.T) {
	sim := simulator.New()
	bucket := newBucket(t, sim)
	uploader := NewUploader(sim, nil)

	// 500 bytes at a 200-byte floor makes three parts of 167, 167, 166.
	data := testutil.DeterministicData(500)
	version, err := uploader.Upload(
		context.Background(), bucket.ID, "uneven.bin",
		b2types.NewBytesSource(data), testConfig(nil),
	)
	require.NoError(t, err)

	assert.Equal(t, int64(500), version.Size)
	assert.Equal(t, data, download(t, sim, bucket.Name, "uneven.bin"))
}

func TestUploadMultipartConcurrent(t *testing.T) {
	sim := simulator.New()
	bucket := newBucket(t, sim)
	uploader := NewUploader(sim, nil)

	data := testutil.DeterministicData(2000)
	listener := &testutil.RecordingProgressListener{}
	cfg := testConfig(listener)
	cfg.Concurrency = 4

	_, err := uploader.Upload(
		context.Background(), bucket.ID, "concurrent.bin",
		b2types.NewBytesSource(data), cfg,
	)
	require.NoError(t, err)

	// Parts land in any order; the assembled content must not care.
	assert.Equal(t, data, download(t, sim, bucket.Name, "concurrent.bin"))
	assert.True(t, listener.Monotonic())
}

func TestUploadRetriesTransientErrors(t *testing.T) {
	sim := simulator.New()
	bucket := newBucket(t, sim)
	uploader := NewUploader(sim, nil)

	sim.SetUploadErrors([]error{
		&errors.RetryableError{Err: stderrors.New("connection reset")},
		&errors.RetryableError{Err: stderrors.New("timeout")},
	})

	data := testutil.DeterministicData(600)
	listener := &testutil.RecordingProgressListener{}

	_, err := uploader.Upload(
		context.Background(), bucket.ID, "flaky.bin",
		b2types.NewBytesSource(data), testConfig(listener),
	)
	require.NoError(t, err)

	assert.Equal(t, data, download(t, sim, bucket.Name, "flaky.bin"))
	assert.True(t, listener.Monotonic())
}

func TestUploadExhaustsRetryBudget(t *testing.T) {
	sim := simulator.New()
	bucket := newBucket(t, sim)
	uploader := NewUploader(sim, nil)

	// One more failure than the budget allows.
	failures := make([]error, DefaultMaxRetries+1)
	for i := range failures {
		failures[i] = &errors.RetryableError{Err: stderrors.New("connection reset")}
	}
	sim.SetUploadErrors(failures)

	_, err := uploader.Upload(
		context.Background(), bucket.ID, "doomed.bin",
		b2types.NewBytesSource(testutil.DeterministicData(600)), testConfig(nil),
	)
	require.Error(t, err)

	var maxErr *errors.MaxRetriesError
	require.ErrorAs(t, err, &maxErr)
	assert.Equal(t, DefaultMaxRetries+1, maxErr.Attempts)
}

func TestUploadFatalErrorFailsImmediately(t *testing.T) {
	sim := simulator.New()
	bucket := newBucket(t, sim)
	uploader := NewUploader(sim, nil)

	fatal := &errors.FatalError{Err: stderrors.New("file name not allowed")}
	sim.SetUploadErrors([]error{fatal})

	_, err := uploader.Upload(
		context.Background(), bucket.ID, "rejected.bin",
		b2types.NewBytesSource(testutil.DeterministicData(100)), testConfig(nil),
	)
	require.Error(t, err)

	// Fatal errors propagate as-is, not wrapped in a retry exhaustion error.
	assert.ErrorIs(t, err, fatal)
	assert.False(t, errors.IsMaxRetries(err))
}

func TestUploadFailureLeavesFileUnfinished(t *testing.T) {
	sim := simulator.New()
	bucket := newBucket(t, sim)
	uploader := NewUploader(sim, nil)

	sim.SetUploadErrors([]error{
		&errors.FatalError{Err: stderrors.New("storage cap exceeded")},
	})

	_, err := uploader.Upload(
		context.Background(), bucket.ID, "partial.bin",
		b2types.NewBytesSource(testutil.DeterministicData(600)), testConfig(nil),
	)
	require.Error(t, err)

	// The started large file stays discoverable for later resumption.
	files, next, err := sim.ListUnfinishedLargeFiles(context.Background(), bucket.ID, "", 100)
	require.NoError(t, err)
	assert.Empty(t, next)
	require.Len(t, files, 1)
	assert.Equal(t, "partial.bin", files[0].Name)
	assert.Equal(t, b2types.ActionStart, files[0].Action)
}

func TestUploadCancelledContext(t *testing.T) {
	sim := simulator.New()
	bucket := newBucket(t, sim)
	uploader := NewUploader(sim, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uploader.Upload(
		ctx, bucket.ID, "cancelled.bin",
		b2types.NewBytesSource(testutil.DeterministicData(600)), testConfig(nil),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestUploadRereadsPartOnRetry(t *testing.T) {
	sim := simulator.New()
	bucket := newBucket(t, sim)
	uploader := NewUploader(sim, nil)

	// Fail the second part once; the retried attempt must upload the
	// exact same byte range for the digest check to pass on finish.
	sim.SetUploadErrors([]error{
		nil,
		&errors.RetryableError{Err: stderrors.New("broken pipe")},
	})

	data := testutil.DeterministicData(600)
	_, err := uploader.Upload(
		context.Background(), bucket.ID, "reread.bin",
		b2types.NewBytesSource(data), testConfig(nil),
	)
	require.NoError(t, err)
	assert.Equal(t, data, download(t, sim, bucket.Name, "reread.bin"))
}
