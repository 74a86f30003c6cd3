package progress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/b2/internal/testutil"
)

func TestAggregatorAnnouncesTotal(t *testing.T) {
	listener := &testutil.RecordingProgressListener{}
	NewAggregator(600, listener)

	assert.Equal(t, "600:", listener.History())
}

func TestAggregatorNilListener(t *testing.T) {
	agg := NewAggregator(100, nil)
	part := agg.Part()

	// Must not panic without a listener.
	part.Update(50)
	part.Update(100)
}

func TestPartProgressAccumulates(t *testing.T) {
	listener := &testutil.RecordingProgressListener{}
	agg := NewAggregator(600, listener)

	first := agg.Part()
	second := agg.Part()

	first.Update(200)
	second.Update(100)
	second.Update(300)
	first.Update(200) // no change, must not emit

	assert.Equal(t, "600: 200 300 500", listener.History())
}

func TestPartProgressRetryDoesNotDoubleCount(t *testing.T) {
	listener := &testutil.RecordingProgressListener{}
	agg := NewAggregator(200, listener)
	part := agg.Part()

	// First attempt transfers 150 bytes, then fails.
	part.Update(100)
	part.Update(150)

	// The retry restarts from zero; nothing below the high-water mark
	// may be re-reported.
	part.Update(80)
	part.Update(150)
	part.Update(200)

	assert.Equal(t, "200: 100 150 200", listener.History())
	assert.True(t, listener.Monotonic())
}

func TestReaderReportsAbsolutePosition(t *testing.T) {
	listener := &testutil.RecordingProgressListener{}
	agg := NewAggregator(11, listener)
	part := agg.Part()

	r := Reader(strings.NewReader("hello world"), part)
	buf := make([]byte, 4)

	n, err := r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	n, err = r.Read(buf)
	require.NoError(t, err)
	require.Equal(t, 4, n)

	assert.Equal(t, "11: 4 8", listener.History())
}
