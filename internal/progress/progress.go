// Package progress aggregates byte-completion across concurrently
// transferring parts into a single monotonic progress stream.
package progress

import (
	"io"
	"sync"

	"github.com/input-output-hk/catalyst-forge-libs/b2/b2types"
)

// Aggregator maintains a running byte total across all parts of one upload
// and forwards cumulative counts to a listener. Listener calls are
// serialized under a mutex, so the listener never observes a decrease even
// when parts report concurrently.
type Aggregator struct {
	mu        sync.Mutex
	listener  b2types.ProgressListener
	completed int64
}

// NewAggregator creates an aggregator for a transfer of total bytes and
// announces the total to the listener exactly once, before any part begins.
// A nil listener is replaced with a no-op.
func NewAggregator(total int64, listener b2types.ProgressListener) *Aggregator {
	if listener == nil {
		listener = b2types.NoopProgressListener{}
	}
	listener.SetTotalBytes(total)
	return &Aggregator{listener: listener}
}

// Part returns a reporter for one part's transfer. Each part reports its own
// absolute byte position; the aggregator sums the deltas across parts.
func (a *Aggregator) Part() *PartProgress {
	return &PartProgress{agg: a}
}

// PartProgress tracks one part's contribution to the aggregate total.
// A retried attempt restarts its absolute position at zero; updates that do
// not exceed the part's high-water mark are ignored, so retries never
// double-count and the aggregate never decreases.
type PartProgress struct {
	agg      *Aggregator
	reported int64
}

// Update records that the part has transferred absolute bytes so far in the
// current attempt.
func (p *PartProgress) Update(absolute int64) {
	a := p.agg
	a.mu.Lock()
	defer a.mu.Unlock()

	if absolute <= p.reported {
		return
	}
	a.completed += absolute - p.reported
	p.reported = absolute
	a.listener.BytesCompleted(a.completed)
}

// Reader wraps r so that bytes read through it are reported to part.
// Each attempt wraps its fresh range reader; the absolute position restarts
// at zero and PartProgress deduplicates across attempts.
func Reader(r io.Reader, part *PartProgress) io.Reader {
	return &countingReader{r: r, part: part}
}

type countingReader struct {
	r        io.Reader
	part     *PartProgress
	absolute int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.absolute += int64(n)
		c.part.Update(c.absolute)
	}
	return n, err
}
