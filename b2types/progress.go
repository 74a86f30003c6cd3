package b2types

// ProgressListener receives upload progress. SetTotalBytes is called exactly
// once, before any progress; BytesCompleted then receives cumulative totals
// that never decrease and end at the total.
type ProgressListener interface {
	// SetTotalBytes announces the total byte count of the transfer.
	SetTotalBytes(total int64)

	// BytesCompleted reports the cumulative number of bytes transferred.
	BytesCompleted(completed int64)
}

// NoopProgressListener discards all progress events.
type NoopProgressListener struct{}

// SetTotalBytes discards the total.
func (NoopProgressListener) SetTotalBytes(int64) {}

// BytesCompleted discards the update.
func (NoopProgressListener) BytesCompleted(int64) {}
