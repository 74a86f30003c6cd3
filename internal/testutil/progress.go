// Package testutil provides shared helpers for tests.
package testutil

import (
	"fmt"
	"strings"
	"sync"
)

// RecordingProgressListener records every progress callback it receives.
// History renders the calls as a single string, e.g. "600: 200 400 600"
// for a 600-byte transfer reported in three 200-byte steps, which makes
// progress assertions a one-line string comparison.
type RecordingProgressListener struct {
	mu      sync.Mutex
	history []string
}

// SetTotalBytes records the announced transfer size.
func (l *RecordingProgressListener) SetTotalBytes(total int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = append(l.history, fmt.Sprintf("%d:", total))
}

// BytesCompleted records a cumulative byte count.
func (l *RecordingProgressListener) BytesCompleted(completed int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.history = append(l.history, fmt.Sprintf("%d", completed))
}

// History returns the recorded calls joined with spaces.
func (l *RecordingProgressListener) History() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return strings.Join(l.history, " ")
}

// Monotonic reports whether the completed counts never decreased.
func (l *RecordingProgressListener) Monotonic() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	last := int64(-1)
	for _, entry := range l.history {
		if strings.HasSuffix(entry, ":") {
			continue
		}
		var n int64
		fmt.Sscanf(entry, "%d", &n)
		if n < last {
			return false
		}
		last = n
	}
	return true
}
