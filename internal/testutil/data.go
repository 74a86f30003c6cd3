package testutil

import (
	"bytes"
	"fmt"
)

// DeterministicData generates exactly n bytes of non-repeating content by
// concatenating "<offset>:" fragments. Distinct regions of a large payload
// never share a pattern, so reassembling parts in the wrong order is caught
// by content comparison, not just length.
func DeterministicData(n int) []byte {
	var buf bytes.Buffer
	for buf.Len() < n {
		fmt.Fprintf(&buf, "%d:", buf.Len())
	}
	return buf.Bytes()[:n]
}
