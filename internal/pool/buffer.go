package pool

import (
	"sync"
)

// CopyBufferSize defines the size of pooled copy buffers (64KB).
const CopyBufferSize = 64 * 1024

var copyBuffers = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, CopyBufferSize)
		return &buf
	},
}

// GetCopyBuffer returns a buffer suitable for io.CopyBuffer.
// The caller is responsible for calling PutCopyBuffer when done.
func GetCopyBuffer() []byte {
	return *copyBuffers.Get().(*[]byte)
}

// PutCopyBuffer returns a buffer to the pool.
// The buffer should not be used after calling PutCopyBuffer.
func PutCopyBuffer(buf []byte) {
	if cap(buf) != CopyBufferSize {
		return
	}
	buf = buf[:CopyBufferSize]
	copyBuffers.Put(&buf)
}
