// Package multipart handles large-file upload orchestration: part boundary
// computation, bounded-worker part transfers, per-part retry with re-read,
// and finishing or abandoning the large file.
package multipart
