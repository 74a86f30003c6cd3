// Package transfer contains the upload transfer engines.
//
// Subpackages:
//   - multipart: large-file upload orchestration with per-part retry
package transfer
