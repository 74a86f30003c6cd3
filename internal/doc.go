// Package internal contains private implementation details for the B2 module.
// These packages are not intended for external use and may change without notice.
//
// The internal packages are organized as follows:
//   - rawapi: The boundary interface to the remote service
//   - simulator: An in-memory service implementation for tests
//   - operations: Listing operation implementations
//   - transfer: Large-file upload orchestration
//   - progress: Progress aggregation across concurrent parts
//   - validation: Input validation logic
//   - pool: Memory management optimizations
package internal
