// Package pool provides memory management optimizations.
// This includes buffer pooling to reduce allocations on the download path.
package pool
