// Package list handles file listing operations.
// This includes folder-grouped listing, part listing, and unfinished
// large-file listing, all paginated against the raw API.
//
// Results are streamed over channels as pages are fetched, for
// memory-efficient handling of large listings.
package list
