package list

import (
	"context"
	"log/slog"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/b2/b2types"
	"github.com/input-output-hk/catalyst-forge-libs/b2/errors"
	"github.com/input-output-hk/catalyst-forge-libs/b2/internal/rawapi"
)

// defaultFetchCount is the per-request page size when none is configured.
const defaultFetchCount = 1000

// Lister drives the paginated listing operations against the raw API.
type Lister struct {
	api rawapi.API
	log *slog.Logger
}

// New creates a new Lister.
func New(api rawapi.API, log *slog.Logger) *Lister {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Lister{api: api, log: log}
}

// Config holds configuration for a folder listing.
type Config struct {
	// BucketID is the bucket to list.
	BucketID string

	// Prefix restricts the listing to names under this path. A prefix not
	// ending in "/" has one appended, so "photos" lists "photos/…" only.
	Prefix string

	// AllVersions lists every version of each name instead of collapsing
	// to the newest one.
	AllVersions bool

	// FetchCount is the number of entries requested per underlying page.
	FetchCount int
}

// Ls streams a folder view of the bucket: direct children of the prefix are
// yielded as leaf entries, deeper names are grouped into folder markers
// emitted once per folder. Entries are delivered lazily as pages are
// fetched; the channel closes when the prefix is exhausted or an error has
// been sent. Cancel ctx to abandon the listing early.
func (l *Lister) Ls(ctx context.Context, cfg *Config) <-chan b2types.LsResult {
	results := make(chan b2types.LsResult, 100)

	go func() {
		defer close(results)

		prefix := cfg.Prefix
		if prefix != "" && !strings.HasSuffix(prefix, "/") {
			prefix += "/"
		}
		fetch := cfg.FetchCount
		if fetch <= 0 {
			fetch = defaultFetchCount
		}

		startName, startID := prefix, ""

		// Tracked across page boundaries so a folder spanning two pages
		// is not emitted twice.
		lastFolder := ""

		for {
			var (
				page             []b2types.FileVersion
				nextName, nextID string
				err              error
			)
			if cfg.AllVersions {
				page, nextName, nextID, err = l.api.ListFileVersions(ctx, cfg.BucketID, startName, startID, fetch)
			} else {
				page, nextName, err = l.api.ListFileNames(ctx, cfg.BucketID, startName, fetch)
			}
			if err != nil {
				send(ctx, results, b2types.LsResult{Err: errors.NewError("ls", err).WithKey(cfg.Prefix)})
				return
			}
			l.log.Debug("fetched listing page",
				slog.String("bucket", cfg.BucketID),
				slog.Int("entries", len(page)),
			)

			for i := range page {
				version := page[i]
				if !strings.HasPrefix(version.Name, prefix) {
					return // left the prefix: the listing is complete
				}

				after := version.Name[len(prefix):]
				if slash := strings.Index(after, "/"); slash >= 0 {
					folder := version.Name[:len(prefix)+slash+1]
					if folder == lastFolder {
						continue // folder already emitted
					}
					lastFolder = folder
					if !send(ctx, results, b2types.LsResult{Entry: b2types.ListEntry{Folder: folder}}) {
						return
					}
					continue
				}

				if !send(ctx, results, b2types.LsResult{Entry: b2types.ListEntry{FileVersion: &version}}) {
					return
				}
			}

			if nextName == "" {
				return
			}
			startName, startID = nextName, nextID
		}
	}()

	return results
}

// Parts streams the accumulated part records of a large file, ordered by
// part number ascending, paging through the remote index with fetchCount
// entries per request.
func (l *Lister) Parts(ctx context.Context, fileID string, fetchCount int) <-chan b2types.PartResult {
	results := make(chan b2types.PartResult, 100)

	go func() {
		defer close(results)

		fetch := fetchCount
		if fetch <= 0 {
			fetch = defaultFetchCount
		}

		start := 1
		for {
			parts, next, err := l.api.ListParts(ctx, fileID, start, fetch)
			if err != nil {
				send(ctx, results, b2types.PartResult{Err: errors.NewError("listParts", err).WithKey(fileID)})
				return
			}

			for _, part := range parts {
				if !send(ctx, results, b2types.PartResult{Part: part}) {
					return
				}
			}

			if next == 0 {
				return
			}
			start = next
		}
	}()

	return results
}

// Unfinished streams the large files that were started but never finished
// or aborted, in creation order.
func (l *Lister) Unfinished(ctx context.Context, bucketID string, fetchCount int) <-chan b2types.FileVersionResult {
	results := make(chan b2types.FileVersionResult, 100)

	go func() {
		defer close(results)

		fetch := fetchCount
		if fetch <= 0 {
			fetch = defaultFetchCount
		}

		startFileID := ""
		for {
			files, next, err := l.api.ListUnfinishedLargeFiles(ctx, bucketID, startFileID, fetch)
			if err != nil {
				send(ctx, results, b2types.FileVersionResult{Err: errors.NewBucketError("listUnfinishedLargeFiles", bucketID, err)})
				return
			}

			for _, file := range files {
				if !send(ctx, results, b2types.FileVersionResult{FileVersion: file}) {
					return
				}
			}

			if next == "" {
				return
			}
			startFileID = next
		}
	}()

	return results
}

// send delivers one result, giving up if ctx is cancelled. It reports
// whether the result was delivered.
func send[T any](ctx context.Context, ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-ctx.Done():
		return false
	}
}
