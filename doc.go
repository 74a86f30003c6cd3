// Package b2 provides a high-level client for a B2-style object storage
// service: named, versioned files in buckets, with large files uploaded in
// parts and reassembled server-side.
//
// The client splits large uploads into parts, transfers them with bounded
// concurrency, retries transient failures with exponential backoff, and
// reports progress through a listener. Listings are streamed lazily over
// channels as pages are fetched, with folder grouping for path-like names.
//
// Example:
//
//	client, err := b2.New(api,
//	    b2.WithConcurrency(4),
//	    b2.WithMaxRetries(5),
//	)
//	if err != nil {
//	    return err
//	}
//
//	bucket, err := client.CreateBucket(ctx, "my-bucket", "allPublic")
//	if err != nil {
//	    return err
//	}
//
//	version, err := bucket.UploadBytes(ctx, "photos/kitten.jpg", data,
//	    b2.WithProgressListener(listener),
//	)
package b2
