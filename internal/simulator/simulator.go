// Package simulator provides an in-memory implementation of the raw B2 API
// for tests. It mimics the remote service's observable behavior: descending
// id allocation, per-name version ordering, paginated listings, and digest
// verification on uploads.
package simulator

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/b2/b2types"
	"github.com/input-output-hk/catalyst-forge-libs/b2/errors"
)

// MinPartSize is the smallest part size the simulated service accepts.
// Kept artificially small so tests can exercise multipart uploads with
// tiny payloads.
const MinPartSize = 200

// firstFileID is where the descending file id allocator starts.
const firstFileID = 9999

// Simulator is an in-memory rawapi.API. All state is owned by the
// simulator instance; ids are allocated from a per-instance counter.
type Simulator struct {
	mu           sync.Mutex
	nextFileID   int
	nextBucketID int
	buckets      map[string]*bucketState
	uploadErrors []error
}

type bucketState struct {
	info  b2types.BucketInfo
	files map[string]*fileState
	order []string // file ids in creation order
}

type fileState struct {
	version  b2types.FileVersion
	metadata map[string]string
	data     []byte
	parts    map[int]partState
}

type partState struct {
	part b2types.Part
	data []byte
}

// New creates an empty simulator.
func New() *Simulator {
	return &Simulator{
		nextFileID: firstFileID,
		buckets:    make(map[string]*bucketState),
	}
}

// SetUploadErrors queues errors to be returned by subsequent upload calls,
// one per call, before any state changes. Use errors.RetryableError and
// errors.FatalError values to drive retry behavior.
func (s *Simulator) SetUploadErrors(errs []error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadErrors = append([]error(nil), errs...)
}

// MinPartSize returns the simulated service's minimum part size.
func (s *Simulator) MinPartSize() int64 {
	return MinPartSize
}

// CreateBucket creates a bucket with a unique name.
func (s *Simulator) CreateBucket(ctx context.Context, name, bucketType string) (*b2types.BucketInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.buckets {
		if b.info.Name == name {
			return nil, errors.ErrBucketAlreadyExists
		}
	}
	id := fmt.Sprintf("bucket_%04d", s.nextBucketID)
	s.nextBucketID++
	b := &bucketState{
		info:  b2types.BucketInfo{ID: id, Name: name, Type: bucketType},
		files: make(map[string]*fileState),
	}
	s.buckets[id] = b
	info := b.info
	return &info, nil
}

// DeleteBucket removes an existing bucket.
func (s *Simulator) DeleteBucket(ctx context.Context, bucketID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.buckets[bucketID]; !ok {
		return errors.ErrBucketNotFound
	}
	delete(s.buckets, bucketID)
	return nil
}

// ListBuckets returns all buckets sorted by name.
func (s *Simulator) ListBuckets(ctx context.Context) ([]b2types.BucketInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]b2types.BucketInfo, 0, len(s.buckets))
	for _, b := range s.buckets {
		infos = append(infos, b.info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

// UploadFile performs a single-shot upload.
func (s *Simulator) UploadFile(
	ctx context.Context,
	bucketID, name, contentType string,
	metadata map[string]string,
	r io.Reader,
	size int64,
) (*b2types.FileVersion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.popUploadError(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &errors.RetryableError{Err: err}
	}
	if int64(len(data)) != size {
		return nil, &errors.FatalError{Err: errors.ErrInvalidInput}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[bucketID]
	if !ok {
		return nil, errors.ErrBucketNotFound
	}
	f := &fileState{
		version: b2types.FileVersion{
			ID:              s.allocFileID(),
			Name:            name,
			Size:            size,
			ContentType:     contentType,
			Action:          b2types.ActionUpload,
			UploadTimestamp: time.Now(),
		},
		metadata: metadata,
		data:     data,
	}
	b.addFile(f)
	v := f.version
	return &v, nil
}

// DownloadFileByName returns the content of the newest version of fileName.
func (s *Simulator) DownloadFileByName(
	ctx context.Context,
	bucketName, fileName string,
) (io.ReadCloser, *b2types.FileVersion, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var b *bucketState
	for _, candidate := range s.buckets {
		if candidate.info.Name == bucketName {
			b = candidate
			break
		}
	}
	if b == nil {
		return nil, nil, errors.ErrBucketNotFound
	}

	f := b.newestByName(fileName)
	if f == nil || f.version.Action != b2types.ActionUpload {
		return nil, nil, errors.ErrFileNotFound
	}
	v := f.version
	return io.NopCloser(bytes.NewReader(f.data)), &v, nil
}

// HideFile records a hide marker for fileName.
func (s *Simulator) HideFile(ctx context.Context, bucketID, fileName string) (*b2types.FileVersion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[bucketID]
	if !ok {
		return nil, errors.ErrBucketNotFound
	}
	f := &fileState{
		version: b2types.FileVersion{
			ID:              s.allocFileID(),
			Name:            fileName,
			Action:          b2types.ActionHide,
			UploadTimestamp: time.Now(),
		},
	}
	b.addFile(f)
	v := f.version
	return &v, nil
}

// StartLargeFile begins a multipart transfer.
func (s *Simulator) StartLargeFile(
	ctx context.Context,
	bucketID, name, contentType string,
	metadata map[string]string,
) (*b2types.FileVersion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[bucketID]
	if !ok {
		return nil, errors.ErrBucketNotFound
	}
	f := &fileState{
		version: b2types.FileVersion{
			ID:              s.allocFileID(),
			Name:            name,
			ContentType:     contentType,
			Action:          b2types.ActionStart,
			UploadTimestamp: time.Now(),
		},
		metadata: metadata,
		parts:    make(map[int]partState),
	}
	b.addFile(f)
	v := f.version
	return &v, nil
}

// UploadPart transfers one part of a started large file. Re-uploading a
// part number overwrites the previous record for that number.
func (s *Simulator) UploadPart(
	ctx context.Context,
	fileID string,
	partNumber int,
	r io.Reader,
	size int64,
) (*b2types.Part, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.popUploadError(); err != nil {
		return nil, err
	}
	if partNumber < 1 {
		return nil, &errors.FatalError{Err: errors.ErrPartOutOfSequence}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &errors.RetryableError{Err: err}
	}
	if int64(len(data)) != size {
		return nil, &errors.FatalError{Err: errors.ErrInvalidInput}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.findFile(fileID)
	if f == nil || f.version.Action != b2types.ActionStart {
		return nil, errors.ErrFileNotFound
	}
	part := b2types.Part{
		FileID: fileID,
		Number: partNumber,
		Size:   size,
		SHA1:   hexSHA1(data),
	}
	f.parts[partNumber] = partState{part: part, data: data}
	return &part, nil
}

// FinishLargeFile verifies the ordered digest list against the uploaded
// parts, assembles them, and converts the file to a finished upload.
func (s *Simulator) FinishLargeFile(ctx context.Context, fileID string, partSHA1s []string) (*b2types.FileVersion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.findFile(fileID)
	if f == nil || f.version.Action != b2types.ActionStart {
		return nil, errors.ErrFileNotFound
	}
	if len(f.parts) != len(partSHA1s) {
		return nil, errors.ErrPartOutOfSequence
	}

	var assembled []byte
	for i, sha := range partSHA1s {
		p, ok := f.parts[i+1]
		if !ok {
			return nil, errors.ErrPartOutOfSequence
		}
		if p.part.SHA1 != sha {
			return nil, errors.ErrChecksumMismatch
		}
		assembled = append(assembled, p.data...)
	}

	f.data = assembled
	f.parts = nil
	f.version.Size = int64(len(assembled))
	f.version.Action = b2types.ActionUpload
	v := f.version
	return &v, nil
}

// ListParts returns one page of parts ordered by part number ascending.
func (s *Simulator) ListParts(ctx context.Context, fileID string, startPart, count int) ([]b2types.Part, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	f := s.findFile(fileID)
	if f == nil {
		return nil, 0, errors.ErrFileNotFound
	}

	var all []b2types.Part
	for _, p := range f.parts {
		if p.part.Number >= startPart {
			all = append(all, p.part)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Number < all[j].Number })

	if len(all) > count {
		return all[:count], all[count].Number, nil
	}
	return all, 0, nil
}

// ListUnfinishedLargeFiles returns one page of started-but-unfinished large
// files in creation order.
func (s *Simulator) ListUnfinishedLargeFiles(
	ctx context.Context,
	bucketID, startFileID string,
	count int,
) ([]b2types.FileVersion, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[bucketID]
	if !ok {
		return nil, "", errors.ErrBucketNotFound
	}

	var unfinished []b2types.FileVersion
	for _, id := range b.order {
		if f := b.files[id]; f.version.Action == b2types.ActionStart {
			unfinished = append(unfinished, f.version)
		}
	}

	start := 0
	if startFileID != "" {
		for i, v := range unfinished {
			if v.ID == startFileID {
				start = i
				break
			}
		}
	}
	unfinished = unfinished[start:]

	if len(unfinished) > count {
		return unfinished[:count], unfinished[count].ID, nil
	}
	return unfinished, "", nil
}

// ListFileVersions returns one page of all finished and hidden versions,
// ordered by name and then newest first within a name.
func (s *Simulator) ListFileVersions(
	ctx context.Context,
	bucketID, startName, startID string,
	count int,
) ([]b2types.FileVersion, string, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[bucketID]
	if !ok {
		return nil, "", "", errors.ErrBucketNotFound
	}

	all := b.sortedVersions()

	start := 0
	for i, v := range all {
		if v.Name > startName || (v.Name == startName && (startID == "" || fileIDNum(v.ID) >= fileIDNum(startID))) {
			start = i
			break
		}
		start = i + 1
	}
	all = all[start:]

	if len(all) > count {
		return all[:count], all[count].Name, all[count].ID, nil
	}
	return all, "", "", nil
}

// ListFileNames returns one page of the newest visible version per name,
// ordered by name.
func (s *Simulator) ListFileNames(
	ctx context.Context,
	bucketID, startName string,
	count int,
) ([]b2types.FileVersion, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.buckets[bucketID]
	if !ok {
		return nil, "", errors.ErrBucketNotFound
	}

	var names []b2types.FileVersion
	for _, v := range b.sortedVersions() {
		if v.Name < startName {
			continue
		}
		if len(names) > 0 && names[len(names)-1].Name == v.Name {
			continue // only the newest version of each name
		}
		names = append(names, v)
	}

	// Hide markers suppress their name entirely.
	visible := names[:0]
	for _, v := range names {
		if v.Action == b2types.ActionUpload {
			visible = append(visible, v)
		}
	}

	if len(visible) > count {
		return visible[:count], visible[count].Name, nil
	}
	return visible, "", nil
}

func (s *Simulator) popUploadError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.uploadErrors) == 0 {
		return nil
	}
	err := s.uploadErrors[0]
	s.uploadErrors = s.uploadErrors[1:]
	return err
}

// allocFileID hands out descending numeric ids, so that sorting ids
// ascending within a name yields newest first. Callers hold s.mu.
func (s *Simulator) allocFileID() string {
	id := strconv.Itoa(s.nextFileID)
	s.nextFileID--
	return id
}

func (s *Simulator) findFile(fileID string) *fileState {
	for _, b := range s.buckets {
		if f, ok := b.files[fileID]; ok {
			return f
		}
	}
	return nil
}

func (b *bucketState) addFile(f *fileState) {
	b.files[f.version.ID] = f
	b.order = append(b.order, f.version.ID)
}

// newestByName returns the most recent finished or hidden version of name.
func (b *bucketState) newestByName(name string) *fileState {
	var newest *fileState
	for _, f := range b.files {
		if f.version.Name != name || f.version.Action == b2types.ActionStart {
			continue
		}
		// Smaller counter value means created later.
		if newest == nil || fileIDNum(f.version.ID) < fileIDNum(newest.version.ID) {
			newest = f
		}
	}
	return newest
}

// sortedVersions returns all finished and hidden versions ordered by
// (name, id ascending). Ids descend over time, so within a name the newest
// version sorts first.
func (b *bucketState) sortedVersions() []b2types.FileVersion {
	var all []b2types.FileVersion
	for _, f := range b.files {
		if f.version.Action == b2types.ActionStart {
			continue
		}
		all = append(all, f.version)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name != all[j].Name {
			return all[i].Name < all[j].Name
		}
		return fileIDNum(all[i].ID) < fileIDNum(all[j].ID)
	})
	return all
}

func fileIDNum(id string) int {
	n, _ := strconv.Atoi(id)
	return n
}

func hexSHA1(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}
