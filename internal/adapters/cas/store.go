// Package cas implements the cache partitions on the local file system.
package cas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CacheStore = (*Store)(nil)

// Store implements ports.CacheStore using a directory per partition and a file per entry.
type Store struct {
	root string
}

// entry is the on-disk form of a cached response.
type entry struct {
	Method   string                 `json:"method"`
	URL      string                 `json:"url"`
	Response *domain.StoredResponse `json:"response"`
}

// NewStore creates a Store rooted at dir. The directory is created lazily on first write.
func NewStore(dir string) *Store {
	return &Store{root: filepath.Clean(dir)}
}

// Root returns the directory holding the partitions.
func (s *Store) Root() string {
	return s.root
}

// Get retrieves the response stored under key in partition.
func (s *Store) Get(_ context.Context, partition string, key domain.RequestKey) (*domain.StoredResponse, error) {
	filename, err := s.filename(partition, key)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // Path is constructed from the store root and a hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "partition", partition)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheUnmarshalFailed.Error()), "partition", partition)
	}

	// Guard against hash collisions: the file must hold exactly this key.
	if e.Method != key.Method || e.URL != key.URL || e.Response == nil {
		return nil, nil
	}

	return e.Response, nil
}

// Put stores resp under key in partition. The write is atomic: readers see
// either the previous entry or the new one.
func (s *Store) Put(_ context.Context, partition string, key domain.RequestKey, resp *domain.StoredResponse) error {
	filename, err := s.filename(partition, key)
	if err != nil {
		return err
	}

	data, err := json.Marshal(entry{Method: key.Method, URL: key.URL, Response: resp})
	if err != nil {
		return zerr.Wrap(err, domain.ErrCacheMarshalFailed.Error())
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheCreateFailed.Error()), "partition", partition)
	}

	tmp, err := os.CreateTemp(dir, ".entry-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "partition", partition)
	}
	tmpName := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "partition", partition)
	}

	if err := os.Rename(tmpName, filename); err != nil {
		_ = os.Remove(tmpName)
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "partition", partition)
	}

	return nil
}

// Match returns the first hit for key across partitions, in the given order.
func (s *Store) Match(
	ctx context.Context,
	key domain.RequestKey,
	partitions ...string,
) (*domain.StoredResponse, string, error) {
	for _, p := range partitions {
		resp, err := s.Get(ctx, p, key)
		if err != nil {
			return nil, "", err
		}
		if resp != nil {
			return resp, p, nil
		}
	}
	return nil, "", nil
}

// Partitions lists existing partitions in lexical order.
func (s *Store) Partitions(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.Wrap(err, domain.ErrCacheListFailed.Error())
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// Delete removes partition and every entry in it. Deleting a missing partition is a no-op.
func (s *Store) Delete(_ context.Context, partition string) error {
	if !domain.ValidPartitionName(partition) {
		return zerr.With(zerr.Wrap(domain.ErrInvalidPartition, "cache"), "partition", partition)
	}
	if err := os.RemoveAll(filepath.Join(s.root, partition)); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheDeleteFailed.Error()), "partition", partition)
	}
	return nil
}

func (s *Store) filename(partition string, key domain.RequestKey) (string, error) {
	if !domain.ValidPartitionName(partition) {
		return "", zerr.With(zerr.Wrap(domain.ErrInvalidPartition, "cache"), "partition", partition)
	}
	sum := xxhash.Sum64String(key.String())
	return filepath.Join(s.root, partition, fmt.Sprintf("%016x.json", sum)), nil
}
