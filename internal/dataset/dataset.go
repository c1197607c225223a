// Package dataset resolves the parquet snapshot files that back the
// customer table, either straight from a local directory or by syncing
// them down from the object store into a local cache.
package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adpulse/adpulse/internal/storage"
)

// LocalSource serves parquet files already present on disk.
type LocalSource struct {
	Dir string
}

func (s *LocalSource) Paths(_ context.Context) ([]string, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return nil, fmt.Errorf("dataset directory is required")
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read dataset directory %q: %w", s.Dir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".parquet") {
			continue
		}
		paths = append(paths, filepath.Join(s.Dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// SyncedSource mirrors parquet objects from the store into CacheDir
// before every resolution. Objects already cached at the same size are
// not fetched again.
type SyncedSource struct {
	Store    storage.ObjectStore
	CacheDir string
}

func (s *SyncedSource) Paths(ctx context.Context) ([]string, error) {
	if s.Store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	if strings.TrimSpace(s.CacheDir) == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(s.CacheDir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory %q: %w", s.CacheDir, err)
	}

	objects, err := s.Store.List(ctx, ".parquet")
	if err != nil {
		return nil, fmt.Errorf("list dataset objects: %w", err)
	}

	var paths []string
	for _, object := range objects {
		localPath := filepath.Join(s.CacheDir, filepath.Base(object.Key))
		if stale(localPath, object.Size) {
			if err := s.download(ctx, object.Key, localPath); err != nil {
				return nil, err
			}
		}
		paths = append(paths, localPath)
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *SyncedSource) download(ctx context.Context, key, localPath string) error {
	reader, err := s.Store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get dataset object %q: %w", key, err)
	}
	defer func() { _ = reader.Close() }()

	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create cache file %q: %w", localPath, err)
	}
	if _, err := io.Copy(file, reader); err != nil {
		_ = file.Close()
		_ = os.Remove(localPath)
		return fmt.Errorf("write cache file %q: %w", localPath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close cache file %q: %w", localPath, err)
	}
	return nil
}

func stale(localPath string, wantSize int64) bool {
	info, err := os.Stat(localPath)
	if err != nil {
		return true
	}
	return info.Size() != wantSize
}
