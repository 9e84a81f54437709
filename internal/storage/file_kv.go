package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
)

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileKV implements KV using one file per key in a directory.
type FileKV struct {
	mu  sync.RWMutex
	dir string
	ext string
}

// NewFileKV creates a FileKV rooted at dir. ext is appended to every key
// to form its file name, e.g. ".json".
func NewFileKV(dir, ext string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating table directory: %w", err)
	}

	return &FileKV{dir: dir, ext: ext}, nil
}

func (s *FileKV) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid key: %q", key)
	}
	return filepath.Join(s.dir, key+s.ext), nil
}

// Get reads the file for key.
func (s *FileKV) Get(key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, nil
}

// Set replaces the file for key. The value is written to a temporary file
// and renamed into place so readers never observe a partial table.
func (s *FileKV) Set(key string, value []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming %s: %w", key, err)
	}
	return nil
}

// Delete removes the file for key.
func (s *FileKV) Delete(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// Keys lists stored keys in sorted order.
func (s *FileKV) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, s.ext) || strings.HasSuffix(name, ".tmp") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, s.ext))
	}
	sort.Strings(keys)
	return keys, nil
}

// Close is a no-op.
func (s *FileKV) Close() error { return nil }
