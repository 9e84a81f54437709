package storage

import (
	"fmt"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendDuckDB = "duckdb"
	BackendMemory = "memory"
)

// Options selects and configures a KV backend.
type Options struct {
	Backend     string
	DataDir     string
	FileExt     string
	DuckDBPath  string
	MemoryLimit string
	Threads     int
}

// Open creates the KV backend described by opts.
func Open(opts Options) (KV, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileKV(filepath.Join(opts.DataDir, "tables"), opts.FileExt)
	case BackendDuckDB:
		path := opts.DuckDBPath
		if path == "" {
			path = filepath.Join(opts.DataDir, "navlog.duckdb")
		}
		return NewDuckKV(path, opts.MemoryLimit, opts.Threads)
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", opts.Backend)
	}
}
