// Package storage provides the key-value substrate dispatch tables are
// persisted in, together with the codecs that serialize them.
//
// Three backends implement KV: FileKV (one file per key), DuckKV (a single
// DuckDB table) and MemoryKV (tests and throwaway sessions).
package storage
