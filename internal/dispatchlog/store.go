// Package dispatchlog keeps each navigator's ordered dispatch history in a
// key-value store, one serialized table per navigator.
package dispatchlog

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pakalnivut/backend/internal/logging"
	"github.com/pakalnivut/backend/internal/models"
	"github.com/pakalnivut/backend/internal/storage"
)

// ErrUnknownNavigator is returned for navigator ids other than 1 and 2.
var ErrUnknownNavigator = errors.New("unknown navigator")

// Repository is the dispatch table API consumed by the service and the
// presenters.
type Repository interface {
	Load(nav models.NavigatorID) []models.DispatchEntry
	Append(nav models.NavigatorID, entry models.DispatchEntry) error
	IncrementSpot(nav models.NavigatorID, index int) error
	ResetSpot(nav models.NavigatorID, index int) error
	ClearAll() error
	Counts() []models.NavigatorSummary
}

// Store implements Repository over a storage.KV.
//
// Each mutation reads the whole table, changes it and writes it back while
// holding mu, so mutations from one process never interleave. Two processes
// sharing a data directory still race and the last writer wins.
type Store struct {
	mu    sync.Mutex
	kv    storage.KV
	codec storage.Codec
	log   *logging.Logger
}

// NewStore creates a Store. A nil logger discards output.
func NewStore(kv storage.KV, codec storage.Codec, log *logging.Logger) *Store {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Store{
		kv:    kv,
		codec: codec,
		log:   log.WithComponent("dispatchlog"),
	}
}

func checkNavigator(nav models.NavigatorID) error {
	if !nav.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownNavigator, int(nav))
	}
	return nil
}

// Load returns nav's entries in insertion order. A missing, unreadable or
// malformed table reads as empty.
func (s *Store) Load(nav models.NavigatorID) []models.DispatchEntry {
	if checkNavigator(nav) != nil {
		return []models.DispatchEntry{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read(nav)
}

// read must be called with mu held.
func (s *Store) read(nav models.NavigatorID) []models.DispatchEntry {
	key := nav.TableKey()

	data, err := s.kv.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return []models.DispatchEntry{}
	}
	if err != nil {
		s.log.Warn("table read failed, treating as empty", "key", key, "error", err)
		return []models.DispatchEntry{}
	}

	entries, err := s.codec.Decode(data)
	if err != nil {
		s.log.Warn("table is malformed, treating as empty", "key", key, "codec", s.codec.Name(), "error", err)
		return []models.DispatchEntry{}
	}
	if entries == nil {
		entries = []models.DispatchEntry{}
	}
	return entries
}

// write must be called with mu held.
func (s *Store) write(nav models.NavigatorID, entries []models.DispatchEntry) error {
	data, err := s.codec.Encode(entries)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", nav.TableKey(), err)
	}
	if err := s.kv.Set(nav.TableKey(), data); err != nil {
		return fmt.Errorf("saving %s: %w", nav.TableKey(), err)
	}
	return nil
}

// Append adds entry to the end of nav's table.
func (s *Store) Append(nav models.NavigatorID, entry models.DispatchEntry) error {
	if err := checkNavigator(nav); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := append(s.read(nav), entry)
	if err := s.write(nav, entries); err != nil {
		return err
	}

	s.log.Debug("entry appended",
		"navigator", int(nav),
		"index", len(entries)-1,
		"squad", entry.SquadNumber,
		"arrival", entry.ArrivalTime,
	)
	return nil
}

// IncrementSpot adds one spot to the entry at storage index. An index
// outside the table is ignored.
func (s *Store) IncrementSpot(nav models.NavigatorID, index int) error {
	return s.updateSpot(nav, index, func(spots int) int { return spots + 1 })
}

// ResetSpot sets the spots of the entry at storage index to zero. An index
// outside the table is ignored.
func (s *Store) ResetSpot(nav models.NavigatorID, index int) error {
	return s.updateSpot(nav, index, func(int) int { return 0 })
}

func (s *Store) updateSpot(nav models.NavigatorID, index int, fn func(int) int) error {
	if err := checkNavigator(nav); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.read(nav)
	if index < 0 || index >= len(entries) {
		s.log.Debug("spot index out of range, ignoring", "navigator", int(nav), "index", index, "len", len(entries))
		return nil
	}

	entries[index].Spots = fn(entries[index].Spots)
	return s.write(nav, entries)
}

// ClearAll erases both navigators' tables.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var errs []error
	for _, nav := range models.Navigators {
		if err := s.kv.Delete(nav.TableKey()); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("clearing tables: %w", err)
	}

	s.log.Info("all tables cleared")
	return nil
}

// Counts reports the number of entries per navigator.
func (s *Store) Counts() []models.NavigatorSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.NavigatorSummary, 0, len(models.Navigators))
	for _, nav := range models.Navigators {
		n := len(s.read(nav))
		out = append(out, models.NavigatorSummary{Navigator: nav, Count: n, Active: n > 0})
	}
	return out
}
