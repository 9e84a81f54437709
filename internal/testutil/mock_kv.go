// mock_kv.go - KV and clock doubles for testing
package testutil

import (
	"errors"
	"sync"
	"time"

	"github.com/pakalnivut/backend/internal/models"
	"github.com/pakalnivut/backend/internal/storage"
)

// ErrInjected is returned by MockKV when a failure has been armed.
var ErrInjected = errors.New("injected failure")

// MockKV wraps a MemoryKV and can be told to fail reads or writes.
type MockKV struct {
	*storage.MemoryKV

	mu       sync.Mutex
	failGet  bool
	failSet  bool
	failDel  bool
	setCalls int
}

// NewMockKV creates an empty MockKV.
func NewMockKV() *MockKV {
	return &MockKV{MemoryKV: storage.NewMemoryKV()}
}

// FailGet makes subsequent Get calls fail.
func (m *MockKV) FailGet(v bool) { m.mu.Lock(); m.failGet = v; m.mu.Unlock() }

// FailSet makes subsequent Set calls fail.
func (m *MockKV) FailSet(v bool) { m.mu.Lock(); m.failSet = v; m.mu.Unlock() }

// FailDelete makes subsequent Delete calls fail.
func (m *MockKV) FailDelete(v bool) { m.mu.Lock(); m.failDel = v; m.mu.Unlock() }

// SetCalls returns how many successful Set calls were made.
func (m *MockKV) SetCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.setCalls
}

func (m *MockKV) Get(key string) ([]byte, error) {
	m.mu.Lock()
	fail := m.failGet
	m.mu.Unlock()
	if fail {
		return nil, ErrInjected
	}
	return m.MemoryKV.Get(key)
}

func (m *MockKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return ErrInjected
	}
	m.setCalls++
	return m.MemoryKV.Set(key, value)
}

func (m *MockKV) Delete(key string) error {
	m.mu.Lock()
	fail := m.failDel
	m.mu.Unlock()
	if fail {
		return ErrInjected
	}
	return m.MemoryKV.Delete(key)
}

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a Clock reading hour:minute on a fixed local date.
func NewClock(hour, minute int) *Clock {
	return &Clock{now: time.Date(2024, 6, 1, hour, minute, 0, 0, time.Local)}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to hour:minute on the same date.
func (c *Clock) Set(hour, minute int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	y, mo, d := c.now.Date()
	c.now = time.Date(y, mo, d, hour, minute, 0, 0, time.Local)
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Entry builds a DispatchEntry with the fields tests usually care about.
func Entry(nav models.NavigatorID, number, name string, distance float64, delivering, arrival string) models.DispatchEntry {
	return models.DispatchEntry{
		Navigator:    nav,
		SquadNumber:  number,
		SquadName:    name,
		DistanceKm:   distance,
		DispatchTime: delivering,
		ArrivalTime:  arrival,
	}
}
