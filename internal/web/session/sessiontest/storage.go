// Package sessiontest provides an in-memory session storage with a controllable clock.
package sessiontest

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Clock is a manually advanced clock.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock starting at now.
func NewClock() *Clock {
	return &Clock{now: time.Now()}
}

// Now returns the current clock time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

type entry struct {
	value   []byte
	expires time.Time
}

// Storage is a minimal in-memory implementation of fiber.Storage for tests.
// Entries expire according to Clock.
type Storage struct {
	mu    sync.RWMutex
	data  map[string]entry
	clock *Clock

	// Err is returned by every operation when set.
	Err error
}

// Ensure Storage implements the fiber.Storage interface.
var _ fiber.Storage = (*Storage)(nil)

// New creates an empty storage using clock, nil uses a fresh clock.
func New(clock *Clock) *Storage {
	if clock == nil {
		clock = NewClock()
	}

	return &Storage{
		data:  make(map[string]entry),
		clock: clock,
	}
}

// Get returns nil for missing or expired keys.
func (s *Storage) Get(key string) ([]byte, error) {
	if s.Err != nil {
		return nil, s.Err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok || (!e.expires.IsZero() && !s.clock.Now().Before(e.expires)) {
		return nil, nil
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)

	return out, nil
}

// Set stores val under key, a zero exp never expires.
func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	if s.Err != nil {
		return s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	buf := make([]byte, len(val))
	copy(buf, val)

	e := entry{value: buf}
	if exp > 0 {
		e.expires = s.clock.Now().Add(exp)
	}

	s.data[key] = e

	return nil
}

// Delete removes key.
func (s *Storage) Delete(key string) error {
	if s.Err != nil {
		return s.Err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)

	return nil
}

// Reset removes all keys.
func (s *Storage) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]entry)

	return nil
}

// Close is a no-op.
func (s *Storage) Close() error { return nil }

// Len returns the number of live entries.
func (s *Storage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	now := s.clock.Now()

	for _, e := range s.data {
		if e.expires.IsZero() || now.Before(e.expires) {
			n++
		}
	}

	return n
}
