// Package keylock serializes work per key, e.g. one writer per game.
package keylock

import (
	"context"
	"sync"
)

type slot struct {
	ch   chan struct{}
	refs int
}

// Map hands out exclusive locks per key. Unrelated keys never contend.
type Map struct {
	mu    sync.Mutex
	slots map[string]*slot
}

func New() *Map {
	return &Map{slots: make(map[string]*slot)}
}

// Lock blocks until key is held or ctx is done. The returned func releases the key
// and must be called exactly once.
func (m *Map) Lock(ctx context.Context, key string) (func(), error) {
	m.mu.Lock()
	s, ok := m.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		m.slots[key] = s
	}
	s.refs++
	m.mu.Unlock()

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		m.release(key, s, false)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() { m.release(key, s, true) })
	}, nil
}

func (m *Map) release(key string, s *slot, held bool) {
	if held {
		<-s.ch
	}
	m.mu.Lock()
	s.refs--
	if s.refs == 0 {
		delete(m.slots, key)
	}
	m.mu.Unlock()
}

// Len is the number of keys currently held or awaited.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.slots)
}
