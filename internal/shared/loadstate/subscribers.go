package loadstate

import (
	"sync"
	"sync/atomic"
)

type subscriber[S any] struct {
	id uint64
	fn func(S)
}

// Subscribers fans versioned snapshots out to registered callbacks.
// Callbacks run on the publishing goroutine, after the store lock has been
// released, so they may call back into the store. A publish carrying a
// version older than one already delivered is dropped.
type Subscribers[S any] struct {
	mu      sync.Mutex
	nextID  uint64
	entries []subscriber[S]
	last    atomic.Uint64
}

// Subscribe registers fn and returns a function that removes it.
func (s *Subscribers[S]) Subscribe(fn func(S)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.entries = append(s.entries, subscriber[S]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, entry := range s.entries {
				if entry.id == id {
					s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers snapshot to every subscriber unless a newer version has
// already been published.
func (s *Subscribers[S]) Publish(version uint64, snapshot S) {
	for {
		last := s.last.Load()
		if version <= last {
			return
		}
		if s.last.CompareAndSwap(last, version) {
			break
		}
	}
	s.mu.Lock()
	fns := make([]func(S), 0, len(s.entries))
	for _, entry := range s.entries {
		fns = append(fns, entry.fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snapshot)
	}
}

// Len returns the number of registered subscribers.
func (s *Subscribers[S]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
