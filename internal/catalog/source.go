package catalog

import (
	"sync"
	"sync/atomic"
)

// Source holds the current catalog snapshot. Readers always see a complete
// catalog; a reload swaps the whole snapshot and notifies subscribers.
type Source struct {
	current atomic.Pointer[Catalog]

	mu   sync.Mutex
	subs map[int]chan *Catalog
	next int
}

// NewSource creates a source serving c. A nil catalog is treated as empty.
func NewSource(c *Catalog) *Source {
	if c == nil {
		c = &Catalog{}
	}
	s := &Source{subs: make(map[int]chan *Catalog)}
	s.current.Store(c)
	return s
}

// Current returns the active snapshot.
func (s *Source) Current() *Catalog {
	return s.current.Load()
}

// Replace installs c as the active snapshot and notifies subscribers.
// Subscribers that have not consumed the previous snapshot only receive
// the newest one.
func (s *Source) Replace(c *Catalog) {
	if c == nil {
		return
	}
	s.current.Store(c)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- c
	}
}

// Subscribe returns a channel receiving every new snapshot and a function
// that cancels the subscription. The channel is closed on cancel.
func (s *Source) Subscribe() (<-chan *Catalog, func()) {
	ch := make(chan *Catalog, 1)

	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers returns the number of active subscriptions.
func (s *Source) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
