// Package content holds the watermark text and logo that renders read, and derives the
// default time, date and day from the clock.
package content

import (
	"sync/atomic"

	"github.com/pleimann/stampcam/internal/watermark"
)

// Snapshot is an immutable view of what the next render shows and where
type Snapshot struct {
	Content watermark.Content
	Corner  watermark.Corner
}

// Store publishes snapshots to the render paths. Writers replace the whole snapshot, so a
// render that loaded one never sees it change.
type Store struct {
	cur atomic.Pointer[Snapshot]
}

// NewStore creates a store holding initial
func NewStore(initial Snapshot) *Store {
	s := &Store{}
	s.Store(initial)
	return s
}

// Load returns the current snapshot
func (s *Store) Load() Snapshot {
	if p := s.cur.Load(); p != nil {
		return *p
	}
	return Snapshot{}
}

// Store replaces the current snapshot
func (s *Store) Store(snap Snapshot) {
	s.cur.Store(&snap)
}

// Update applies fn to a copy of the current snapshot and publishes the result. fn may run
// more than once if another writer gets in first.
func (s *Store) Update(fn func(*Snapshot)) Snapshot {
	for {
		old := s.cur.Load()
		var next Snapshot
		if old != nil {
			next = *old
		}
		fn(&next)
		if s.cur.CompareAndSwap(old, &next) {
			return next
		}
	}
}
