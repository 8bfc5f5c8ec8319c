package rules

import "sync/atomic"

// Store holds the active rule catalog behind an atomic pointer.
// Readers always see a complete catalog; a reload swaps the whole
// reference rather than mutating in place.
type Store struct {
	current atomic.Pointer[Catalog]
}

func NewStore(cat Catalog) *Store {
	s := &Store{}
	s.current.Store(&cat)
	return s
}

// Current returns the active catalog.
func (s *Store) Current() Catalog {
	return *s.current.Load()
}

// Swap installs a new catalog and returns the previous version string.
func (s *Store) Swap(cat Catalog) string {
	old := s.current.Swap(&cat)
	if old == nil {
		return ""
	}
	return old.Version
}
