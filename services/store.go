package services

import (
	"sync"

	"emlak-analytics/models"
)

// Store holds the listing collection. It is the only shared mutable state in
// the pipeline: merges happen under the write lock as a merge-then-swap, so
// concurrent readers never observe a partially appended collection.
type Store struct {
	mu       sync.RWMutex
	listings []models.Listing
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Merge deduplicates the incoming batch against the stored collection,
// appends the new listings and returns how many were inserted.
func (s *Store) Merge(incoming []models.Listing) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, added := Merge(s.listings, incoming)
	s.listings = merged
	return added
}

// Snapshot returns a copy of the stored collection in insertion order.
func (s *Store) Snapshot() []models.Listing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Listing, len(s.listings))
	copy(out, s.listings)
	return out
}

// Len returns the number of stored listings.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listings)
}

// Replace swaps the whole collection, used when reloading a dataset.
func (s *Store) Replace(listings []models.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Listing, len(listings))
	copy(out, listings)
	s.listings = out
}
