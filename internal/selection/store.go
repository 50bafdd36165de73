// Package selection tracks submitted URLs awaiting a format choice.
//
// A pending selection is created when a user sends a URL and consumed
// exactly once: either by the matching format callback or, when someone
// else presses the button, by the ownership check (which still removes the
// entry — a resubmission requires a fresh URL). Entries never expire on
// their own; they live until chosen or until the process restarts.
package selection

import (
	"errors"
	"sync"
)

// ErrExpired indicates the selection was already consumed or never existed.
var ErrExpired = errors.New("selection expired")

// ErrNotOwner indicates a different user submitted the URL.
var ErrNotOwner = errors.New("selection belongs to another user")

// Pending is a submitted URL awaiting a format choice.
type Pending struct {
	ID          string
	URL         string
	RequesterID int64
}

// Store is a concurrency-safe in-memory map of pending selections.
// It is injected into the components that need it rather than held as a
// package global, so concurrent jobs share one instance explicitly.
type Store struct {
	mu      sync.Mutex
	pending map[string]Pending
}

// NewStore constructs an empty selection store.
func NewStore() *Store {
	return &Store{pending: make(map[string]Pending)}
}

// Register inserts a pending selection. An existing entry with the same id
// is silently overwritten; ids derive from chat message ids and are
// expected to be externally unique, so the last writer wins.
func (s *Store) Register(id, url string, requesterID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[id] = Pending{ID: id, URL: url, RequesterID: requesterID}
}

// Pop removes and returns the selection for id. It fails with ErrExpired
// when no entry exists and with ErrNotOwner when the entry belongs to a
// different requester. The entry is removed in both cases: a mismatched
// press still consumes the selection. Removal is atomic, so concurrent
// pops on one id yield success for at most one caller.
func (s *Store) Pop(id string, requesterID int64) (Pending, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.pending[id]
	if !ok {
		return Pending{}, ErrExpired
	}
	delete(s.pending, id)

	if entry.RequesterID != requesterID {
		return Pending{}, ErrNotOwner
	}
	return entry, nil
}

// Len reports the number of pending selections. Used by status output.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
