package monitor

import (
	"time"

	"github.com/iritop/iritop/internal/iri"
)

// Snapshot is one complete, successfully parsed poll: the node overview
// and the full neighbor list, fetched together.
type Snapshot struct {
	Neighbors []iri.Neighbor
	Node      iri.NodeInfo
	FetchedAt time.Time
}

// Store holds the current snapshot and the one from exactly one poll
// earlier. Failed polls never reach the store, so the pair always spans
// two successful polls and the view keeps rendering the last good data
// while the node is unreachable.
type Store struct {
	previous *Snapshot
	current  *Snapshot
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Advance installs snap as the current snapshot and demotes the old
// current to previous. It is the only way the store changes.
func (s *Store) Advance(snap Snapshot) {
	s.previous = s.current
	s.current = &snap
}

// Current returns the latest successful snapshot, or nil before the
// first poll completes.
func (s *Store) Current() *Snapshot {
	return s.current
}

// Previous returns the snapshot one poll back, or nil until two polls
// have succeeded.
func (s *Store) Previous() *Snapshot {
	return s.previous
}

// HasData reports whether at least one poll has succeeded.
func (s *Store) HasData() bool {
	return s.current != nil
}
