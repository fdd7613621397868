// Package testing provides test doubles for the iri package.
package testing

import (
	"context"
	"sync"

	"github.com/iritop/iritop/internal/iri"
)

// Cycle scripts the result of one poll. When Err is set both fetch
// methods return it; otherwise Info and Neighbors are served.
type Cycle struct {
	Info      iri.NodeInfo
	Neighbors []iri.Neighbor
	Err       error
}

// FakeFetcher serves scripted per-cycle results behind the iri.Fetcher
// contract, so loop tests never touch the network. Each method indexes
// the script by its own call count; the last cycle repeats once the
// script runs out.
type FakeFetcher struct {
	mu     sync.Mutex
	cycles []Cycle

	// Tracking for assertions
	NodeInfoCalls  int
	NeighborsCalls int
}

// NewFakeFetcher creates a fake fetcher scripted with the given cycles.
func NewFakeFetcher(cycles ...Cycle) *FakeFetcher {
	return &FakeFetcher{cycles: cycles}
}

// Queue appends a cycle to the script.
func (f *FakeFetcher) Queue(c Cycle) *FakeFetcher {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cycles = append(f.cycles, c)
	return f
}

// NodeInfo returns the scripted node info for this call's cycle.
func (f *FakeFetcher) NodeInfo(ctx context.Context) (iri.NodeInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c := f.cycle(f.NodeInfoCalls)
	f.NodeInfoCalls++
	if c.Err != nil {
		return iri.NodeInfo{}, c.Err
	}
	return c.Info, nil
}

// Neighbors returns the scripted neighbor list for this call's cycle.
func (f *FakeFetcher) Neighbors(ctx context.Context) ([]iri.Neighbor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	c := f.cycle(f.NeighborsCalls)
	f.NeighborsCalls++
	if c.Err != nil {
		return nil, c.Err
	}
	return c.Neighbors, nil
}

// Calls returns how many full poll cycles have been served, using the
// larger of the two per-method counters.
func (f *FakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.NodeInfoCalls > f.NeighborsCalls {
		return f.NodeInfoCalls
	}
	return f.NeighborsCalls
}

func (f *FakeFetcher) cycle(idx int) Cycle {
	if len(f.cycles) == 0 {
		return Cycle{}
	}
	if idx >= len(f.cycles) {
		idx = len(f.cycles) - 1
	}
	return f.cycles[idx]
}
