package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iritop/iritop/internal/iri"
)

func TestSortStateColumnClamps(t *testing.T) {
	tests := []struct {
		name  string
		state SortState
		want  int
	}{
		{"positive in range", SortState(3), 3},
		{"negative in range", SortState(-3), 3},
		{"zero clamps to first", SortState(0), 1},
		{"past last clamps to last", SortState(99), len(tableColumns)},
		{"negative past last clamps to last", SortState(-99), len(tableColumns)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Column())
		})
	}
}

func TestSortStateDirection(t *testing.T) {
	assert.False(t, SortState(3).Descending())
	assert.True(t, SortState(-3).Descending())
	assert.False(t, SortState(0).Descending())

	assert.Equal(t, MarkerAscending, SortState(3).Marker())
	assert.Equal(t, MarkerDescending, SortState(-3).Marker())
}

func TestSortStateToggle(t *testing.T) {
	tests := []struct {
		name   string
		state  SortState
		column int
		want   SortState
	}{
		{"new column starts ascending", SortState(1), 3, SortState(3)},
		{"same ascending column flips descending", SortState(3), 3, SortState(-3)},
		{"same descending column flips ascending", SortState(-3), 3, SortState(3)},
		{"switching away resets to ascending", SortState(-3), 5, SortState(5)},
		{"clamped state toggles its effective column", SortState(99), len(tableColumns), SortState(-len(tableColumns))},
		{"column below range clamps to first", SortState(2), 0, SortState(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Toggle(tt.column))
		})
	}
}

func TestSortByNumericColumn(t *testing.T) {
	neighbors := []iri.Neighbor{
		testNeighbor("10.0.0.2:14600", 500),
		testNeighbor("10.0.0.1:14600", 1000),
		testNeighbor("10.0.0.3:14600", 750),
	}

	// Column 3 is the all-transactions counter.
	asc := Sort(neighbors, SortState(3), false)
	require.Len(t, asc, 3)
	assert.Equal(t, int64(500), asc[0].AllTransactions)
	assert.Equal(t, int64(750), asc[1].AllTransactions)
	assert.Equal(t, int64(1000), asc[2].AllTransactions)

	desc := Sort(neighbors, SortState(-3), false)
	assert.Equal(t, int64(1000), desc[0].AllTransactions)
	assert.Equal(t, int64(500), desc[2].AllTransactions)
}

func TestSortByIdentityColumn(t *testing.T) {
	neighbors := []iri.Neighbor{
		testNeighbor("udp://zeta:14600", 1),
		testNeighbor("udp://alpha:14600", 2),
		testNeighbor("udp://mike:14600", 3),
	}

	sorted := Sort(neighbors, SortState(1), false)

	assert.Equal(t, "udp://alpha:14600", sorted[0].Address)
	assert.Equal(t, "udp://mike:14600", sorted[1].Address)
	assert.Equal(t, "udp://zeta:14600", sorted[2].Address)
}

func TestSortIdentityUsesDomainWhenShown(t *testing.T) {
	a := testNeighbor("10.0.0.9:14600", 1)
	a.Domain = "aaa.example.com"
	b := testNeighbor("10.0.0.1:14600", 2)
	b.Domain = "zzz.example.com"

	byAddress := Sort([]iri.Neighbor{a, b}, SortState(1), false)
	assert.Equal(t, "10.0.0.1:14600", byAddress[0].Address)

	byDomain := Sort([]iri.Neighbor{a, b}, SortState(1), true)
	assert.Equal(t, "aaa.example.com", byDomain[0].Domain)
}

func TestSortTieBreaksByAddressBothDirections(t *testing.T) {
	// Identical counters everywhere, so every comparison is a tie.
	neighbors := []iri.Neighbor{
		testNeighbor("10.0.0.3:14600", 100),
		testNeighbor("10.0.0.1:14600", 100),
		testNeighbor("10.0.0.2:14600", 100),
	}

	wantOrder := []string{"10.0.0.1:14600", "10.0.0.2:14600", "10.0.0.3:14600"}

	asc := Sort(neighbors, SortState(3), false)
	desc := Sort(neighbors, SortState(-3), false)

	for i, want := range wantOrder {
		assert.Equal(t, want, asc[i].Address, "ascending row %d", i)
		assert.Equal(t, want, desc[i].Address, "descending row %d", i)
	}
}

func TestSortIsIdempotent(t *testing.T) {
	neighbors := []iri.Neighbor{
		testNeighbor("10.0.0.2:14600", 500),
		testNeighbor("10.0.0.1:14600", 1000),
	}

	once := Sort(neighbors, SortState(-3), false)
	twice := Sort(once, SortState(-3), false)

	assert.Equal(t, once, twice)
}

func TestSortLeavesInputUntouched(t *testing.T) {
	neighbors := []iri.Neighbor{
		testNeighbor("10.0.0.2:14600", 500),
		testNeighbor("10.0.0.1:14600", 1000),
	}

	Sort(neighbors, SortState(1), false)

	assert.Equal(t, "10.0.0.2:14600", neighbors[0].Address, "input order preserved")
}

func TestSortEmptyAndSingle(t *testing.T) {
	assert.Empty(t, Sort(nil, SortState(1), false))

	one := []iri.Neighbor{testNeighbor("10.0.0.1:14600", 1)}
	assert.Len(t, Sort(one, SortState(-5), false), 1)
}
