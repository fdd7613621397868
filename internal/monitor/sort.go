package monitor

import (
	"sort"

	"github.com/iritop/iritop/internal/iri"
)

// SortState encodes the active sort in one signed integer: the
// magnitude is a 1-based column index, the sign the direction. Positive
// sorts ascending, negative descending. Out-of-range magnitudes clamp
// into the column range instead of failing, so any configured value
// yields a working table.
type SortState int

// Column returns the clamped 1-based index of the active column.
func (s SortState) Column() int {
	col := int(s)
	if col < 0 {
		col = -col
	}
	if col < 1 {
		col = 1
	}
	if col > len(tableColumns) {
		col = len(tableColumns)
	}
	return col
}

// Descending reports whether rows sort largest first.
func (s SortState) Descending() bool {
	return s < 0
}

// Marker returns the direction marker shown on the active column
// header.
func (s SortState) Marker() string {
	if s.Descending() {
		return MarkerDescending
	}
	return MarkerAscending
}

// Toggle returns the state after the operator picks column (1-based).
// Picking the active column flips its direction; picking another
// column selects it ascending. The result is always in range.
func (s SortState) Toggle(column int) SortState {
	if column < 1 {
		column = 1
	}
	if column > len(tableColumns) {
		column = len(tableColumns)
	}
	if s.Column() == column && !s.Descending() {
		return SortState(-column)
	}
	return SortState(column)
}

// Sort returns the neighbors ordered by the state's column and
// direction, leaving the input untouched. Ties break by ascending
// address no matter the direction, so rows with equal values never
// trade places between polls.
func Sort(neighbors []iri.Neighbor, state SortState, showDomains bool) []iri.Neighbor {
	sorted := make([]iri.Neighbor, len(neighbors))
	copy(sorted, neighbors)

	column := tableColumns[state.Column()-1]
	descending := state.Descending()

	sort.Slice(sorted, func(i, j int) bool {
		cmp := column.Compare(sorted[i], sorted[j], showDomains)
		if cmp == 0 {
			return sorted[i].Address < sorted[j].Address
		}
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})

	return sorted
}
