package monitor

import (
	"time"

	"github.com/iritop/iritop/internal/iri"
)

// NodeRow is the reserved row key for node overview cells. Neighbor
// rows are keyed by address, which is never empty on the wire, so the
// empty string cannot collide.
const NodeRow = ""

// CellKey identifies one highlightable cell: a row and a field.
type CellKey struct {
	Row   string
	Field string
}

// ChangeSet maps recently changed cells to the instant their highlight
// expires. Diff produces one per poll; the model merges it into the
// live set and prunes expired entries on the blink cadence.
type ChangeSet map[CellKey]time.Time

// NewChangeSet returns an empty change set.
func NewChangeSet() ChangeSet {
	return make(ChangeSet)
}

// Merge folds other into the set, keeping the later expiry when a cell
// appears in both. A value that changes on consecutive polls keeps
// blinking rather than going dark early.
func (cs ChangeSet) Merge(other ChangeSet) {
	for key, expiry := range other {
		if current, ok := cs[key]; !ok || expiry.After(current) {
			cs[key] = expiry
		}
	}
}

// Prune drops every entry whose expiry is at or before now.
func (cs ChangeSet) Prune(now time.Time) {
	for key, expiry := range cs {
		if !expiry.After(now) {
			delete(cs, key)
		}
	}
}

// Active reports whether the cell changed recently enough to still be
// highlighted at now.
func (cs ChangeSet) Active(row, field string, now time.Time) bool {
	expiry, ok := cs[CellKey{Row: row, Field: field}]
	return ok && expiry.After(now)
}

// ActiveAny reports whether any of the fields is active for the row.
// Table cells that fold several wire fields use this.
func (cs ChangeSet) ActiveAny(row string, fields []string, now time.Time) bool {
	for _, field := range fields {
		if cs.Active(row, field, now) {
			return true
		}
	}
	return false
}

// Diff compares two snapshots and returns the cells whose value
// changed, each expiring ttl after now.
//
// Neighbors are joined by address. A neighbor present in both snapshots
// is compared field by field; one that only exists in cur is new, so
// every field counts as changed; one that only exists in prev was
// removed and simply stops being rendered. A nil prev (the first poll)
// compares against the zero snapshot, so the initial screen lights up
// once and then settles.
func Diff(prev, cur *Snapshot, now time.Time, ttl time.Duration) ChangeSet {
	cs := NewChangeSet()
	if cur == nil {
		return cs
	}
	expiry := now.Add(ttl)

	var prevNode iri.NodeInfo
	if prev != nil {
		prevNode = prev.Node
	}
	for _, f := range nodeFields {
		if f.Value(prevNode) != f.Value(cur.Node) {
			cs[CellKey{Row: NodeRow, Field: f.Key}] = expiry
		}
	}

	known := make(map[string]iri.Neighbor)
	if prev != nil {
		for _, n := range prev.Neighbors {
			known[n.Address] = n
		}
	}

	for _, n := range cur.Neighbors {
		old, seen := known[n.Address]
		for _, f := range neighborFields {
			if !seen || f.value(old) != f.value(n) {
				cs[CellKey{Row: n.Address, Field: f.key}] = expiry
			}
		}
	}

	return cs
}
