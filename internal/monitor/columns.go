package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/iritop/iritop/internal/iri"
)

// Field keys for change tracking. Neighbor cells are keyed by the
// neighbor's address plus one of these; node cells use NodeRow.
const (
	FieldAddress   = "address"
	FieldDomain    = "domain"
	FieldConnected = "connected"
	FieldType      = "connectionType"
	FieldAllTx     = "allTransactions"
	FieldInvalidTx = "invalidTransactions"
	FieldNewTx     = "newTransactions"
	FieldRandomTx  = "randomRequests"
	FieldSentTx    = "sentTransactions"
	FieldStaleTx   = "staleTransactions"
)

// Column describes one neighbor table column. Identity is positional:
// the 1-based index in tableColumns is what the keyboard digits and the
// signed sort value refer to, so the order here is part of the UI
// contract.
type Column struct {
	// Key is the column's primary field key.
	Key string

	// Label is the header text, without the sort marker.
	Label string

	// Width is the fixed cell width. Zero marks the flexible column
	// that absorbs whatever terminal width the fixed columns leave.
	Width int

	// Numeric columns sort numerically and right-align their cells.
	Numeric bool

	// Fields lists every field key whose change highlights this cell.
	// Most columns track a single field; the identity and type columns
	// fold two wire fields into one cell.
	Fields []string

	// Number extracts the sortable value of a numeric column.
	Number func(iri.Neighbor) int64

	// Text extracts the raw comparable value of a text column. The
	// flag selects domain identity when the operator asked for it.
	Text func(n iri.Neighbor, showDomains bool) string
}

// Compare orders two neighbors by this column's native type: numeric
// columns by value, text columns lexicographically on the raw text.
func (c Column) Compare(a, b iri.Neighbor, showDomains bool) int {
	if c.Numeric {
		av, bv := c.Number(a), c.Number(b)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	}
	return strings.Compare(c.Text(a, showDomains), c.Text(b, showDomains))
}

// displayIdentity returns the neighbor's domain when domains are shown
// and the node reported one, otherwise the address.
func displayIdentity(n iri.Neighbor, showDomains bool) string {
	if showDomains && n.Domain != "" {
		return n.Domain
	}
	return n.Address
}

// tableColumns is the fixed, ordered column set of the neighbor table.
var tableColumns = []Column{
	{
		Key:    FieldAddress,
		Label:  "Neighbor",
		Fields: []string{FieldAddress, FieldDomain},
		Text:   displayIdentity,
	},
	{
		Key:    FieldType,
		Label:  "Type",
		Width:  6,
		Fields: []string{FieldType, FieldConnected},
		Text: func(n iri.Neighbor, _ bool) string {
			return n.ConnectionType
		},
	},
	{
		Key:     FieldAllTx,
		Label:   "All tx",
		Width:   12,
		Numeric: true,
		Fields:  []string{FieldAllTx},
		Number:  func(n iri.Neighbor) int64 { return n.AllTransactions },
	},
	{
		Key:     FieldNewTx,
		Label:   "New tx",
		Width:   12,
		Numeric: true,
		Fields:  []string{FieldNewTx},
		Number:  func(n iri.Neighbor) int64 { return n.NewTransactions },
	},
	{
		Key:     FieldSentTx,
		Label:   "Sent tx",
		Width:   12,
		Numeric: true,
		Fields:  []string{FieldSentTx},
		Number:  func(n iri.Neighbor) int64 { return n.SentTransactions },
	},
	{
		Key:     FieldRandomTx,
		Label:   "Random tx",
		Width:   12,
		Numeric: true,
		Fields:  []string{FieldRandomTx},
		Number:  func(n iri.Neighbor) int64 { return n.RandomRequests },
	},
	{
		Key:     FieldInvalidTx,
		Label:   "Invalid tx",
		Width:   12,
		Numeric: true,
		Fields:  []string{FieldInvalidTx},
		Number:  func(n iri.Neighbor) int64 { return n.InvalidTransactions },
	},
	{
		Key:     FieldStaleTx,
		Label:   "Stale tx",
		Width:   12,
		Numeric: true,
		Fields:  []string{FieldStaleTx},
		Number:  func(n iri.Neighbor) int64 { return n.StaleTransactions },
	},
}

// NodeField is one compared scalar of the node overview. The diff walks
// this list, so adding a field here is all it takes to make its changes
// blink on the panel.
type NodeField struct {
	Key   string
	Value func(iri.NodeInfo) any
}

// Node field keys. The wire names are kept where one field maps to one
// wire field.
const (
	NodeFieldAppName        = "appName"
	NodeFieldAppVersion     = "appVersion"
	NodeFieldJREVersion     = "jreVersion"
	NodeFieldJREProcessors  = "jreAvailableProcessors"
	NodeFieldJREFreeMemory  = "jreFreeMemory"
	NodeFieldJRETotalMemory = "jreTotalMemory"
	NodeFieldJREMaxMemory   = "jreMaxMemory"
	NodeFieldMilestone      = "latestMilestoneIndex"
	NodeFieldSolidMilestone = "latestSolidMilestoneIndex"
	NodeFieldStartMilestone = "milestoneStartIndex"
	NodeFieldNeighborCount  = "neighbors"
	NodeFieldQueueSize      = "packetsQueueSize"
	NodeFieldTime           = "time"
	NodeFieldTips           = "tips"
	NodeFieldTxToRequest    = "transactionsToRequest"
)

var nodeFields = []NodeField{
	{NodeFieldAppName, func(i iri.NodeInfo) any { return i.AppName }},
	{NodeFieldAppVersion, func(i iri.NodeInfo) any { return i.AppVersion }},
	{NodeFieldJREVersion, func(i iri.NodeInfo) any { return i.JREVersion }},
	{NodeFieldJREProcessors, func(i iri.NodeInfo) any { return i.JREAvailableProcessors }},
	{NodeFieldJREFreeMemory, func(i iri.NodeInfo) any { return i.JREFreeMemory }},
	{NodeFieldJRETotalMemory, func(i iri.NodeInfo) any { return i.JRETotalMemory }},
	{NodeFieldJREMaxMemory, func(i iri.NodeInfo) any { return i.JREMaxMemory }},
	{NodeFieldMilestone, func(i iri.NodeInfo) any { return i.LatestMilestoneIndex }},
	{NodeFieldSolidMilestone, func(i iri.NodeInfo) any { return i.LatestSolidMilestoneIndex }},
	{NodeFieldStartMilestone, func(i iri.NodeInfo) any { return i.MilestoneStartIndex }},
	{NodeFieldNeighborCount, func(i iri.NodeInfo) any { return i.NeighborCount }},
	{NodeFieldQueueSize, func(i iri.NodeInfo) any { return i.PacketsQueueSize }},
	{NodeFieldTime, func(i iri.NodeInfo) any { return i.TimeMillis }},
	{NodeFieldTips, func(i iri.NodeInfo) any { return i.Tips }},
	{NodeFieldTxToRequest, func(i iri.NodeInfo) any { return i.TransactionsToRequest }},
}

// neighborFields lists every compared neighbor scalar. Counters are
// integers, so plain equality is exact.
var neighborFields = []struct {
	key   string
	value func(iri.Neighbor) any
}{
	{FieldAddress, func(n iri.Neighbor) any { return n.Address }},
	{FieldDomain, func(n iri.Neighbor) any { return n.Domain }},
	{FieldConnected, func(n iri.Neighbor) any { return n.Connected }},
	{FieldType, func(n iri.Neighbor) any { return n.ConnectionType }},
	{FieldAllTx, func(n iri.Neighbor) any { return n.AllTransactions }},
	{FieldInvalidTx, func(n iri.Neighbor) any { return n.InvalidTransactions }},
	{FieldNewTx, func(n iri.Neighbor) any { return n.NewTransactions }},
	{FieldRandomTx, func(n iri.Neighbor) any { return n.RandomRequests }},
	{FieldSentTx, func(n iri.Neighbor) any { return n.SentTransactions }},
	{FieldStaleTx, func(n iri.Neighbor) any { return n.StaleTransactions }},
}

// panelItem is one entry of the node overview panel. Items reference
// node field keys, so a value lights up when any field behind it
// changed in the last poll.
type panelItem struct {
	label  string
	fields []string
	format func(iri.NodeInfo) string

	// style overrides the default value style, for items that grade
	// their value (milestone lag).
	style func(iri.NodeInfo) lipgloss.Style
}

// panelRows lays the overview out as two dense lines above the table.
var panelRows = [][]panelItem{
	{
		{
			label:  "Node",
			fields: []string{NodeFieldAppName, NodeFieldAppVersion},
			format: func(i iri.NodeInfo) string {
				return strings.TrimSpace(i.AppName + " " + i.AppVersion)
			},
		},
		{
			label:  "JRE",
			fields: []string{NodeFieldJREVersion, NodeFieldJREProcessors},
			format: formatJRE,
		},
		{
			label:  "Memory",
			fields: []string{NodeFieldJREFreeMemory, NodeFieldJRETotalMemory, NodeFieldJREMaxMemory},
			format: formatMemory,
		},
		{
			label:  "Node time",
			fields: []string{NodeFieldTime},
			format: func(i iri.NodeInfo) string {
				return time.UnixMilli(i.TimeMillis).UTC().Format("15:04:05")
			},
		},
	},
	{
		{
			label:  "Milestone",
			fields: []string{NodeFieldMilestone},
			format: func(i iri.NodeInfo) string {
				return humanize.Comma(i.LatestMilestoneIndex)
			},
		},
		{
			label:  "Solid",
			fields: []string{NodeFieldSolidMilestone},
			format: formatSolidMilestone,
			style:  func(i iri.NodeInfo) lipgloss.Style { return lagStyle(i.MilestoneLag()) },
		},
		{
			label:  "Tips",
			fields: []string{NodeFieldTips},
			format: func(i iri.NodeInfo) string { return humanize.Comma(i.Tips) },
		},
		{
			label:  "To request",
			fields: []string{NodeFieldTxToRequest},
			format: func(i iri.NodeInfo) string { return humanize.Comma(i.TransactionsToRequest) },
		},
		{
			label:  "Queue",
			fields: []string{NodeFieldQueueSize},
			format: func(i iri.NodeInfo) string { return humanize.Comma(i.PacketsQueueSize) },
		},
		{
			label:  "Neighbors",
			fields: []string{NodeFieldNeighborCount},
			format: func(i iri.NodeInfo) string { return humanize.Comma(i.NeighborCount) },
		},
	},
}

func formatJRE(i iri.NodeInfo) string {
	if i.JREVersion == "" {
		return "-"
	}
	if i.JREAvailableProcessors > 0 {
		cores := humanize.Comma(i.JREAvailableProcessors)
		return fmt.Sprintf("%s (%s cores)", i.JREVersion, cores)
	}
	return i.JREVersion
}

// formatMemory renders heap usage as used/max. The node reports free
// and total, so used is derived; a node that reports free > total shows
// zero rather than wrapping around.
func formatMemory(i iri.NodeInfo) string {
	used := i.JRETotalMemory - i.JREFreeMemory
	if used < 0 {
		used = 0
	}
	max := i.JREMaxMemory
	if max < 0 {
		max = 0
	}
	return fmt.Sprintf("%s / %s", humanize.IBytes(uint64(used)), humanize.IBytes(uint64(max)))
}

// formatSolidMilestone appends the lag behind the latest milestone when
// the node is not fully solid.
func formatSolidMilestone(i iri.NodeInfo) string {
	solid := humanize.Comma(i.LatestSolidMilestoneIndex)
	if lag := i.MilestoneLag(); lag > 0 {
		return fmt.Sprintf("%s (-%s)", solid, humanize.Comma(lag))
	}
	return solid
}
