package monitor

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/iritop/iritop/internal/errors"
	"github.com/iritop/iritop/internal/iri"
	"github.com/iritop/iritop/internal/util"
)

// renderWaiting is the screen before the first poll lands: a spinner,
// the node label, and the last failure if the node is not answering.
func (m Model) renderWaiting() string {
	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n\n")
	b.WriteString(m.spinner.View())
	b.WriteString(" waiting for ")
	b.WriteString(ValueStyle.Render(m.opts.Node))
	b.WriteString("...")

	if m.staleErr != nil {
		b.WriteString("\n\n")
		b.WriteString(StaleStyle.Render("still trying: " + summary(m.staleErr)))
	}

	b.WriteString("\n\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderDashboard assembles the full screen: title, node panel, stale
// banner when the data is old, the neighbor table, and the key help.
func (m Model) renderDashboard(now time.Time) string {
	var b strings.Builder

	b.WriteString(m.renderTitle())
	b.WriteString("\n")
	b.WriteString(m.renderPanel(now))
	b.WriteString("\n")
	if m.stale {
		b.WriteString(m.renderStaleBanner(now))
		b.WriteString("\n")
	}
	b.WriteString(m.renderTable(now))
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

// renderTitle is the top line: program name, node label, data age.
func (m Model) renderTitle() string {
	title := TitleStyle.Render("iritop")
	node := TitleNodeStyle.Render(" | " + m.opts.Node)

	if cur := m.store.Current(); cur != nil {
		age := int(time.Since(cur.FetchedAt).Seconds())

		var updateText string
		switch age {
		case 0:
			updateText = "just now"
		case 1:
			updateText = "1s ago"
		default:
			updateText = fmt.Sprintf("%ds ago", age)
		}

		return title + node + LabelStyle.Render(" | updated "+updateText)
	}
	return title + node
}

// renderPanel draws the node overview as two dense lines. A value whose
// backing fields changed in the last poll renders reversed until the
// highlight expires.
func (m Model) renderPanel(now time.Time) string {
	info := m.store.Current().Node

	rows := make([]string, 0, len(panelRows))
	for _, row := range panelRows {
		parts := make([]string, 0, len(row))
		for _, item := range row {
			style := ValueStyle
			if item.style != nil {
				style = item.style(info)
			}
			if m.changes.ActiveAny(NodeRow, item.fields, now) {
				style = ChangedStyle
			}
			parts = append(parts, LabelStyle.Render(item.label+" ")+style.Render(item.format(info)))
		}
		rows = append(rows, strings.Join(parts, LabelStyle.Render("  |  ")))
	}

	return strings.Join(rows, "\n")
}

// renderStaleBanner warns that polling is failing and says how old the
// rendered data is.
func (m Model) renderStaleBanner(now time.Time) string {
	age := now.Sub(m.store.Current().FetchedAt).Round(time.Second)
	msg := fmt.Sprintf("⚠ %s | showing data from %s ago", summary(m.staleErr), age)
	return StaleStyle.Render(msg)
}

// renderTable draws the neighbor table: one header row plus one row per
// neighbor, ordered by the active sort state.
func (m Model) renderTable(now time.Time) string {
	neighbors := Sort(m.store.Current().Neighbors, m.sort, m.opts.ShowDomains)
	widths := m.columnWidths()

	var b strings.Builder
	b.WriteString(m.renderHeaderRow(widths))

	if len(neighbors) == 0 {
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render("No neighbors configured on this node"))
		return b.String()
	}

	visible := m.visibleRows(len(neighbors))
	for _, n := range neighbors[:visible] {
		b.WriteString("\n")
		b.WriteString(m.renderRow(n, widths, now))
	}
	if hidden := len(neighbors) - visible; hidden > 0 {
		b.WriteString("\n")
		note := fmt.Sprintf("… %d more %s", hidden, util.Pluralize(hidden, "neighbor", "neighbors"))
		b.WriteString(LabelStyle.Render(note))
	}

	return b.String()
}

// renderHeaderRow draws the column labels, marking the active sort
// column with its direction.
func (m Model) renderHeaderRow(widths []int) string {
	active := m.sort.Column()

	cells := make([]string, len(tableColumns))
	for i, col := range tableColumns {
		label := col.Label
		style := HeaderStyle
		if i+1 == active {
			label += " " + m.sort.Marker()
			style = HeaderActiveStyle
		}
		cells[i] = style.Render(fit(label, widths[i], col.Numeric))
	}
	return strings.Join(cells, columnSeparator)
}

// renderRow draws one neighbor. Cells whose backing fields changed in
// the last poll render reversed until the highlight expires.
func (m Model) renderRow(n iri.Neighbor, widths []int, now time.Time) string {
	cells := make([]string, len(tableColumns))
	for i, col := range tableColumns {
		style := CellStyle
		if m.changes.ActiveAny(n.Address, col.Fields, now) {
			style = ChangedStyle
		}
		cells[i] = style.Render(fit(m.cellText(n, col), widths[i], col.Numeric))
	}
	return strings.Join(cells, columnSeparator)
}

// cellText formats one cell: counters get thousands separators, the
// identity cell honors the domain and obscure settings, the type cell
// carries the connection glyph.
func (m Model) cellText(n iri.Neighbor, col Column) string {
	if col.Numeric {
		return humanize.Comma(col.Number(n))
	}

	switch col.Key {
	case FieldAddress:
		identity := displayIdentity(n, m.opts.ShowDomains)
		if m.opts.ObscureAddress {
			identity = obscureHost(identity)
		}
		return identity
	case FieldType:
		return connectedGlyph(n.Connected) + " " + n.ConnectionType
	}

	return col.Text(n, m.opts.ShowDomains)
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	hints := []string{
		fmt.Sprintf("1-%d sort column", len(tableColumns)),
		"same digit flips direction",
		"q quit",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

// columnWidths resolves per-column widths for the current terminal:
// fixed columns keep their width, the flexible identity column absorbs
// the rest but never shrinks below a readable minimum.
func (m Model) columnWidths() []int {
	widths := make([]int, len(tableColumns))
	fixed := 0
	flex := -1
	for i, col := range tableColumns {
		widths[i] = col.Width
		if col.Width == 0 {
			flex = i
			continue
		}
		fixed += col.Width
	}

	if flex >= 0 {
		avail := m.width - fixed - columnGap*(len(tableColumns)-1)
		if avail < minIdentityWidth {
			avail = minIdentityWidth
		}
		widths[flex] = avail
	}
	return widths
}

// visibleRows caps the neighbor rows to what fits under the fixed
// chrome. Before the first WindowSizeMsg the height is unknown and
// every row renders.
func (m Model) visibleRows(total int) int {
	if m.height <= 0 {
		return total
	}

	// Title, two panel lines, table header, footer.
	chrome := 5
	if m.stale {
		chrome++
	}

	avail := m.height - chrome
	if avail < 1 {
		avail = 1
	}
	if total <= avail {
		return total
	}
	// One line of the budget goes to the "more" note.
	if avail > 1 {
		avail--
	}
	return avail
}

// obscureHost masks the identifying part of an address while keeping
// the port, so a shared screen does not leak peers. Display only;
// sorting and diffing still use the real address.
func obscureHost(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return "*****" + addr[i:]
	}
	return "*****"
}

// summary flattens an error to one banner-sized line.
func summary(err error) string {
	if err == nil {
		return "poll failed"
	}
	var structured *errors.Error
	if stderrors.As(err, &structured) {
		return structured.Message
	}
	return err.Error()
}
