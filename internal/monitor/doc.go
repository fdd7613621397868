// Package monitor implements the live TUI dashboard for a single IRI
// node.
//
// The dashboard polls the node's HTTP API on a fixed cadence and shows
// a node overview panel plus one table row per neighbor, with transient
// reverse-video highlighting on every value that changed since the
// previous poll.
//
// # Architecture
//
// The package uses the Bubble Tea framework, which follows The Elm
// Architecture (Model-Update-View pattern):
//
//   - Model: Holds application state (snapshots, highlights, sort state)
//   - Update: Processes messages (keystrokes, tick events, poll results)
//   - View: Renders the current state to a string for display
//
// # Key Components
//
//	Model      - The Bubble Tea model containing all dashboard state
//	Store      - The current snapshot and the one from the poll before
//	ChangeSet  - Cells changed recently enough to still be highlighted
//	SortState  - Signed column index: magnitude picks, sign directs
//
// # Message Flow
//
// The dashboard operates on a poll cycle:
//
//  1. pollTickMsg fires when the next poll is due
//  2. pollCmd() fetches getNodeInfo and getNeighbors off the update loop
//  3. pollResultMsg arrives; the snapshot pair advances and the diff of
//     the two snapshots is merged into the change set
//  4. View() re-renders, reversing cells the change set marks active
//
// A separate blinkTickMsg cadence prunes expired highlights between
// polls so they fade on time even when polling is slow. Failed polls
// never advance the snapshot pair: transport errors keep the last good
// data on screen behind a stale banner, while protocol violations end
// the session.
//
// # Keyboard Shortcuts
//
// Control is handled via keybindings defined in keybindings.go:
//
//	1-8              - Sort by that column (ascending on first press)
//	same digit again - Flip the sort direction
//	q, Esc, Ctrl+C   - Quit
package monitor
