package monitor

import tea "github.com/charmbracelet/bubbletea"

// Key bindings as constants for consistency.
const (
	KeyQuit    = "q"
	KeyQuitAlt = "ctrl+c"
	KeyQuitEsc = "esc"
)

// HandleKeyMsg processes keyboard input for the dashboard. Digit keys
// select the sort column; pressing the active column's digit flips its
// direction. Returns true if the key was handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	switch key {
	case KeyQuit, KeyQuitAlt, KeyQuitEsc:
		m.quitting = true
		return true, tea.Quit
	}

	if column, ok := columnDigit(key); ok {
		m.sort = m.sort.Toggle(column)
		return true, nil
	}

	return false, nil
}

// columnDigit maps a digit key to a 1-based column index. Digits past
// the last column are ignored rather than clamped, so a stray keypress
// does not silently reorder the table.
func columnDigit(key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	column := int(key[0] - '0')
	if column > len(tableColumns) {
		return 0, false
	}
	return column, true
}
