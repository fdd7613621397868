// Package ui provides terminal UI helpers for iritop's command output.
//
// The package holds the pieces commands print outside the full-screen
// dashboard: an animated spinner for probes and checks, plus the shared
// color palette and status symbols, all styled with the Lip Gloss
// library.
//
// # Color Scheme
//
// Colors are defined as ANSI codes for broad terminal compatibility:
//
//	ColorSuccess   (green)  - Successful operations
//	ColorError     (red)    - Failures and errors
//	ColorWarning   (yellow) - Warnings and skipped items
//	ColorInfo      (cyan)   - Informational messages
//	ColorMuted     (gray)   - Secondary text, timing info
//	ColorSecondary (blue)   - In-progress indicators
//
// # Symbols
//
// Unicode symbols provide visual status indicators:
//
//	SymbolSuccess  (checkmark)  - Completed successfully
//	SymbolFail     (X)          - Failed
//	SymbolPending  (circle)     - Not yet run
//	SymbolComplete (filled)     - Done (alternative)
//	SymbolSkipped  (slashed)    - Skipped
//
// # Spinner Usage
//
// The Spinner type provides an animated indicator for operations:
//
//	s := ui.NewSpinner("Probing node")
//	s.Start()
//	// ... do work ...
//	s.Success() // or s.Fail() or s.Skip()
//
// The spinner handles terminal output, clearing lines, and timing
// display.
//
// # Bubble Tea Programs
//
// Full-screen programs embed the bubbles spinner component directly and
// share SpinnerFrames, so both spinners animate identically.
package ui
