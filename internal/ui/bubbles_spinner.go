package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// SpinnerFrames defines the animation frames (◐ ◓ ◑ ◒) for use in
// Bubble Tea programs. The standalone Spinner uses the same frames, so
// CLI output and the dashboard stay visually consistent.
var SpinnerFrames = spinner.Spinner{
	Frames: []string{"◐", "◓", "◑", "◒"},
	FPS:    time.Second / 10, // 100ms per frame
}
