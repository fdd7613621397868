package doctor

import (
	"os"

	"golang.org/x/term"
)

// TerminalCheck verifies the dashboard has an interactive terminal to
// draw on. Warn rather than fail: doctor itself is fine in a pipe.
type TerminalCheck struct {
	Output *os.File // Defaults to stdout
}

func (c *TerminalCheck) Name() string     { return "terminal" }
func (c *TerminalCheck) Category() string { return "TERMINAL" }

func (c *TerminalCheck) Run() CheckResult {
	out := c.Output
	if out == nil {
		out = os.Stdout
	}

	if !term.IsTerminal(int(out.Fd())) {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Not attached to a terminal",
			Suggestion: "The dashboard needs an interactive shell; pipes and CI jobs won't work",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Interactive terminal detected",
	}
}

// NewTerminalChecks creates the terminal environment checks.
func NewTerminalChecks() []Check {
	return []Check{
		&TerminalCheck{},
	}
}
