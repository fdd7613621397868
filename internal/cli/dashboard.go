package cli

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/iritop/iritop/internal/config"
	"github.com/iritop/iritop/internal/errors"
	"github.com/iritop/iritop/internal/iri"
	"github.com/iritop/iritop/internal/logger"
	"github.com/iritop/iritop/internal/monitor"
)

// dashboardCommand starts the polling dashboard and blocks until it
// quits. The alt screen is entered here and restored by Bubble Tea no
// matter how the loop ends.
func dashboardCommand(cfg *config.Config) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrTerm,
			"iritop needs a terminal to draw on",
			"Run it from an interactive shell, not a pipe or a CI job.")
	}

	model, err := buildModel(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrTerm,
			"The dashboard stopped unexpectedly",
			"Set IRITOP_DEBUG=1 and rerun for details.")
	}

	// A fatal poll error quits the loop cleanly; report it after the
	// alt screen is torn down so the message survives on screen.
	if m, ok := final.(monitor.Model); ok {
		return m.Err()
	}
	return nil
}

// buildModel wires the config into a node client and a dashboard model.
func buildModel(cfg *config.Config) (monitor.Model, error) {
	opts := []iri.ClientOption{
		iri.WithLogger(logger.NewEnvLogger("[iri]")),
	}
	if cfg.HasAuth() {
		opts = append(opts, iri.WithBasicAuth(cfg.Username, cfg.Password))
	}

	client, err := iri.NewClient(cfg.Node, opts...)
	if err != nil {
		return monitor.Model{}, err
	}

	return monitor.NewModel(monitor.Options{
		Fetcher:         client,
		Node:            cfg.Node,
		PollDelay:       cfg.PollDelay,
		BlinkDelay:      cfg.BlinkDelay,
		FetchTimeout:    cfg.EffectiveFetchTimeout(),
		Sort:            cfg.Sort,
		ObscureAddress:  cfg.ObscureAddress,
		ShowDomains:     cfg.ShowDomains,
		StopOnAuthError: cfg.OnAuthError != config.AuthContinue,
		Log:             logger.NewEnvLogger("[monitor]"),
	}), nil
}
