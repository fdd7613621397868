package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/iritop/iritop/internal/config"
	"github.com/iritop/iritop/internal/errors"
)

// applyFlags folds changed flags into cfg. Untouched flags leave the
// file (or default) values alone, so partial overrides compose.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("node") {
		cfg.Node = nodeFlag
	}
	if flags.Changed("username") {
		cfg.Username = usernameFlag
	}
	if flags.Changed("password") {
		cfg.Password = passwordFlag
	}
	if flags.Changed("poll-delay") {
		d, err := parseDelay("poll-delay", pollDelayFlag)
		if err != nil {
			return err
		}
		cfg.PollDelay = d
	}
	if flags.Changed("blink-delay") {
		d, err := parseDelay("blink-delay", blinkDelayFlag)
		if err != nil {
			return err
		}
		cfg.BlinkDelay = d
	}
	if flags.Changed("fetch-timeout") {
		d, err := parseDelay("fetch-timeout", fetchTimeoutFlag)
		if err != nil {
			return err
		}
		cfg.FetchTimeout = d
	}
	if flags.Changed("sort") {
		cfg.Sort = sortFlag
	}
	if flags.Changed("obscure-address") {
		cfg.ObscureAddress = obscureFlag
	}
	if flags.Changed("show-domains") {
		cfg.ShowDomains = showDomainsFlag
	}
	if flags.Changed("on-auth-error") {
		cfg.OnAuthError = onAuthErrorFlag
	}

	return nil
}

// parseDelay parses a duration flag value.
func parseDelay(name, value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid %s", value, name),
			"Try something like 2s, 500ms, or 1m.")
	}
	return d, nil
}
