package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/iritop/iritop/internal/errors"
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	// Check version
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but iritop only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest iritop release")
	}

	if err := ValidateNodeURL(cfg.Node); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'node' setting in your .iritop.yaml.")
	}

	if err := validateAuth(cfg.Username, cfg.Password); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Set username and password together, or neither.")
	}

	if err := validateTiming(cfg); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the delay settings in your .iritop.yaml.")
	}

	if err := validateAuthPolicy(cfg.OnAuthError); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig, err.Error(), "Check the 'on_auth_error' setting in your .iritop.yaml.")
	}

	// Sort is intentionally not validated: out-of-range magnitudes are
	// clamped into the column range when sorting.

	return nil
}

// ValidateNodeURL checks that a node URL is usable for API requests.
// Exported so the init form can validate input as it is typed.
func ValidateNodeURL(node string) error {
	if strings.TrimSpace(node) == "" {
		return fmt.Errorf("node URL is empty - iritop needs a node to watch")
	}

	u, err := url.Parse(node)
	if err != nil {
		return fmt.Errorf("node '%s' doesn't look like a URL - try something like 'http://localhost:14265'", node)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("node '%s' needs an http:// or https:// scheme", node)
	}

	if u.Host == "" {
		return fmt.Errorf("node '%s' is missing a host - try something like 'http://localhost:14265'", node)
	}

	return nil
}

// validateAuth checks the username/password pairing rule.
func validateAuth(username, password string) error {
	if username != "" && password == "" {
		return fmt.Errorf("username is set but password is empty - basic auth needs both")
	}
	if username == "" && password != "" {
		return fmt.Errorf("password is set but username is empty - basic auth needs both")
	}
	return nil
}

// validateTiming checks the poll/blink/timeout relationships.
func validateTiming(cfg *Config) error {
	if cfg.PollDelay <= 0 {
		return fmt.Errorf("poll_delay must be positive - the dashboard needs a refresh cadence")
	}
	if cfg.BlinkDelay <= 0 {
		return fmt.Errorf("blink_delay must be positive - changed values need time on screen")
	}
	if cfg.FetchTimeout < 0 {
		return fmt.Errorf("fetch_timeout can't be negative - that doesn't make sense")
	}
	if cfg.FetchTimeout > 0 && cfg.FetchTimeout >= cfg.PollDelay {
		return fmt.Errorf("fetch_timeout (%v) is at least as long as poll_delay (%v) - a stalled node would eat whole cycles", cfg.FetchTimeout, cfg.PollDelay)
	}
	return nil
}

// validateAuthPolicy checks the on_auth_error setting.
func validateAuthPolicy(policy string) error {
	switch policy {
	case "", AuthStop, AuthContinue:
		return nil
	}
	return fmt.Errorf("on_auth_error '%s' isn't valid - use 'stop' or 'continue'", policy)
}
