package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Auth policies for OnAuthError.
const (
	// AuthStop ends the session when the node rejects credentials.
	AuthStop = "stop"
	// AuthContinue keeps polling and shows the refusal on screen.
	AuthContinue = "continue"
)

// Config represents the complete .iritop.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Node is the base URL of the node's HTTP API.
	Node string `yaml:"node" mapstructure:"node"`

	// Username and Password enable HTTP basic auth.
	// Either both are set or neither is.
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`

	// PollDelay is the time between polls of the node.
	PollDelay time.Duration `yaml:"poll_delay" mapstructure:"poll_delay"`

	// BlinkDelay is how long a changed value stays highlighted.
	// It is also the cadence at which highlights decay between polls.
	BlinkDelay time.Duration `yaml:"blink_delay" mapstructure:"blink_delay"`

	// FetchTimeout bounds a single poll round-trip. It must stay below
	// PollDelay so a stalled node never eats a whole cycle.
	// Zero means derive it from PollDelay.
	FetchTimeout time.Duration `yaml:"fetch_timeout" mapstructure:"fetch_timeout"`

	// Sort is the startup sort column as a signed 1-based index.
	// Positive sorts ascending, negative descending. Out-of-range
	// magnitudes are clamped into the column range at use.
	Sort int `yaml:"sort" mapstructure:"sort"`

	// ObscureAddress masks the host part of neighbor addresses on
	// screen. Display-only: sorting still uses the real values.
	ObscureAddress bool `yaml:"obscure_address" mapstructure:"obscure_address"`

	// ShowDomains displays a neighbor's domain instead of its address
	// when the node reports one.
	ShowDomains bool `yaml:"show_domains" mapstructure:"show_domains"`

	// OnAuthError picks the reaction to rejected credentials:
	// "stop" ends the session, "continue" keeps polling.
	OnAuthError string `yaml:"on_auth_error" mapstructure:"on_auth_error"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:     CurrentConfigVersion,
		Node:        "http://localhost:14265",
		PollDelay:   2 * time.Second,
		BlinkDelay:  500 * time.Millisecond,
		Sort:        1,
		OnAuthError: AuthStop,
	}
}

// EffectiveFetchTimeout returns FetchTimeout, or 80% of PollDelay when unset.
func (c *Config) EffectiveFetchTimeout() time.Duration {
	if c.FetchTimeout > 0 {
		return c.FetchTimeout
	}
	return c.PollDelay * 4 / 5
}

// HasAuth reports whether basic-auth credentials are configured.
func (c *Config) HasAuth() bool {
	return c.Username != ""
}
