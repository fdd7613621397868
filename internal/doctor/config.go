package doctor

import (
	"fmt"
	"os"

	"github.com/iritop/iritop/internal/config"
)

// ConfigFileCheck reports which config file iritop would use.
// Missing config is a warning, not a failure: the dashboard runs fine
// on defaults against a local node.
type ConfigFileCheck struct {
	ConfigPath string // Explicit path, or empty to search
}

func (c *ConfigFileCheck) Name() string     { return "config_file" }
func (c *ConfigFileCheck) Category() string { return "CONFIG" }

func (c *ConfigFileCheck) Run() CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Error finding config: %s", flatten(err)),
			Suggestion: "Check the path and file permissions, or run 'iritop init' to create a config",
		}
	}

	if path == "" {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No config file found, defaults apply",
			Suggestion: "Run 'iritop init' to create a " + config.ConfigFileName + " config file",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Config file: %s", path),
	}
}

// ConfigSchemaCheck verifies that the config file parses and validates.
type ConfigSchemaCheck struct {
	ConfigPath string
}

func (c *ConfigSchemaCheck) Name() string     { return "config_schema" }
func (c *ConfigSchemaCheck) Category() string { return "CONFIG" }

func (c *ConfigSchemaCheck) Run() CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil || path == "" {
		// ConfigFileCheck reports this; defaults always validate
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No config file to validate",
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    flatten(err),
			Suggestion: "Check the YAML syntax in " + path,
		}
	}

	if err := config.Validate(cfg); err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    flatten(err),
			Suggestion: "Fix the settings in " + path + ", or rerun 'iritop init'",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Schema valid",
	}
}

// CredentialsCheck catches the credential problem the validator cannot
// see: a password sitting in a file other users can read.
type CredentialsCheck struct {
	ConfigPath string
}

func (c *CredentialsCheck) Name() string     { return "credentials" }
func (c *CredentialsCheck) Category() string { return "CONFIG" }

func (c *CredentialsCheck) Run() CheckResult {
	path, err := config.Find(c.ConfigPath)
	if err != nil || path == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No credentials configured",
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		// ConfigSchemaCheck reports load errors
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "Config load error",
		}
	}

	if cfg.Username == "" && cfg.Password == "" {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "No credentials configured",
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusPass,
			Message: "Credentials configured",
		}
	}

	if info.Mode().Perm()&0o044 != 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Config holds credentials but mode %04o lets others read it", info.Mode().Perm()),
			Suggestion: "Tighten it: chmod 600 " + path,
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: "Credentials configured, file readable only by you",
	}
}

// NewConfigChecks creates all config-related checks.
func NewConfigChecks(configPath string) []Check {
	return []Check{
		&ConfigFileCheck{ConfigPath: configPath},
		&ConfigSchemaCheck{ConfigPath: configPath},
		&CredentialsCheck{ConfigPath: configPath},
	}
}
