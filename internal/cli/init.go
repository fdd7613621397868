package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/iritop/iritop/internal/config"
	"github.com/iritop/iritop/internal/errors"
	"github.com/iritop/iritop/internal/iri"
	"github.com/iritop/iritop/internal/ui"
)

var (
	initNodeFlag  string
	initForceFlag bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .iritop.yaml configuration",
	Long: `Initialize a new iritop configuration file.

Creates a .iritop.yaml file in the current directory, prompting for the
node address, credentials, and display preferences, then probes the
node before saving.

Examples:
  iritop init
  iritop init --node http://10.0.0.5:14265
  iritop init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Init(InitOptions{
			Node:      initNodeFlag,
			Overwrite: initForceFlag,
		})
	},
}

func init() {
	initCmd.Flags().StringVar(&initNodeFlag, "node", "", "pre-specify the node address")
	initCmd.Flags().BoolVarP(&initForceFlag, "force", "f", false, "overwrite existing config")
	rootCmd.AddCommand(initCmd)
}

// InitOptions holds options for the init command.
type InitOptions struct {
	Node           string // Pre-specified node address
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults
	SkipProbe      bool   // Skip the connection test
}

// initProbeTimeout bounds the pre-save connection test.
const initProbeTimeout = 10 * time.Second

// Init creates a new .iritop.yaml configuration file.
func Init(opts InitOptions) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	// Check for existing config
	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		var overwrite bool

		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)

		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}

		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	// Collect configuration values
	node := opts.Node
	var username, password, pollDelay string
	var obscure bool
	pollDelay = config.DefaultConfig().PollDelay.String()

	if opts.NonInteractive {
		if node == "" {
			return errors.New(errors.ErrConfig,
				"Node address is required in non-interactive mode",
				"Provide --node or run interactively")
		}
		if err := config.ValidateNodeURL(node); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				err.Error(), "Use something like http://localhost:14265")
		}
	} else {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Node address").
					Description("The node's API endpoint").
					Placeholder("http://localhost:14265").
					Value(&node).
					Validate(config.ValidateNodeURL),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Username (optional)").
					Description("Basic auth username, leave empty for open nodes").
					Value(&username),
				huh.NewInput().
					Title("Password").
					Description("Required when username is set").
					EchoMode(huh.EchoModePassword).
					Value(&password),
			),
			huh.NewGroup(
				huh.NewInput().
					Title("Poll delay").
					Description("How often to refresh (e.g., 2s, 5s)").
					Value(&pollDelay).
					Validate(validateDelayInput),
			),
			huh.NewGroup(
				huh.NewConfirm().
					Title("Mask neighbor addresses on screen?").
					Description("Handy for screenshots and streams").
					Value(&obscure),
			),
		)

		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or pass --node with the address")
		}

		if username != "" && password == "" || username == "" && password != "" {
			return errors.New(errors.ErrConfig,
				"Basic auth needs both a username and a password",
				"Set both or neither")
		}
	}

	// Test the connection before saving
	if !opts.SkipProbe {
		fmt.Println()
		spinner := ui.NewSpinner("Probing " + node)
		spinner.Start()

		if err := probeNode(node, username, password); err != nil {
			spinner.Fail()

			// Node down, but still offer to save: maybe it comes up later
			var saveAnyway bool
			if !opts.NonInteractive {
				fmt.Printf("\n%s Probe of '%s' failed: %v\n", ui.SymbolFail, node, err)

				form := huh.NewForm(
					huh.NewGroup(
						huh.NewConfirm().
							Title("Save config anyway? (The node may just be down right now)").
							Value(&saveAnyway),
					),
				)
				if formErr := form.Run(); formErr != nil {
					saveAnyway = false
				}
			}

			if !saveAnyway {
				return err
			}
		} else {
			spinner.Success()
			fmt.Println()
		}
	}

	// Build config
	cfg := config.DefaultConfig()
	cfg.Node = node
	cfg.Username = username
	cfg.Password = password
	if d, err := time.ParseDuration(pollDelay); err == nil && d > 0 {
		cfg.PollDelay = d
	}
	cfg.ObscureAddress = obscure

	if err := writeConfigFile(configPath, cfg); err != nil {
		return err
	}

	fmt.Printf("%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Println("Next steps:")
	fmt.Println("  iritop          - Start the dashboard")
	fmt.Println("  iritop doctor   - Check configuration and node health")

	return nil
}

// probeNode makes the same getNodeInfo call the dashboard opens with.
func probeNode(node, username, password string) error {
	var opts []iri.ClientOption
	if username != "" {
		opts = append(opts, iri.WithBasicAuth(username, password))
	}

	client, err := iri.NewClient(node, opts...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), initProbeTimeout)
	defer cancel()

	_, err = client.NodeInfo(ctx)
	return err
}

// fileConfig is the YAML shape written to disk: durations as strings so
// the file stays human-editable.
type fileConfig struct {
	Version        int    `yaml:"version"`
	Node           string `yaml:"node"`
	Username       string `yaml:"username,omitempty"`
	Password       string `yaml:"password,omitempty"`
	PollDelay      string `yaml:"poll_delay"`
	BlinkDelay     string `yaml:"blink_delay"`
	FetchTimeout   string `yaml:"fetch_timeout,omitempty"`
	Sort           int    `yaml:"sort"`
	ObscureAddress bool   `yaml:"obscure_address"`
	ShowDomains    bool   `yaml:"show_domains"`
	OnAuthError    string `yaml:"on_auth_error"`
}

// writeConfigFile marshals cfg with a header comment. Files holding
// credentials are written readable only by the owner.
func writeConfigFile(path string, cfg *config.Config) error {
	out := fileConfig{
		Version:        cfg.Version,
		Node:           cfg.Node,
		Username:       cfg.Username,
		Password:       cfg.Password,
		PollDelay:      cfg.PollDelay.String(),
		BlinkDelay:     cfg.BlinkDelay.String(),
		Sort:           cfg.Sort,
		ObscureAddress: cfg.ObscureAddress,
		ShowDomains:    cfg.ShowDomains,
		OnAuthError:    cfg.OnAuthError,
	}
	if cfg.FetchTimeout > 0 {
		out.FetchTimeout = cfg.FetchTimeout.String()
	}

	data, err := yaml.Marshal(out)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug")
	}

	header := `# iritop configuration
# Run 'iritop' to start the dashboard; flags override these values
# See 'iritop --help' for the matching flags

`
	content := header + string(data)

	mode := os.FileMode(0o644)
	if cfg.Password != "" {
		mode = 0o600
	}

	if err := os.WriteFile(path, []byte(content), mode); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed to write config file: %s", path),
			"Check directory permissions")
	}

	// WriteFile mode is umask-filtered; credentials need the exact mode
	if cfg.Password != "" {
		if err := os.Chmod(path, mode); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Failed to restrict config permissions: %s", path),
				"Run 'chmod 600 "+path+"' yourself")
		}
	}

	return nil
}

// validateDelayInput accepts positive duration strings.
func validateDelayInput(s string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("use a duration like 2s or 500ms")
	}
	if d <= 0 {
		return fmt.Errorf("the delay has to be positive")
	}
	return nil
}
