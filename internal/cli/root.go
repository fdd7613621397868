package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iritop/iritop/internal/config"
)

// Root-command flags. configFlag is persistent so every subcommand can
// point at an alternate file; the rest belong to the dashboard itself.
var (
	configFlag       string
	nodeFlag         string
	usernameFlag     string
	passwordFlag     string
	pollDelayFlag    string
	blinkDelayFlag   string
	fetchTimeoutFlag string
	sortFlag         int
	obscureFlag      bool
	showDomainsFlag  bool
	onAuthErrorFlag  string
)

// rootCmd starts the dashboard; everything else is a subcommand.
var rootCmd = &cobra.Command{
	Use:   "iritop",
	Short: "Live terminal dashboard for an IRI node",
	Long: `iritop watches a single IRI node over its JSON API and draws a live
dashboard: node health up top, one row per neighbor below, changed
values flashing as they move.

Keyboard shortcuts:
  1-8         Sort by column (same digit flips direction)
  q / Esc     Quit

Examples:
  iritop
  iritop --node http://10.0.0.5:14265
  iritop --sort 3 --obscure-address
  iritop --config ~/nodes/mainnet.yaml`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		return dashboardCommand(cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file path")

	flags := rootCmd.Flags()
	flags.StringVar(&nodeFlag, "node", "", "node API address (e.g., http://localhost:14265)")
	flags.StringVar(&usernameFlag, "username", "", "basic auth username")
	flags.StringVar(&passwordFlag, "password", "", "basic auth password")
	flags.StringVar(&pollDelayFlag, "poll-delay", "", "pause between polls (e.g., 2s)")
	flags.StringVar(&blinkDelayFlag, "blink-delay", "", "how long changed values stay highlighted (e.g., 500ms)")
	flags.StringVar(&fetchTimeoutFlag, "fetch-timeout", "", "per-poll request deadline (default 80% of poll delay)")
	flags.IntVar(&sortFlag, "sort", 0, "sort column 1-8, negative for descending")
	flags.BoolVar(&obscureFlag, "obscure-address", false, "mask neighbor hosts on screen, keep ports")
	flags.BoolVar(&showDomainsFlag, "show-domains", false, "show neighbor domains instead of addresses")
	flags.StringVar(&onAuthErrorFlag, "on-auth-error", "", "when the node refuses credentials: stop or continue")
}

// Config returns the value of the persistent --config flag.
func Config() string {
	return configFlag
}

// loadConfig resolves the effective configuration: file values first,
// then any flags the user actually set, then validation.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := config.Find(configFlag)
	if err != nil {
		return nil, err
	}

	var cfg *config.Config
	if path == "" {
		cfg = config.DefaultConfig()
	} else {
		cfg, err = config.Load(path)
		if err != nil {
			return nil, err
		}
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
