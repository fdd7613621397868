package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/iritop/iritop/internal/config"
	"github.com/iritop/iritop/internal/doctor"
	"github.com/iritop/iritop/internal/errors"
	"github.com/iritop/iritop/internal/ui"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration and node connectivity",
	Long: `Run diagnostic checks on the iritop setup.

Checks the config file, its schema and credential permissions, probes
the configured node, and verifies the terminal can host the dashboard.

Exits non-zero when any check fails, so it chains in scripts:
  iritop doctor && iritop`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand()
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput represents a category of check results.
type CategoryOutput struct {
	Name    string               `json:"name"`
	Results []doctor.CheckResult `json:"results"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

// doctorCommand implements the doctor command logic.
func doctorCommand() error {
	// Resolve the config the dashboard would use. Load errors leave cfg
	// nil; the schema check reports them and the node probe skips itself.
	var cfg *config.Config
	path, err := config.Find(Config())
	if err == nil {
		if path == "" {
			cfg = config.DefaultConfig()
		} else {
			cfg, _ = config.Load(path)
		}
	}

	checks := collectChecks(cfg)
	results := doctor.RunAll(checks)

	if doctorJSON {
		if err := outputDoctorJSON(checks, results); err != nil {
			return err
		}
	} else {
		outputDoctorText(checks, results)
	}

	// Non-zero exit on failures so 'iritop doctor && iritop' works
	if doctor.HasFailures(results) {
		return errors.New(errors.ErrConfig,
			"Diagnostics found problems",
			"Fix the failing checks above and rerun 'iritop doctor'.")
	}

	return nil
}

// collectChecks gathers all diagnostic checks.
func collectChecks(cfg *config.Config) []doctor.Check {
	var checks []doctor.Check

	// Config checks (always run)
	checks = append(checks, doctor.NewConfigChecks(Config())...)

	// Node probe (skips itself when no usable config resolved)
	checks = append(checks, doctor.NewNodeChecks(cfg)...)

	// Terminal check (always run)
	checks = append(checks, doctor.NewTerminalChecks()...)

	return checks
}

// groupResults groups results under their categories, preserving the
// order categories first appear in.
func groupResults(checks []doctor.Check, results []doctor.CheckResult) []CategoryOutput {
	grouped := make(map[string][]doctor.CheckResult)
	categoryOrder := []string{}

	for i, check := range checks {
		cat := check.Category()
		if _, exists := grouped[cat]; !exists {
			categoryOrder = append(categoryOrder, cat)
		}
		grouped[cat] = append(grouped[cat], results[i])
	}

	categories := make([]CategoryOutput, 0, len(categoryOrder))
	for _, cat := range categoryOrder {
		categories = append(categories, CategoryOutput{
			Name:    cat,
			Results: grouped[cat],
		})
	}

	return categories
}

// buildDoctorOutput assembles the full JSON output structure.
func buildDoctorOutput(checks []doctor.Check, results []doctor.CheckResult) DoctorOutput {
	counts := doctor.CountByStatus(results)

	return DoctorOutput{
		Categories: groupResults(checks, results),
		Summary: SummaryOutput{
			Pass:     counts[doctor.StatusPass],
			Warn:     counts[doctor.StatusWarn],
			Fail:     counts[doctor.StatusFail],
			AllClear: !doctor.HasIssues(results),
		},
	}
}

// outputDoctorJSON outputs results in JSON format.
func outputDoctorJSON(checks []doctor.Check, results []doctor.CheckResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(buildDoctorOutput(checks, results))
}

// outputDoctorText outputs results in human-readable format.
func outputDoctorText(checks []doctor.Check, results []doctor.CheckResult) {
	successStyle := lipgloss.NewStyle().Foreground(ui.ColorSuccess)
	errorStyle := lipgloss.NewStyle().Foreground(ui.ColorError)
	warnStyle := lipgloss.NewStyle().Foreground(ui.ColorWarning)
	mutedStyle := lipgloss.NewStyle().Foreground(ui.ColorMuted)
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Println()
	fmt.Println(headerStyle.Render("iritop Diagnostic Report"))
	fmt.Println()

	// Group checks by category
	categoryOrder := []string{"CONFIG", "NODE", "TERMINAL"}
	grouped := make(map[string][]int) // category -> indices

	for i, check := range checks {
		cat := check.Category()
		grouped[cat] = append(grouped[cat], i)
	}

	// Render each category
	for _, category := range categoryOrder {
		indices, ok := grouped[category]
		if !ok || len(indices) == 0 {
			continue
		}

		fmt.Println(headerStyle.Render(category))

		for _, idx := range indices {
			renderCheckResult(results[idx], successStyle, errorStyle, warnStyle, mutedStyle)
		}

		fmt.Println()
	}

	// Render summary divider
	fmt.Println(strings.Repeat("━", 60))
	fmt.Println()

	if doctor.HasIssues(results) {
		fmt.Printf("%s %s\n", errorStyle.Render(ui.SymbolFail), doctor.Summary(results))
	} else {
		fmt.Printf("%s %s\n", successStyle.Render(ui.SymbolSuccess), doctor.Summary(results))
	}

	fmt.Println()
}

// renderCheckResult renders a single check result.
func renderCheckResult(result doctor.CheckResult, successStyle, errorStyle, warnStyle, mutedStyle lipgloss.Style) {
	var symbol string
	var style lipgloss.Style

	switch result.Status {
	case doctor.StatusPass:
		symbol = ui.SymbolComplete
		style = successStyle
	case doctor.StatusWarn:
		symbol = ui.SymbolComplete // Still shows as done, but with warning styling
		style = warnStyle
	case doctor.StatusFail:
		symbol = ui.SymbolFail
		style = errorStyle
	}

	fmt.Printf("  %s %s\n", style.Render(symbol), result.Message)

	if result.Suggestion != "" && result.Status != doctor.StatusPass {
		// Indent suggestion
		lines := strings.Split(result.Suggestion, "\n")
		for _, line := range lines {
			fmt.Printf("    %s\n", mutedStyle.Render(line))
		}
	}
}
