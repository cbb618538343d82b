package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rileyhilliard/pmx/internal/config"
	"github.com/rileyhilliard/pmx/internal/doctor"
	"github.com/rileyhilliard/pmx/internal/errors"
	"github.com/rileyhilliard/pmx/internal/ui"
)

// DoctorOutput is the JSON shape of 'pmx doctor --json'.
type DoctorOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Summary    SummaryOutput    `json:"summary"`
}

// CategoryOutput groups check results by category.
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

// doctorCommand runs the diagnostic suite. The remote checks ride on the
// connection the auth check establishes, so order matters: config, then
// connection, then remote.
func doctorCommand(jsonOut bool) error {
	checks := doctor.NewConfigChecks(configFlag)

	// The connection and remote checks need a loadable config. When there
	// is none the config checks above tell the user what to fix.
	remote := &doctor.Remote{}
	skippedRemote := false
	if cfg, err := tryLoadConfig(); err == nil {
		checks = append(checks, doctor.NewConnectionChecks(cfg.Server, remote)...)
		checks = append(checks, doctor.NewRemoteChecks(remote)...)
	} else {
		skippedRemote = true
	}
	defer remote.Close()

	results := doctor.RunAll(checks)

	if jsonOut {
		if err := outputDoctorJSON(checks, results); err != nil {
			return err
		}
	} else {
		outputDoctorText(checks, results, skippedRemote)
	}

	if doctor.HasFailures(results) {
		return errors.New(errors.ErrUnexpected,
			"Some checks failed",
			"Fix the reported issues and run 'pmx doctor' again.")
	}
	return nil
}

// tryLoadConfig loads the config quietly; doctor reports problems through
// its checks rather than aborting on them.
func tryLoadConfig() (*config.Config, error) {
	path, err := config.Find(configFlag)
	if err != nil || path == "" {
		return nil, errors.New(errors.ErrConfig, "no config", "")
	}
	return config.Load(path)
}

// outputDoctorJSON writes the machine-readable report.
func outputDoctorJSON(checks []doctor.Check, results []doctor.CheckResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(buildDoctorOutput(checks, results))
}

// buildDoctorOutput assembles the JSON report: results grouped by category
// in first-seen order, plus the summary.
func buildDoctorOutput(checks []doctor.Check, results []doctor.CheckResult) DoctorOutput {
	grouped, order := groupByCategory(checks, results)

	output := DoctorOutput{
		Categories: make([]CategoryOutput, 0, len(order)),
	}
	for _, cat := range order {
		output.Categories = append(output.Categories, CategoryOutput{
			Name:    cat,
			Results: grouped[cat],
		})
	}

	counts := doctor.CountByStatus(results)
	output.Summary = SummaryOutput{
		Pass:     counts[doctor.StatusPass],
		Warn:     counts[doctor.StatusWarn],
		Fail:     counts[doctor.StatusFail],
		AllClear: counts[doctor.StatusFail] == 0 && counts[doctor.StatusWarn] == 0,
	}
	return output
}

// outputDoctorText writes the human-readable report.
func outputDoctorText(checks []doctor.Check, results []doctor.CheckResult, skippedRemote bool) {
	rows := make([]ui.DoctorCheckRow, 0, len(results))
	for i, check := range checks {
		rows = append(rows, ui.DoctorCheckRow{
			Status:     results[i].Status.String(),
			Category:   check.Category(),
			Message:    results[i].Message,
			Suggestion: results[i].Suggestion,
		})
	}

	fmt.Println()
	fmt.Print(ui.RenderDoctorTable(rows))

	if skippedRemote {
		fmt.Printf("%s %s\n",
			ui.InfoStyle().Render(ui.SymbolSkipped),
			"Connection and remote checks were skipped; they need a loadable config.")
	}

	symbol := ui.SuccessStyle().Render(ui.SymbolSuccess)
	if doctor.HasFailures(results) || doctor.CountByStatus(results)[doctor.StatusWarn] > 0 {
		symbol = ui.ErrorStyle().Render(ui.SymbolFail)
	}
	fmt.Printf("%s %s\n\n", symbol, doctor.Summary(results))
}

// groupByCategory buckets results by their check's category, preserving
// first-seen order.
func groupByCategory(checks []doctor.Check, results []doctor.CheckResult) (map[string][]doctor.CheckResult, []string) {
	grouped := make(map[string][]doctor.CheckResult)
	order := []string{}
	for i, check := range checks {
		cat := check.Category()
		if _, seen := grouped[cat]; !seen {
			order = append(order, cat)
		}
		grouped[cat] = append(grouped[cat], results[i])
	}
	return grouped, order
}
