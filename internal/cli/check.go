package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgeql/sparqlforge/internal/harness"
)

// CheckReport summarizes a scenario directory run.
type CheckReport struct {
	Total    int            `json:"total"`
	Passed   int            `json:"passed"`
	Failed   int            `json:"failed"`
	Failures []CheckFailure `json:"failures,omitempty"`
}

// CheckFailure names one failed scenario and its unmet expectations.
type CheckFailure struct {
	Scenario string   `json:"scenario"`
	Messages []string `json:"messages"`
}

// String renders the report for text output.
func (r CheckReport) String() string {
	var b strings.Builder
	for _, f := range r.Failures {
		fmt.Fprintf(&b, "FAIL %s\n", f.Scenario)
		for _, msg := range f.Messages {
			fmt.Fprintf(&b, "  %s\n", msg)
		}
	}
	fmt.Fprintf(&b, "%d scenarios, %d passed, %d failed", r.Total, r.Passed, r.Failed)
	return b.String()
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <scenario-dir>",
		Short: "Run conformance scenarios from a directory",
		Long: `Load every YAML scenario in the given directory and evaluate its
expectations against the parsed query.

Exits 0 when every scenario passes and 1 when any scenario fails.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runCheck(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	scenarios, err := harness.LoadScenarioDir(dir)
	if err != nil {
		formatter.Error(ErrCodeScenario, err.Error(), nil)
		return NewExitError(ExitCommandError, "loading scenarios")
	}
	if len(scenarios) == 0 {
		formatter.Error(ErrCodeScenario, fmt.Sprintf("no scenarios found in %s", dir), nil)
		return NewExitError(ExitCommandError, "loading scenarios")
	}

	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	report := CheckReport{Total: len(scenarios)}
	for _, scenario := range scenarios {
		result, err := harness.RunWithLogger(scenario, logger)
		if err != nil {
			formatter.Error(ErrCodeScenario, err.Error(), nil)
			return NewExitError(ExitCommandError, "running scenario")
		}
		if result.Passed {
			report.Passed++
			formatter.VerboseLog("PASS %s", scenario.Name)
			continue
		}
		report.Failed++
		report.Failures = append(report.Failures, CheckFailure{
			Scenario: scenario.Name,
			Messages: result.Failures,
		})
	}

	if err := formatter.Success(report); err != nil {
		return err
	}
	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d scenarios failed", report.Failed))
	}
	return nil
}
