package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgeql/sparqlforge/internal/endpoint"
)

// RunReport holds the outcome of a remote query execution.
type RunReport struct {
	Vars     []string           `json:"vars"`
	Bindings []endpoint.Binding `json:"bindings"`
	Elapsed  string             `json:"elapsed"`
}

// String renders bindings as one row per solution for text output.
func (r RunReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", strings.Join(r.Vars, "\t"))
	for _, binding := range r.Bindings {
		row := make([]string, len(r.Vars))
		for i, v := range r.Vars {
			if term, ok := binding[v]; ok {
				row[i] = term.Value
			}
		}
		fmt.Fprintf(&b, "%s\n", strings.Join(row, "\t"))
	}
	fmt.Fprintf(&b, "%d solutions in %s", len(r.Bindings), r.Elapsed)
	return b.String()
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		endpointURL     string
		timeout         time.Duration
		preserveNesting bool
	)

	cmd := &cobra.Command{
		Use:   "run <query-file>",
		Short: "Execute a query against a remote SPARQL endpoint",
		Long: `Parse a SELECT query and execute it against a remote SPARQL
endpoint over HTTP, printing the result bindings.

The query is validated locally before it is sent: grammar violations
and undeclared prefixes are reported without a network round trip.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(rootOpts, args[0], endpointURL, timeout, preserveNesting, cmd)
		},
	}

	cmd.Flags().StringVar(&endpointURL, "endpoint", "", "SPARQL endpoint URL (required)")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
	cmd.Flags().BoolVar(&preserveNesting, "preserve-nesting", false, "keep grouping braces as explicit groups")
	cmd.MarkFlagRequired("endpoint")
	return cmd
}

func runRun(opts *RootOptions, arg, endpointURL string, timeout time.Duration, preserveNesting bool, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	text, err := readQueryArg(arg, cmd.InOrStdin())
	if err != nil {
		formatter.Error(ErrCodeInput, err.Error(), nil)
		return NewExitError(ExitCommandError, "reading query")
	}

	q, err := parseQuery(text, preserveNesting)
	if err != nil {
		formatter.Error(parseErrorCode(err), err.Error(), nil)
		return NewExitError(ExitCommandError, "parsing query")
	}
	if err := q.ValidatePrefixes(); err != nil {
		formatter.Error(ErrCodeParse, err.Error(), nil)
		return NewExitError(ExitCommandError, "validating prefixes")
	}

	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	client := endpoint.New(endpoint.WithLogger(logger))
	ctx, cancel := contextWithTimeout(cmd, timeout)
	defer cancel()

	start := time.Now()
	results, err := client.Execute(ctx, endpointURL, q)
	if err != nil {
		formatter.Error(ErrCodeEndpoint, err.Error(), nil)
		return NewExitError(ExitCommandError, "executing query")
	}

	report := RunReport{
		Vars:     results.Head.Vars,
		Bindings: results.Results.Bindings,
		Elapsed:  time.Since(start).Round(time.Millisecond).String(),
	}
	return formatter.Success(report)
}

func contextWithTimeout(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(cmd.Context())
	}
	return context.WithTimeout(cmd.Context(), timeout)
}
