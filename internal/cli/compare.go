package cli

import (
	"github.com/spf13/cobra"

	"github.com/forgeql/sparqlforge/internal/equiv"
)

// CompareResult reports whether two queries are structurally
// equivalent under a variable renaming.
type CompareResult struct {
	Equivalent bool `json:"equivalent"`
}

// String renders the result for text output.
func (r CompareResult) String() string {
	if r.Equivalent {
		return "equivalent"
	}
	return "not equivalent"
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	var preserveNesting bool

	cmd := &cobra.Command{
		Use:   "compare <query-file-a> <query-file-b>",
		Short: "Test two queries for structural equivalence",
		Long: `Parse two SELECT queries and test whether they are structurally
equivalent: identical up to a consistent renaming of variables, with
union branches matched in either order.

Exits 0 when the queries are equivalent and 1 when they are not.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(rootOpts, args[0], args[1], preserveNesting, cmd)
		},
	}

	cmd.Flags().BoolVar(&preserveNesting, "preserve-nesting", false, "keep grouping braces as explicit groups")
	return cmd
}

func runCompare(opts *RootOptions, argA, argB string, preserveNesting bool, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	textA, err := readQueryArg(argA, cmd.InOrStdin())
	if err != nil {
		formatter.Error(ErrCodeInput, err.Error(), nil)
		return NewExitError(ExitCommandError, "reading first query")
	}
	textB, err := readQueryArg(argB, cmd.InOrStdin())
	if err != nil {
		formatter.Error(ErrCodeInput, err.Error(), nil)
		return NewExitError(ExitCommandError, "reading second query")
	}

	qa, err := parseQuery(textA, preserveNesting)
	if err != nil {
		formatter.Error(parseErrorCode(err), err.Error(), nil)
		return NewExitError(ExitCommandError, "parsing first query")
	}
	qb, err := parseQuery(textB, preserveNesting)
	if err != nil {
		formatter.Error(parseErrorCode(err), err.Error(), nil)
		return NewExitError(ExitCommandError, "parsing second query")
	}

	result := CompareResult{Equivalent: equiv.Queries(qa, qb)}
	if err := formatter.Success(result); err != nil {
		return err
	}
	if !result.Equivalent {
		return NewExitError(ExitFailure, "queries are not equivalent")
	}
	return nil
}
