package cli

import (
	"github.com/spf13/cobra"

	"github.com/forgeql/sparqlforge/internal/parser"
	"github.com/forgeql/sparqlforge/internal/pattern"
)

// NewFmtCommand creates the fmt command.
func NewFmtCommand(rootOpts *RootOptions) *cobra.Command {
	var preserveNesting bool

	cmd := &cobra.Command{
		Use:   "fmt <query-file>",
		Short: "Parse a query and print its canonical serialization",
		Long: `Parse a SELECT query and print its canonical form.

Reads the query from the given file, or from stdin when the argument
is "-". The output is the query's canonical serialization: sorted
prefix declarations, normalized indentation and NFC-normalized text.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(rootOpts, args[0], preserveNesting, cmd)
		},
	}

	cmd.Flags().BoolVar(&preserveNesting, "preserve-nesting", false, "keep grouping braces as explicit groups")
	return cmd
}

func runFmt(opts *RootOptions, arg string, preserveNesting bool, cmd *cobra.Command) error {
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

	canonical, err := pattern.Canonical(q)
	if err != nil {
		formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return NewExitError(ExitCommandError, "serializing query")
	}
	return formatter.Success(canonical)
}

func parseQuery(text string, preserveNesting bool) (*pattern.Query, error) {
	var opts []parser.Option
	if preserveNesting {
		opts = append(opts, parser.PreserveNesting())
	}
	return parser.Parse(text, opts...)
}

func parseErrorCode(err error) string {
	switch {
	case parser.IsGroupingValidationError(err):
		return ErrCodeGrouping
	case parser.IsParseError(err):
		return ErrCodeParse
	default:
		return ErrCodeGeneric
	}
}
