package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/forgeql/sparqlforge/internal/pattern"
	"github.com/forgeql/sparqlforge/internal/shape"
)

// InspectReport summarizes the structure of a parsed query.
type InspectReport struct {
	TripleCount int      `json:"triple_count"`
	BGPCount    int      `json:"bgp_count"`
	Shape       string   `json:"shape"`
	Variables   []string `json:"variables"`
	Projection  []string `json:"projection"`
	Distinct    bool     `json:"distinct"`
	Limit       *int     `json:"limit,omitempty"`
	Offset      *int     `json:"offset,omitempty"`
}

// String renders the report for text output.
func (r InspectReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "triples:    %d\n", r.TripleCount)
	fmt.Fprintf(&b, "bgps:       %d\n", r.BGPCount)
	fmt.Fprintf(&b, "shape:      %s\n", r.Shape)
	fmt.Fprintf(&b, "variables:  %s\n", strings.Join(r.Variables, " "))
	fmt.Fprintf(&b, "projection: %s", strings.Join(r.Projection, " "))
	if r.Distinct {
		b.WriteString(" (distinct)")
	}
	if r.Limit != nil {
		fmt.Fprintf(&b, "\nlimit:      %d", *r.Limit)
	}
	if r.Offset != nil {
		fmt.Fprintf(&b, "\noffset:     %d", *r.Offset)
	}
	return b.String()
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	var preserveNesting bool

	cmd := &cobra.Command{
		Use:   "inspect <query-file>",
		Short: "Report the structure of a query",
		Long: `Parse a SELECT query and report its structure: triple and basic
graph pattern counts, graph shape, variables and solution modifiers.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], preserveNesting, cmd)
		},
	}

	cmd.Flags().BoolVar(&preserveNesting, "preserve-nesting", false, "keep grouping braces as explicit groups")
	return cmd
}

func runInspect(opts *RootOptions, arg string, preserveNesting bool, cmd *cobra.Command) error {
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

	report := InspectReport{
		TripleCount: q.TripleCount(),
		BGPCount:    q.BGPCount(),
		Shape:       string(shape.Classify(pattern.ExtractTriples(q))),
		Variables:   q.Variables(),
		Projection:  q.Projection,
		Distinct:    q.Distinct,
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
	return formatter.Success(report)
}
