// Package harness runs YAML-defined conformance scenarios against the
// parser, the equivalence engine and the shape classifier. Scenarios
// keep the expected behavior of the toolkit in reviewable fixture
// files rather than in hand-written assertions, and golden files pin
// the canonical serialization of each parsed query.
package harness

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"

	"github.com/forgeql/sparqlforge/internal/equiv"
	"github.com/forgeql/sparqlforge/internal/parser"
	"github.com/forgeql/sparqlforge/internal/pattern"
	"github.com/forgeql/sparqlforge/internal/shape"
)

// Result reports one scenario execution. Failures holds one message
// per unmet expectation; an empty list means the scenario passed.
type Result struct {
	Name      string
	Passed    bool
	Failures  []string
	Canonical string
}

func (r *Result) fail(format string, args ...any) {
	r.Passed = false
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

// Run executes a scenario: parse the query, then evaluate every
// expectation it sets. A nil error with Passed=false means the query
// parsed but an expectation failed; errors are reserved for scenarios
// that cannot be evaluated at all.
func Run(scenario *Scenario) (*Result, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return run(scenario, logger)
}

// RunWithLogger is Run with scenario progress logged to the given
// logger, useful when driving scenarios from the command line.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	return run(scenario, logger)
}

func run(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	result := &Result{Name: scenario.Name, Passed: true}
	logger.Debug("running scenario", "name", scenario.Name)

	var opts []parser.Option
	if scenario.PreserveNesting {
		opts = append(opts, parser.PreserveNesting())
	}

	q, err := parser.Parse(scenario.Query, opts...)
	if scenario.Expect.Error != "" {
		checkExpectedError(result, scenario.Expect.Error, err)
		return result, nil
	}
	if err != nil {
		result.fail("parse failed: %v", err)
		return result, nil
	}

	canonical, err := pattern.Canonical(q)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: serializing parsed query: %w", scenario.Name, err)
	}
	result.Canonical = canonical

	evaluate(result, scenario, q, opts)
	logger.Debug("scenario finished", "name", scenario.Name, "passed", result.Passed)
	return result, nil
}

func checkExpectedError(result *Result, kind string, err error) {
	switch {
	case err == nil:
		result.fail("expected %s error, query parsed successfully", kind)
	case kind == ExpectParseError && !parser.IsParseError(err):
		result.fail("expected parse error, got %v", err)
	case kind == ExpectGroupingError && !parser.IsGroupingValidationError(err):
		result.fail("expected grouping validation error, got %v", err)
	}
}

func evaluate(result *Result, scenario *Scenario, q *pattern.Query, opts []parser.Option) {
	expect := scenario.Expect

	if expect.TripleCount != nil {
		if got := q.TripleCount(); got != *expect.TripleCount {
			result.fail("triple count: got %d, want %d", got, *expect.TripleCount)
		}
	}
	if expect.BGPCount != nil {
		if got := q.BGPCount(); got != *expect.BGPCount {
			result.fail("bgp count: got %d, want %d", got, *expect.BGPCount)
		}
	}
	if expect.Shape != "" {
		if got := string(shape.Classify(pattern.ExtractTriples(q))); got != expect.Shape {
			result.fail("shape: got %s, want %s", got, expect.Shape)
		}
	}
	if expect.Variables != nil {
		if got := q.Variables(); !reflect.DeepEqual(got, expect.Variables) {
			result.fail("variables: got %v, want %v", got, expect.Variables)
		}
	}
	if expect.Roundtrip {
		reparsed, err := parser.Parse(result.Canonical, opts...)
		switch {
		case err != nil:
			result.fail("roundtrip: reparse failed: %v", err)
		case !equiv.Queries(q, reparsed):
			result.fail("roundtrip: reparsed query is not equivalent")
		}
	}
	if expect.IsomorphicTo != "" {
		other, err := parser.Parse(expect.IsomorphicTo, opts...)
		switch {
		case err != nil:
			result.fail("isomorphic_to: parse failed: %v", err)
		case !equiv.Queries(q, other):
			result.fail("isomorphic_to: queries are not equivalent")
		}
	}
	if expect.NotIsomorphicTo != "" {
		other, err := parser.Parse(expect.NotIsomorphicTo, opts...)
		switch {
		case err != nil:
			result.fail("not_isomorphic_to: parse failed: %v", err)
		case equiv.Queries(q, other):
			result.fail("not_isomorphic_to: queries are unexpectedly equivalent")
		}
	}
}
