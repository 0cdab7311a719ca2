package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines one conformance scenario: a query to parse and a
// set of expectations about the tree it produces.
type Scenario struct {
	// Name uniquely identifies this scenario. It is also the golden
	// file name when the scenario runs under RunWithGolden.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Query is the SELECT query text to parse.
	Query string `yaml:"query"`

	// PreserveNesting keeps syntactic grouping braces as explicit
	// groups instead of collapsing redundant nesting.
	PreserveNesting bool `yaml:"preserve_nesting,omitempty"`

	// Expect holds the assertions evaluated against the parsed query.
	Expect Expectations `yaml:"expect"`
}

// Expectations lists the checks a scenario can request. Unset fields
// are skipped; pointer fields distinguish "absent" from zero values.
type Expectations struct {
	// Error, when set, asserts that parsing fails and names the
	// expected failure: "parse" or "grouping".
	Error string `yaml:"error,omitempty"`

	// TripleCount asserts the number of triple patterns in the tree.
	TripleCount *int `yaml:"triple_count,omitempty"`

	// BGPCount asserts the number of basic graph patterns.
	BGPCount *int `yaml:"bgp_count,omitempty"`

	// Shape asserts the structural shape of the query's triples.
	Shape string `yaml:"shape,omitempty"`

	// Variables asserts the exact sorted variable list.
	Variables []string `yaml:"variables,omitempty"`

	// Roundtrip asserts that re-parsing the serialized query yields a
	// structurally equivalent tree.
	Roundtrip bool `yaml:"roundtrip,omitempty"`

	// IsomorphicTo asserts structural equivalence with another query.
	IsomorphicTo string `yaml:"isomorphic_to,omitempty"`

	// NotIsomorphicTo asserts the absence of structural equivalence.
	NotIsomorphicTo string `yaml:"not_isomorphic_to,omitempty"`
}

// Error kind constants for Expectations.Error.
const (
	ExpectParseError    = "parse"
	ExpectGroupingError = "grouping"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields
// are rejected so typos in expectation names fail loudly.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &scenario, nil
}

// LoadScenarioDir loads every *.yaml scenario under dir, sorted by
// file name for stable test ordering.
func LoadScenarioDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var scenarios []*Scenario
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Query == "" {
		return fmt.Errorf("query is required")
	}
	switch s.Expect.Error {
	case "", ExpectParseError, ExpectGroupingError:
	default:
		return fmt.Errorf("unknown error kind %q", s.Expect.Error)
	}
	if s.Expect.Error != "" && (s.Expect.TripleCount != nil || s.Expect.Roundtrip) {
		return fmt.Errorf("error scenarios cannot also assert on the tree")
	}
	return nil
}
