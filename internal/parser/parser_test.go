package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeql/sparqlforge/internal/equiv"
	"github.com/forgeql/sparqlforge/internal/pattern"
)

func mustParse(t *testing.T, input string, opts ...Option) *pattern.Query {
	t.Helper()
	q, err := Parse(input, opts...)
	require.NoError(t, err)
	return q
}

func TestParse_SimpleQuery(t *testing.T) {
	q := mustParse(t, "SELECT ?s WHERE { ?s ?p ?o . }")

	assert.Equal(t, []string{"?s"}, q.Projection)
	bgp, ok := q.Where.(*pattern.BGP)
	require.True(t, ok)
	require.Len(t, bgp.Triples, 1)
	assert.Equal(t, "?s", bgp.Triples[0].Subject)
	assert.Equal(t, "?p", bgp.Triples[0].Predicate)
	assert.Equal(t, "?o", bgp.Triples[0].Object)
}

func TestParse_WildcardAndDistinct(t *testing.T) {
	q := mustParse(t, "SELECT DISTINCT * WHERE { ?s ?p ?o . }")
	assert.True(t, q.IsWildcard())
	assert.True(t, q.Distinct)
}

func TestParse_MultipleTriplesShareBGP(t *testing.T) {
	q := mustParse(t, `SELECT * WHERE {
		?person foaf:name ?name .
		?person foaf:age ?age .
	}`)

	bgp, ok := q.Where.(*pattern.BGP)
	require.True(t, ok)
	assert.Len(t, bgp.Triples, 2)
}

func TestParse_FilterAttachesToPrecedingBGP(t *testing.T) {
	q := mustParse(t, "SELECT * WHERE { ?s ?p ?o . FILTER(?o > 5) }")

	bgp, ok := q.Where.(*pattern.BGP)
	require.True(t, ok)
	require.Len(t, bgp.Filters, 1)
	assert.Equal(t, "?o > 5", bgp.Filters[0].Expression)
	assert.Empty(t, q.Filters)
}

func TestParse_FilterBeforeTriplesBecomesQueryFilter(t *testing.T) {
	q := mustParse(t, "SELECT * WHERE { FILTER(?o > 5) ?s ?p ?o . }")

	require.Len(t, q.Filters, 1)
	assert.Equal(t, "?o > 5", q.Filters[0].Expression)
	bgp := q.Where.(*pattern.BGP)
	assert.Empty(t, bgp.Filters)
}

func TestParse_FilterTextNormalized(t *testing.T) {
	q := mustParse(t, "SELECT * WHERE { ?s ?p ?o . FILTER( ?o   >\n\t5 ) }")
	bgp := q.Where.(*pattern.BGP)
	require.Len(t, bgp.Filters, 1)
	assert.Equal(t, "?o > 5", bgp.Filters[0].Expression)
}

func TestParse_FilterSpaceBeforeLiteralKept(t *testing.T) {
	q := mustParse(t, "SELECT * WHERE { ?s ?p ?o . FILTER(?o =\n\t \"Alice\" ) }")
	bgp := q.Where.(*pattern.BGP)
	require.Len(t, bgp.Filters, 1)
	assert.Equal(t, `?o = "Alice"`, bgp.Filters[0].Expression)
}

func TestParse_FilterKeepsInnerParens(t *testing.T) {
	q := mustParse(t, `SELECT * WHERE { ?s ?p ?o . FILTER(REGEX(STR(?o), "x(y)")) }`)
	bgp := q.Where.(*pattern.BGP)
	require.Len(t, bgp.Filters, 1)
	assert.Equal(t, `REGEX(STR(?o), "x(y)")`, bgp.Filters[0].Expression)
}

func TestParse_Union(t *testing.T) {
	q := mustParse(t, `SELECT * WHERE {
		{ ?s foaf:name ?n . } UNION { ?s foaf:nick ?n . }
	}`)

	union, ok := q.Where.(*pattern.Union)
	require.True(t, ok)
	assert.IsType(t, &pattern.BGP{}, union.Left)
	assert.IsType(t, &pattern.BGP{}, union.Right)
}

func TestParse_UnionChainNestsLeft(t *testing.T) {
	q := mustParse(t, `SELECT * WHERE {
		{ ?a ?b ?c . } UNION { ?d ?e ?f . } UNION { ?g ?h ?i . }
	}`)

	outer, ok := q.Where.(*pattern.Union)
	require.True(t, ok)
	inner, ok := outer.Left.(*pattern.Union)
	require.True(t, ok)
	assert.IsType(t, &pattern.BGP{}, inner.Left)
	assert.IsType(t, &pattern.BGP{}, outer.Right)
}

func TestParse_Optional(t *testing.T) {
	q := mustParse(t, `SELECT * WHERE {
		?person foaf:name ?name .
		OPTIONAL { ?person foaf:mbox ?mbox . }
	}`)

	seq, ok := q.Where.(*pattern.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Items, 2)
	assert.IsType(t, &pattern.BGP{}, seq.Items[0])
	assert.IsType(t, &pattern.Optional{}, seq.Items[1])
}

func TestParse_TextualOrderPreserved(t *testing.T) {
	q := mustParse(t, `SELECT * WHERE {
		OPTIONAL { ?s ?p ?a . }
		?s ?q ?b .
	}`)

	seq, ok := q.Where.(*pattern.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Items, 2)
	// The optional came first in the text, so it comes first in the tree.
	assert.IsType(t, &pattern.Optional{}, seq.Items[0])
	assert.IsType(t, &pattern.BGP{}, seq.Items[1])
}

func TestParse_MixedScope(t *testing.T) {
	q := mustParse(t, `SELECT * WHERE {
		?s ?p ?o .
		FILTER(?o > 5)
		OPTIONAL { ?s ?q ?r . }
		{ ?a ?b ?c . } UNION { ?d ?e ?f . }
	}`)

	seq, ok := q.Where.(*pattern.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Items, 3)
	bgp := seq.Items[0].(*pattern.BGP)
	assert.Len(t, bgp.Filters, 1)
	assert.IsType(t, &pattern.Optional{}, seq.Items[1])
	assert.IsType(t, &pattern.Union{}, seq.Items[2])
}

func TestParse_RedundantNestingCollapses(t *testing.T) {
	q := mustParse(t, "SELECT * WHERE { { { ?s ?p ?o . } } }")

	bgp, ok := q.Where.(*pattern.BGP)
	require.True(t, ok)
	assert.Len(t, bgp.Triples, 1)
}

func TestParse_PreserveNestingKeepsGroups(t *testing.T) {
	q := mustParse(t, "SELECT * WHERE { { { ?s ?p ?o . } } }", PreserveNesting())

	outer, ok := q.Where.(*pattern.Group)
	require.True(t, ok)
	inner, ok := outer.Inner.(*pattern.Group)
	require.True(t, ok)
	assert.IsType(t, &pattern.BGP{}, inner.Inner)
}

func TestParse_FlattenedGroupKeepsSiblingStructure(t *testing.T) {
	q := mustParse(t, "SELECT * WHERE { ?s ?p ?o . { ?a ?b ?c . } }")

	seq, ok := q.Where.(*pattern.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Items, 2)
	assert.IsType(t, &pattern.BGP{}, seq.Items[0])
	assert.IsType(t, &pattern.BGP{}, seq.Items[1])
}

func TestParse_PrefixDeclarations(t *testing.T) {
	q := mustParse(t, `PREFIX foaf: <http://xmlns.com/foaf/0.1/>
PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
SELECT * WHERE { ?s rdf:type foaf:Person . }`)

	assert.Equal(t, map[string]string{
		"foaf": "http://xmlns.com/foaf/0.1/",
		"rdf":  "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	}, q.Prefixes)
}

func TestParse_FromGraph(t *testing.T) {
	q := mustParse(t, "SELECT * FROM <http://example.org/g> WHERE { ?s ?p ?o . }")
	assert.Equal(t, "http://example.org/g", q.Graph)
}

func TestParse_ObjectLiterals(t *testing.T) {
	q := mustParse(t, `SELECT * WHERE {
		?s ex:name "Alice" .
		?s ex:age 30 .
		?s ex:score 3.5 .
		?s ex:active true .
		?s ex:label "chat"@fr .
	}`)

	bgp := q.Where.(*pattern.BGP)
	require.Len(t, bgp.Triples, 5)
	assert.Equal(t, `"Alice"`, bgp.Triples[0].Object)
	assert.Equal(t, "30", bgp.Triples[1].Object)
	assert.Equal(t, "3.5", bgp.Triples[2].Object)
	assert.Equal(t, "true", bgp.Triples[3].Object)
	assert.Equal(t, `"chat"@fr`, bgp.Triples[4].Object)
}

func TestParse_IRITerms(t *testing.T) {
	q := mustParse(t, "SELECT * WHERE { <http://example.org/s> <http://example.org/p> ?o . }")
	bgp := q.Where.(*pattern.BGP)
	assert.Equal(t, "<http://example.org/s>", bgp.Triples[0].Subject)
}

func TestParse_Aggregates(t *testing.T) {
	q := mustParse(t, `SELECT ?dept (COUNT(?person) AS ?count) WHERE {
		?person ex:dept ?dept .
	} GROUP BY ?dept`)

	assert.Equal(t, []string{"?dept"}, q.Projection)
	require.Len(t, q.Aggregations, 1)
	agg := q.Aggregations[0]
	assert.Equal(t, "COUNT", agg.Function)
	assert.Equal(t, "?person", agg.Variable)
	assert.Equal(t, "?count", agg.Alias)
	assert.False(t, agg.Distinct)
	require.NotNil(t, q.GroupBy)
	assert.Equal(t, []string{"?dept"}, q.GroupBy.Variables)
}

func TestParse_CountDistinct(t *testing.T) {
	q := mustParse(t, "SELECT (COUNT(DISTINCT ?s) AS ?n) WHERE { ?s ?p ?o . }")

	require.Len(t, q.Aggregations, 1)
	assert.Equal(t, "COUNT", q.Aggregations[0].Function)
	assert.Equal(t, "?s", q.Aggregations[0].Variable)
	assert.True(t, q.Aggregations[0].Distinct)
	assert.Empty(t, q.Projection)
}

func TestParse_GroupingValidation(t *testing.T) {
	_, err := Parse(`SELECT ?name WHERE {
		?person ex:dept ?dept .
		?person ex:name ?name .
	} GROUP BY ?dept`)

	require.Error(t, err)
	assert.True(t, IsGroupingValidationError(err))
	var ge *GroupingValidationError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, "?name", ge.Variable)
}

func TestParse_AggregateAliasExemptFromGrouping(t *testing.T) {
	q := mustParse(t, `SELECT ?dept (COUNT(?person) AS ?count) WHERE {
		?person ex:dept ?dept .
	} GROUP BY ?dept`)
	assert.NotNil(t, q.GroupBy)
}

func TestParse_HavingSingleComparisonBare(t *testing.T) {
	q := mustParse(t, `SELECT ?dept (COUNT(?p) AS ?n) WHERE {
		?p ex:dept ?dept .
	} GROUP BY ?dept HAVING(COUNT(?p) > 10)`)

	require.Len(t, q.Having, 1)
	assert.Equal(t, "COUNT(?p) > 10", q.Having[0].Expression)
}

func TestParse_HavingJoinedTermsParenthesized(t *testing.T) {
	q := mustParse(t, `SELECT ?dept (COUNT(?p) AS ?n) (AVG(?sal) AS ?avg) WHERE {
		?p ex:dept ?dept .
		?p ex:salary ?sal .
	} GROUP BY ?dept HAVING((COUNT(?p) > 10) AND (AVG(?sal) > 10000))`)

	require.Len(t, q.Having, 1)
	assert.Equal(t, "(COUNT(?p) > 10) AND (AVG(?sal) > 10000)", q.Having[0].Expression)
}

func TestParse_HavingSymbolicOperators(t *testing.T) {
	q := mustParse(t, `SELECT ?dept (COUNT(?p) AS ?n) WHERE {
		?p ex:dept ?dept .
	} GROUP BY ?dept HAVING(COUNT(?p) > 10 && AVG(?p) < 3 || SUM(?p) >= 100)`)

	require.Len(t, q.Having, 1)
	assert.Equal(t, "((COUNT(?p) > 10) AND (AVG(?p) < 3)) OR (SUM(?p) >= 100)", q.Having[0].Expression)
}

func TestParse_HavingParenthesizedSingleStaysBare(t *testing.T) {
	q := mustParse(t, `SELECT ?dept (COUNT(?p) AS ?n) WHERE {
		?p ex:dept ?dept .
	} GROUP BY ?dept HAVING((COUNT(?p) > 10))`)

	require.Len(t, q.Having, 1)
	assert.Equal(t, "COUNT(?p) > 10", q.Having[0].Expression)
}

func TestParse_OrderByMixedDirections(t *testing.T) {
	q := mustParse(t, "SELECT * WHERE { ?s ?p ?o . } ORDER BY DESC(?o) ?s ASC(?p)")

	require.NotNil(t, q.OrderBy)
	assert.Equal(t, []string{"?o", "?s", "?p"}, q.OrderBy.Variables)
	assert.Equal(t, []bool{false, true, true}, q.OrderBy.Ascending)
}

func TestParse_LimitOffset(t *testing.T) {
	q := mustParse(t, "SELECT * WHERE { ?s ?p ?o . } LIMIT 10 OFFSET 20")

	require.NotNil(t, q.Limit)
	assert.Equal(t, 10, *q.Limit)
	require.NotNil(t, q.Offset)
	assert.Equal(t, 20, *q.Offset)
}

func TestParse_SubQuery(t *testing.T) {
	q := mustParse(t, `SELECT * WHERE {
		?s ex:knows ?o .
		{ SELECT ?o WHERE { ?o ex:age ?age . } LIMIT 5 }
	}`)

	seq, ok := q.Where.(*pattern.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Items, 2)
	sub, ok := seq.Items[1].(*pattern.SubQuery)
	require.True(t, ok)
	assert.Equal(t, []string{"?o"}, sub.Query.Projection)
	require.NotNil(t, sub.Query.Limit)
	assert.Equal(t, 5, *sub.Query.Limit)
}

func TestParse_CaseInsensitiveKeywords(t *testing.T) {
	q := mustParse(t, "select * where { ?s ?p ?o . } limit 3")
	require.NotNil(t, q.Limit)
	assert.Equal(t, 3, *q.Limit)
}

func TestParse_Comments(t *testing.T) {
	q := mustParse(t, `SELECT * WHERE {
		# people and their names
		?s foaf:name ?o .
	}`)
	assert.Equal(t, 1, q.TripleCount())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"missing where", "SELECT * { ?s ?p ?o . }"},
		{"missing projection", "SELECT WHERE { ?s ?p ?o . }"},
		{"missing dot", "SELECT * WHERE { ?s ?p ?o }"},
		{"unterminated group", "SELECT * WHERE { ?s ?p ?o ."},
		{"trailing input", "SELECT * WHERE { ?s ?p ?o . } nonsense"},
		{"bad aggregate", "SELECT (FROB(?x) AS ?y) WHERE { ?s ?p ?o . }"},
		{"aggregate missing alias", "SELECT (COUNT(?x)) WHERE { ?s ?p ?o . }"},
		{"union missing brace", "SELECT * WHERE { { ?a ?b ?c . } UNION ?d ?e ?f . }"},
		{"empty filter", "SELECT * WHERE { ?s ?p ?o . FILTER() }"},
		{"bad limit", "SELECT * WHERE { ?s ?p ?o . } LIMIT abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Parse(tt.input)
			assert.Nil(t, q)
			require.Error(t, err)
			assert.True(t, IsParseError(err), "want ParseError, got %v", err)
		})
	}
}

func TestParseError_CarriesPosition(t *testing.T) {
	_, err := Parse("SELECT * WHERE { ?s ?p ?o }")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Error(), "offset")
	assert.NotEmpty(t, pe.Message)
}

func TestParse_RoundtripThroughSerialization(t *testing.T) {
	inputs := []string{
		"SELECT * WHERE { ?s ?p ?o . }",
		"SELECT ?s WHERE { ?s ?p ?o . FILTER(?o > 5) }",
		"SELECT * WHERE { { ?a ?b ?c . } UNION { ?d ?e ?f . } }",
		"SELECT * WHERE { ?s ?p ?o . OPTIONAL { ?s ?q ?r . } }",
		"SELECT * WHERE { ?s ?p ?o . } ORDER BY DESC(?o) LIMIT 10 OFFSET 2",
	}
	for _, input := range inputs {
		q := mustParse(t, input)
		text, err := q.Serialize()
		require.NoError(t, err, input)
		again := mustParse(t, text)
		assert.True(t, equiv.Queries(q, again), "roundtrip changed structure for %q", input)
	}
}

func TestParse_EmptyWhereBlock(t *testing.T) {
	q := mustParse(t, "SELECT * WHERE { }")
	bgp, ok := q.Where.(*pattern.BGP)
	require.True(t, ok)
	assert.Empty(t, bgp.Triples)
}
