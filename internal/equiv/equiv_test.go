package equiv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeql/sparqlforge/internal/pattern"
)

func query(t *testing.T, components ...any) *pattern.Query {
	t.Helper()
	q := pattern.NewQuery()
	for _, c := range components {
		require.NoError(t, q.Add(c))
	}
	return q
}

func TestQueries_RenamedVariablesMatch(t *testing.T) {
	a := query(t, [3]string{"?s", "foaf:name", "?name"})
	b := query(t, [3]string{"?x", "foaf:name", "?y"})

	assert.True(t, Queries(a, b))
}

func TestQueries_ConstantsMustMatchExactly(t *testing.T) {
	a := query(t, [3]string{"?s", "foaf:name", "?name"})
	b := query(t, [3]string{"?s", "foaf:age", "?name"})

	assert.False(t, Queries(a, b))
}

func TestQueries_RenamingMustBeConsistent(t *testing.T) {
	// ?s appears twice on the left; the right side splits it.
	a := query(t,
		[3]string{"?s", "foaf:name", "?name"},
		[3]string{"?s", "foaf:age", "?age"},
	)
	b := query(t,
		[3]string{"?x", "foaf:name", "?n"},
		[3]string{"?y", "foaf:age", "?a"},
	)

	assert.False(t, Queries(a, b))
}

func TestQueries_RenamingMustBeInjective(t *testing.T) {
	// Two distinct variables cannot both map onto ?x.
	a := query(t, [3]string{"?s", "?p", "?o"})
	b := query(t, [3]string{"?x", "?p", "?x"})

	assert.False(t, Queries(a, b))
	assert.False(t, Queries(b, a))
}

func TestQueries_TriplePermutationMatches(t *testing.T) {
	a := query(t,
		[3]string{"?s", "foaf:name", "?name"},
		[3]string{"?s", "foaf:age", "?age"},
	)
	b := query(t,
		[3]string{"?x", "foaf:age", "?a"},
		[3]string{"?x", "foaf:name", "?n"},
	)

	assert.True(t, Queries(a, b))
}

func TestQueries_TripleCountMustMatch(t *testing.T) {
	a := query(t, [3]string{"?s", "?p", "?o"})
	b := query(t,
		[3]string{"?s", "?p", "?o"},
		[3]string{"?o", "?q", "?r"},
	)

	assert.False(t, Queries(a, b))
}

func TestQueries_UnionBranchOrderIrrelevant(t *testing.T) {
	a := pattern.NewQuery()
	a.SetWhere(pattern.NewUnion(
		pattern.NewBGP(pattern.NewTriplePattern("?s", "foaf:name", "?n")),
		pattern.NewBGP(pattern.NewTriplePattern("?s", "foaf:nick", "?n")),
	))
	b := pattern.NewQuery()
	b.SetWhere(pattern.NewUnion(
		pattern.NewBGP(pattern.NewTriplePattern("?x", "foaf:nick", "?y")),
		pattern.NewBGP(pattern.NewTriplePattern("?x", "foaf:name", "?y")),
	))

	assert.True(t, Queries(a, b))
}

func TestQueries_UnionCrossedMappingStaysConsistent(t *testing.T) {
	// The crossed pairing must carry one renaming across both branches.
	a := pattern.NewQuery()
	a.SetWhere(pattern.NewUnion(
		pattern.NewBGP(pattern.NewTriplePattern("?s", "ex:a", "?v")),
		pattern.NewBGP(pattern.NewTriplePattern("?s", "ex:b", "?v")),
	))
	b := pattern.NewQuery()
	b.SetWhere(pattern.NewUnion(
		pattern.NewBGP(pattern.NewTriplePattern("?x", "ex:b", "?y")),
		pattern.NewBGP(pattern.NewTriplePattern("?z", "ex:a", "?y")),
	))

	// Straight pairing fails on predicates; crossed pairing must map
	// s->x in one branch and s->z in the other, which is inconsistent.
	assert.False(t, Queries(a, b))
}

func TestQueries_KindMismatch(t *testing.T) {
	a := pattern.NewQuery()
	a.SetWhere(pattern.NewOptional(pattern.NewBGP(pattern.NewTriplePattern("?s", "?p", "?o"))))
	b := query(t, [3]string{"?s", "?p", "?o"})

	assert.False(t, Queries(a, b))
}

func TestQueries_SequenceOrderSignificant(t *testing.T) {
	bgp := func(s, p, o string) *pattern.BGP {
		return pattern.NewBGP(pattern.NewTriplePattern(s, p, o))
	}
	a := pattern.NewQuery()
	a.SetWhere(pattern.NewSequence(
		bgp("?s", "ex:a", "?o"),
		pattern.NewOptional(bgp("?s", "ex:b", "?o2")),
	))
	b := pattern.NewQuery()
	b.SetWhere(pattern.NewSequence(
		pattern.NewOptional(bgp("?s", "ex:b", "?o2")),
		bgp("?s", "ex:a", "?o"),
	))

	assert.False(t, Queries(a, b))
}

func TestQueries_GroupWrapperTransparentPayload(t *testing.T) {
	a := pattern.NewQuery()
	a.SetWhere(pattern.NewGroup(pattern.NewBGP(pattern.NewTriplePattern("?s", "?p", "?o"))))
	b := pattern.NewQuery()
	b.SetWhere(pattern.NewGroup(pattern.NewBGP(pattern.NewTriplePattern("?x", "?y", "?z"))))

	assert.True(t, Queries(a, b))
}

func TestQueries_SubQueryOpensFreshScope(t *testing.T) {
	makeQuery := func(outerObj, innerVar string) *pattern.Query {
		sub := pattern.NewQuery()
		sub.SetWhere(pattern.NewBGP(pattern.NewTriplePattern(innerVar, "ex:p", innerVar)))
		q := pattern.NewQuery()
		q.SetWhere(pattern.NewSequence(
			pattern.NewBGP(pattern.NewTriplePattern("?s", "ex:q", outerObj)),
			pattern.NewSubQuery(sub),
		))
		return q
	}

	// Outer scope maps ?v to ?w while the subquery maps ?v to a third
	// name. A mapping shared across the boundary could not satisfy both.
	a := makeQuery("?v", "?v")
	b := makeQuery("?w", "?completely_different")
	assert.True(t, Queries(a, b))
}

func TestQueries_NilWhereMatchesNil(t *testing.T) {
	a := pattern.NewQuery()
	b := pattern.NewQuery()
	assert.True(t, Queries(a, b))

	require.NoError(t, b.Add([3]string{"?s", "?p", "?o"}))
	assert.False(t, Queries(a, b))
}

func TestPatterns_BareTrees(t *testing.T) {
	a := pattern.NewBGP(pattern.NewTriplePattern("?s", "?p", "?o"))
	b := pattern.NewBGP(pattern.NewTriplePattern("?x", "?y", "?z"))
	assert.True(t, Patterns(a, b))
}

func TestQueries_BacktrackingFindsValidAssignment(t *testing.T) {
	// A greedy first match of (?a ex:p ?b) onto (?x ex:p ?x) dead-ends;
	// the search must back out and try the other candidate.
	a := query(t,
		[3]string{"?a", "ex:p", "?b"},
		[3]string{"?c", "ex:p", "?c"},
	)
	b := query(t,
		[3]string{"?x", "ex:p", "?x"},
		[3]string{"?y", "ex:p", "?z"},
	)

	assert.True(t, Queries(a, b))
}
