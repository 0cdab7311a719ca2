package shape

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgeql/sparqlforge/internal/pattern"
)

func triples(edges ...[2]string) []*pattern.TriplePattern {
	out := make([]*pattern.TriplePattern, len(edges))
	for i, e := range edges {
		out[i] = pattern.NewTriplePattern(e[0], "?p", e[1])
	}
	return out
}

func TestClassify_Empty(t *testing.T) {
	assert.Equal(t, Empty, Classify(nil))
}

func TestClassify_SingleTriple(t *testing.T) {
	assert.Equal(t, SingleTriple, Classify(triples([2]string{"?a", "?b"})))
}

func TestClassify_Path(t *testing.T) {
	got := Classify(triples(
		[2]string{"?a", "?b"},
		[2]string{"?b", "?c"},
		[2]string{"?c", "?d"},
	))
	assert.Equal(t, Path, got)
}

func TestClassify_PathDirectionMixed(t *testing.T) {
	// Chain with one reversed edge: still max in/out degree one with two
	// endpoints, so still a path.
	got := Classify(triples(
		[2]string{"?a", "?b"},
		[2]string{"?c", "?b"},
	))
	assert.Equal(t, Path, got)
}

func TestClassify_Star(t *testing.T) {
	got := Classify(triples(
		[2]string{"?center", "?l1"},
		[2]string{"?center", "?l2"},
		[2]string{"?l3", "?center"},
	))
	assert.Equal(t, Star, got)
}

func TestClassify_Cycle(t *testing.T) {
	got := Classify(triples(
		[2]string{"?a", "?b"},
		[2]string{"?b", "?c"},
		[2]string{"?c", "?a"},
	))
	assert.Equal(t, Cycle, got)
}

func TestClassify_TwoTriangleIsCycle(t *testing.T) {
	got := Classify(triples(
		[2]string{"?a", "?b"},
		[2]string{"?b", "?a"},
	))
	assert.Equal(t, Cycle, got)
}

func TestClassify_Flower(t *testing.T) {
	// Hub with two petals and one stem of length two.
	got := Classify(triples(
		[2]string{"?hub", "?p1"},
		[2]string{"?hub", "?p2"},
		[2]string{"?hub", "?s1"},
		[2]string{"?s1", "?s2"},
	))
	assert.Equal(t, Flower, got)
}

func TestClassify_TreeWithTwoStems(t *testing.T) {
	// Two stems of length two hanging off one hub: tree, not flower.
	got := Classify(triples(
		[2]string{"?hub", "?a1"},
		[2]string{"?a1", "?a2"},
		[2]string{"?hub", "?b1"},
		[2]string{"?b1", "?b2"},
		[2]string{"?hub", "?leaf"},
	))
	assert.Equal(t, Tree, got)
}

func TestClassify_TreeWithTwoHubs(t *testing.T) {
	got := Classify(triples(
		[2]string{"?h1", "?l1"},
		[2]string{"?h1", "?l2"},
		[2]string{"?h1", "?h2"},
		[2]string{"?h2", "?l3"},
		[2]string{"?h2", "?l4"},
	))
	assert.Equal(t, Tree, got)
}

func TestClassify_Complex(t *testing.T) {
	// A cycle with an extra chord is none of the named shapes.
	got := Classify(triples(
		[2]string{"?a", "?b"},
		[2]string{"?b", "?c"},
		[2]string{"?c", "?a"},
		[2]string{"?a", "?c"},
	))
	assert.Equal(t, Complex, got)
}

func TestClassify_DisconnectedComplex(t *testing.T) {
	got := Classify(triples(
		[2]string{"?a", "?b"},
		[2]string{"?c", "?d"},
	))
	assert.Equal(t, Complex, got)
}

func TestClassify_ConstantsAreNodesToo(t *testing.T) {
	// Classification reads terms, not the variable/constant split.
	got := Classify([]*pattern.TriplePattern{
		pattern.NewTriplePattern("?s", "rdf:type", "foaf:Person"),
		pattern.NewTriplePattern("?s", "foaf:name", "?name"),
		pattern.NewTriplePattern("?s", "foaf:age", "?age"),
	})
	assert.Equal(t, Star, got)
}
