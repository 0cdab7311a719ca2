package equiv

import "github.com/forgeql/sparqlforge/internal/pattern"

// mapping is the partial injective variable renaming built during a
// comparison. Keys and values are sigil-stripped variable names from the
// source and target tree respectively. Speculative branches work on a
// copy and commit on success, so a failed branch never pollutes the
// shared state.
type mapping map[string]string

func (m mapping) clone() mapping {
	out := make(mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (m mapping) commit(other mapping) {
	for k, v := range other {
		m[k] = v
	}
}

// hasTarget reports whether name is already the image of some source
// variable. Guards injectivity.
func (m mapping) hasTarget(name string) bool {
	for _, v := range m {
		if v == name {
			return true
		}
	}
	return false
}

// Queries reports whether the where-patterns of two queries are
// isomorphic: structurally identical up to a consistent variable renaming
// and UNION branch order.
func Queries(a, b *pattern.Query) bool {
	return matchPatterns(a.Where, b.Where, mapping{})
}

// Patterns reports isomorphism of two bare pattern trees under a fresh
// variable mapping.
func Patterns(a, b pattern.Pattern) bool {
	return matchPatterns(a, b, mapping{})
}

func matchPatterns(a, b pattern.Pattern, m mapping) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch left := a.(type) {
	case *pattern.BGP:
		right, ok := b.(*pattern.BGP)
		if !ok {
			return false
		}
		return matchBGPs(left, right, m)

	case *pattern.Union:
		right, ok := b.(*pattern.Union)
		if !ok {
			return false
		}
		return matchUnions(left, right, m)

	case *pattern.Optional:
		right, ok := b.(*pattern.Optional)
		if !ok {
			return false
		}
		return matchPatterns(left.Inner, right.Inner, m)

	case *pattern.Group:
		// Transparent wrapper: only the payload matters.
		right, ok := b.(*pattern.Group)
		if !ok {
			return false
		}
		return matchPatterns(left.Inner, right.Inner, m)

	case *pattern.SubQuery:
		right, ok := b.(*pattern.SubQuery)
		if !ok {
			return false
		}
		// Subqueries open an independent renaming scope.
		return Queries(left.Query, right.Query)

	case *pattern.Sequence:
		right, ok := b.(*pattern.Sequence)
		if !ok {
			return false
		}
		if len(left.Items) != len(right.Items) {
			return false
		}
		// Sibling order is significant, unlike UNION branch order.
		for i := range left.Items {
			if !matchPatterns(left.Items[i], right.Items[i], m) {
				return false
			}
		}
		return true

	case *pattern.TriplePattern:
		right, ok := b.(*pattern.TriplePattern)
		if !ok {
			return false
		}
		return matchTriples(left, right, m)

	default:
		return false
	}
}

// matchUnions tries both branch pairings under independent copies of the
// current mapping, committing whichever succeeds first.
func matchUnions(a, b *pattern.Union, m mapping) bool {
	straight := m.clone()
	if matchPatterns(a.Left, b.Left, straight) && matchPatterns(a.Right, b.Right, straight) {
		m.commit(straight)
		return true
	}
	crossed := m.clone()
	if matchPatterns(a.Left, b.Right, crossed) && matchPatterns(a.Right, b.Left, crossed) {
		m.commit(crossed)
		return true
	}
	return false
}

// matchBGPs performs a backtracking bipartite match between the triple
// sets of two BGPs.
func matchBGPs(a, b *pattern.BGP, m mapping) bool {
	if len(a.Triples) != len(b.Triples) {
		return false
	}
	used := make([]bool, len(b.Triples))

	var search func(i int, m mapping) bool
	search = func(i int, m mapping) bool {
		if i == len(a.Triples) {
			return true
		}
		for j, candidate := range b.Triples {
			if used[j] {
				continue
			}
			attempt := m.clone()
			if !matchTriples(a.Triples[i], candidate, attempt) {
				continue
			}
			used[j] = true
			if search(i+1, attempt) {
				m.commit(attempt)
				return true
			}
			used[j] = false
		}
		return false
	}

	return search(0, m)
}

func matchTriples(a, b *pattern.TriplePattern, m mapping) bool {
	return matchTerms(a.Subject, b.Subject, m) &&
		matchTerms(a.Predicate, b.Predicate, m) &&
		matchTerms(a.Object, b.Object, m)
}

// matchTerms matches two terms: constants must be literally equal,
// variables must be consistent with the shared renaming. A fresh source
// variable may only map to a target that is not already taken.
func matchTerms(a, b string, m mapping) bool {
	if pattern.IsVariable(a) && pattern.IsVariable(b) {
		src, dst := pattern.VarName(a), pattern.VarName(b)
		if existing, ok := m[src]; ok {
			return existing == dst
		}
		if m.hasTarget(dst) {
			return false
		}
		m[src] = dst
		return true
	}
	return a == b
}
