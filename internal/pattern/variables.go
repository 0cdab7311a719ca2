package pattern

import (
	"sort"
	"strings"
)

// Variables collects every variable appearing in the where-clause,
// including variable tokens inside filter and having expression text.
// The result is sorted and keeps the '?' sigil.
func (q *Query) Variables() []string {
	seen := map[string]bool{}
	collectVariables(q.Where, seen)
	for _, f := range q.Filters {
		collectExpressionVariables(f.Expression, seen)
	}
	for _, h := range q.Having {
		collectExpressionVariables(h.Expression, seen)
	}
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func collectVariables(p Pattern, seen map[string]bool) {
	switch v := p.(type) {
	case *TriplePattern:
		for _, term := range []string{v.Subject, v.Predicate, v.Object} {
			if IsVariable(term) {
				seen[term] = true
			}
		}
	case *BGP:
		for _, t := range v.Triples {
			collectVariables(t, seen)
		}
		for _, f := range v.Filters {
			collectExpressionVariables(f.Expression, seen)
		}
	case *Union:
		collectVariables(v.Left, seen)
		collectVariables(v.Right, seen)
	case *Optional:
		collectVariables(v.Inner, seen)
	case *Group:
		collectVariables(v.Inner, seen)
		for _, f := range v.Filters {
			collectExpressionVariables(f.Expression, seen)
		}
	case *SubQuery:
		for _, name := range v.Query.Variables() {
			seen[name] = true
		}
	case *Sequence:
		for _, item := range v.Items {
			collectVariables(item, seen)
		}
	}
}

// collectExpressionVariables scans free-form expression text for '?'
// tokens. Punctuation commonly adjacent to variables in expressions is
// trimmed from the token tail.
func collectExpressionVariables(expr string, seen map[string]bool) {
	for _, word := range strings.Fields(expr) {
		start := strings.IndexByte(word, '?')
		if start < 0 {
			continue
		}
		token := word[start:]
		token = strings.TrimRight(token, "),.;")
		if len(token) > 1 {
			seen[token] = true
		}
	}
}
