package pattern

// TripleCount returns the number of triple patterns across the whole
// where-clause, descending through every variant including subqueries.
func (q *Query) TripleCount() int {
	return countTriples(q.Where)
}

func countTriples(p Pattern) int {
	switch v := p.(type) {
	case nil:
		return 0
	case *TriplePattern:
		return 1
	case *BGP:
		return len(v.Triples)
	case *Union:
		return countTriples(v.Left) + countTriples(v.Right)
	case *Optional:
		return countTriples(v.Inner)
	case *Group:
		return countTriples(v.Inner)
	case *SubQuery:
		return v.Query.TripleCount()
	case *Sequence:
		n := 0
		for _, item := range v.Items {
			n += countTriples(item)
		}
		return n
	default:
		return 0
	}
}

// BGPCount returns the number of basic graph pattern blocks in the query.
func (q *Query) BGPCount() int {
	return countBGPs(q.Where)
}

func countBGPs(p Pattern) int {
	switch v := p.(type) {
	case nil:
		return 0
	case *BGP:
		return 1
	case *Union:
		return countBGPs(v.Left) + countBGPs(v.Right)
	case *Optional:
		return countBGPs(v.Inner)
	case *Group:
		return countBGPs(v.Inner)
	case *SubQuery:
		return v.Query.BGPCount()
	case *Sequence:
		n := 0
		for _, item := range v.Items {
			n += countBGPs(item)
		}
		return n
	default:
		return 0
	}
}

// ExtractTriples collects every triple pattern in the query in
// serialization order, including those inside subqueries.
func ExtractTriples(q *Query) []*TriplePattern {
	var out []*TriplePattern
	collectTriples(q.Where, &out)
	return out
}

func collectTriples(p Pattern, out *[]*TriplePattern) {
	switch v := p.(type) {
	case *TriplePattern:
		*out = append(*out, v)
	case *BGP:
		*out = append(*out, v.Triples...)
	case *Union:
		collectTriples(v.Left, out)
		collectTriples(v.Right, out)
	case *Optional:
		collectTriples(v.Inner, out)
	case *Group:
		collectTriples(v.Inner, out)
	case *SubQuery:
		collectTriples(v.Query.Where, out)
	case *Sequence:
		for _, item := range v.Items {
			collectTriples(item, out)
		}
	}
}

// AllVariables reports whether every position of the triple is a variable.
func (t *TriplePattern) AllVariables() bool {
	return IsVariable(t.Subject) && IsVariable(t.Predicate) && IsVariable(t.Object)
}
