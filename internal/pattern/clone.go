package pattern

// Clone produces a fully independent copy of the query with parent
// back-references rebuilt. Callers branch a tree before mutating one
// variant while keeping the other intact.
func (q *Query) Clone() *Query {
	out := &Query{
		Projection: append([]string(nil), q.Projection...),
		Graph:      q.Graph,
		Distinct:   q.Distinct,
	}
	if q.Where != nil {
		where := clonePattern(q.Where)
		where.setParent(out)
		out.Where = where
	}
	for _, f := range q.Filters {
		nf := NewFilter(f.Expression)
		nf.owner = out
		out.Filters = append(out.Filters, nf)
	}
	for _, h := range q.Having {
		out.AddHaving(h.Expression)
	}
	if q.OrderBy != nil {
		out.AddOrderBy(
			append([]string(nil), q.OrderBy.Variables...),
			append([]bool(nil), q.OrderBy.Ascending...),
		)
	}
	if q.GroupBy != nil {
		out.AddGroupBy(append([]string(nil), q.GroupBy.Variables...))
	}
	for _, a := range q.Aggregations {
		out.AddAggregation(NewAggregation(a.Function, a.Variable, a.Alias, a.Distinct))
	}
	if q.Limit != nil {
		out.SetLimit(*q.Limit)
	}
	if q.Offset != nil {
		out.SetOffset(*q.Offset)
	}
	if q.Prefixes != nil {
		out.Prefixes = make(map[string]string, len(q.Prefixes))
		for k, v := range q.Prefixes {
			out.Prefixes[k] = v
		}
	}
	return out
}

func clonePattern(p Pattern) Pattern {
	switch v := p.(type) {
	case *TriplePattern:
		return NewTriplePattern(v.Subject, v.Predicate, v.Object)
	case *BGP:
		out := NewBGP()
		for _, t := range v.Triples {
			nt := NewTriplePattern(t.Subject, t.Predicate, t.Object)
			nt.parent = out
			out.Triples = append(out.Triples, nt)
		}
		for _, f := range v.Filters {
			nf := NewFilter(f.Expression)
			nf.owner = out
			out.Filters = append(out.Filters, nf)
		}
		return out
	case *Union:
		return NewUnion(clonePattern(v.Left), clonePattern(v.Right))
	case *Optional:
		return NewOptional(clonePattern(v.Inner))
	case *Group:
		out := NewGroup(nil)
		if v.Inner != nil {
			inner := clonePattern(v.Inner)
			inner.setParent(out)
			out.Inner = inner
		}
		for _, f := range v.Filters {
			nf := NewFilter(f.Expression)
			nf.owner = out
			out.Filters = append(out.Filters, nf)
		}
		return out
	case *SubQuery:
		return NewSubQuery(v.Query.Clone())
	case *Sequence:
		out := NewSequence()
		for _, item := range v.Items {
			out.Append(clonePattern(item))
		}
		return out
	default:
		// Unreachable for the sealed variant set.
		return nil
	}
}
