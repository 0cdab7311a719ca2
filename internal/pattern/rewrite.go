package pattern

// ReplaceTriplesWithSubqueries returns a copy of the query in which every
// BGP is rewritten into a sequence of single-triple subqueries, each of
// the form SELECT * WHERE { t } LIMIT limit. The rewrite bounds the
// intermediate result size of each triple at evaluation time; the
// original query is left untouched.
func (q *Query) ReplaceTriplesWithSubqueries(limit int) *Query {
	out := q.Clone()
	if out.Where != nil {
		where := rewritePattern(out.Where, limit)
		where.setParent(out)
		out.Where = where
	}
	return out
}

func rewritePattern(p Pattern, limit int) Pattern {
	switch v := p.(type) {
	case *BGP:
		if len(v.Triples) == 0 {
			return v
		}
		seq := NewSequence()
		for _, t := range v.Triples {
			sub := NewQuery()
			sub.SetWhere(NewBGP(NewTriplePattern(t.Subject, t.Predicate, t.Object)))
			sub.SetLimit(limit)
			seq.Append(NewSubQuery(sub))
		}
		return seq
	case *Union:
		left := rewritePattern(v.Left, limit)
		right := rewritePattern(v.Right, limit)
		return NewUnion(left, right)
	case *Optional:
		return NewOptional(rewritePattern(v.Inner, limit))
	case *Group:
		out := NewGroup(rewritePattern(v.Inner, limit))
		for _, f := range v.Filters {
			nf := NewFilter(f.Expression)
			nf.owner = out
			out.Filters = append(out.Filters, nf)
		}
		return out
	case *SubQuery:
		return NewSubQuery(v.Query.ReplaceTriplesWithSubqueries(limit))
	case *Sequence:
		out := NewSequence()
		for _, item := range v.Items {
			out.Append(rewritePattern(item, limit))
		}
		return out
	default:
		return p
	}
}
