package pattern

// Instantiate substitutes bound values for variables throughout the tree.
// Mapping keys are sigil-stripped variable names; bound values are wrapped
// as bracketed IRIs unless already bracketed. After substitution, resolved
// variables are dropped from the projection list; a projection emptied this
// way is repopulated with the remaining free variables.
func (q *Query) Instantiate(mapping map[string]string) *Query {
	instantiatePattern(q.Where, mapping)

	if !q.IsWildcard() {
		kept := q.Projection[:0]
		for _, v := range q.Projection {
			if IsVariable(v) {
				if _, bound := mapping[VarName(v)]; bound {
					continue
				}
			}
			kept = append(kept, v)
		}
		q.Projection = kept
		if len(q.Projection) == 0 {
			q.Projection = q.Variables()
		}
	}
	return q
}

func instantiatePattern(p Pattern, mapping map[string]string) {
	switch v := p.(type) {
	case *TriplePattern:
		v.Subject = substitute(v.Subject, mapping)
		v.Predicate = substitute(v.Predicate, mapping)
		v.Object = substitute(v.Object, mapping)
	case *BGP:
		for _, t := range v.Triples {
			instantiatePattern(t, mapping)
		}
	case *Union:
		instantiatePattern(v.Left, mapping)
		instantiatePattern(v.Right, mapping)
	case *Optional:
		instantiatePattern(v.Inner, mapping)
	case *Group:
		instantiatePattern(v.Inner, mapping)
	case *SubQuery:
		v.Query.Instantiate(mapping)
	case *Sequence:
		for _, item := range v.Items {
			instantiatePattern(item, mapping)
		}
	}
}

func substitute(term string, mapping map[string]string) string {
	if !IsVariable(term) {
		return term
	}
	if value, ok := mapping[VarName(term)]; ok {
		return AsIRI(value)
	}
	return term
}
