package pattern

import "fmt"

// Add attaches a component to the BGP, dispatching on value kind:
// a [3]string triple tuple or *TriplePattern extends the triple block,
// a string or *Filter extends the scoped filters.
func (b *BGP) Add(component any) error {
	switch v := component.(type) {
	case [3]string:
		t := NewTriplePattern(v[0], v[1], v[2])
		t.parent = b
		b.Triples = append(b.Triples, t)
	case *TriplePattern:
		v.parent = b
		b.Triples = append(b.Triples, v)
	case string:
		f := NewFilter(v)
		f.owner = b
		b.Filters = append(b.Filters, f)
	case *Filter:
		v.owner = b
		b.Filters = append(b.Filters, v)
	default:
		return &UnsupportedComponentError{Target: "BGP", Kind: fmt.Sprintf("%T", component)}
	}
	return nil
}

// Add attaches a component to the group: a pattern fills the inner slot
// (extending it into a sequence when already occupied), a triple tuple
// extends or creates an inner BGP, and strings or *Filter values become
// group-scoped filters.
func (g *Group) Add(component any) error {
	switch v := component.(type) {
	case [3]string:
		if bgp, ok := g.Inner.(*BGP); ok {
			return bgp.Add(v)
		}
		if g.Inner == nil {
			bgp := NewBGP()
			bgp.parent = g
			g.Inner = bgp
			return bgp.Add(v)
		}
		return &UnsupportedComponentError{Target: "Group", Kind: "[3]string"}
	case string:
		f := NewFilter(v)
		f.owner = g
		g.Filters = append(g.Filters, f)
	case *Filter:
		v.owner = g
		g.Filters = append(g.Filters, v)
	case Pattern:
		g.attachInner(v)
	default:
		return &UnsupportedComponentError{Target: "Group", Kind: fmt.Sprintf("%T", component)}
	}
	return nil
}

func (g *Group) attachInner(p Pattern) {
	switch inner := g.Inner.(type) {
	case nil:
		p.setParent(g)
		g.Inner = p
	case *Sequence:
		inner.Append(p)
	default:
		seq := NewSequence(inner, p)
		seq.parent = g
		g.Inner = seq
	}
}

// Add attaches a component to the query: pattern variants fill or extend
// the where-clause (a second pattern converts the single slot into a
// Sequence preserving arrival order), strings and *Filter values become
// top-level filters, and triple tuples extend the where-clause's BGP,
// creating one when absent.
func (q *Query) Add(component any) error {
	switch v := component.(type) {
	case [3]string:
		if bgp, ok := q.Where.(*BGP); ok {
			return bgp.Add(v)
		}
		if q.Where == nil {
			bgp := NewBGP()
			bgp.parent = q
			q.Where = bgp
			return bgp.Add(v)
		}
		return &UnsupportedComponentError{Target: "Query", Kind: "[3]string"}
	case string:
		f := NewFilter(v)
		f.owner = q
		q.Filters = append(q.Filters, f)
	case *Filter:
		v.owner = q
		q.Filters = append(q.Filters, v)
	case Pattern:
		q.attachWhere(v)
	default:
		return &UnsupportedComponentError{Target: "Query", Kind: fmt.Sprintf("%T", component)}
	}
	return nil
}

// attachWhere unions the where slot with the new pattern: an empty slot
// takes it directly, an existing sequence grows, and any other occupant is
// converted to a two-element sequence in arrival order.
func (q *Query) attachWhere(p Pattern) {
	switch where := q.Where.(type) {
	case nil:
		p.setParent(q)
		q.Where = p
	case *Sequence:
		where.Append(p)
	default:
		seq := NewSequence(where, p)
		seq.parent = q
		q.Where = seq
	}
}
