package pattern

// Removal rules: a node locates itself in its parent's slot or collection
// and detaches. A wrapper left without its required child removes itself
// from its own parent, cascading upward until the Query root (which
// tolerates a nil where-clause). A one-element Sequence collapses to its
// remaining element rather than surviving as a wrapper.

// Remove detaches the triple from its BGP. A BGP emptied of both triples
// and filters removes itself from its parent.
func (t *TriplePattern) Remove() bool {
	if t.parent == nil {
		return false
	}
	parent := t.parent
	t.parent = nil
	return parent.removeChild(t)
}

// Remove detaches the BGP from its parent.
func (b *BGP) Remove() bool {
	if b.parent == nil {
		return false
	}
	parent := b.parent
	b.parent = nil
	return parent.removeChild(b)
}

// Remove detaches the union from its parent.
func (u *Union) Remove() bool {
	if u.parent == nil {
		return false
	}
	parent := u.parent
	u.parent = nil
	return parent.removeChild(u)
}

// Remove detaches the optional from its parent.
func (o *Optional) Remove() bool {
	if o.parent == nil {
		return false
	}
	parent := o.parent
	o.parent = nil
	return parent.removeChild(o)
}

// Remove detaches the group from its parent.
func (g *Group) Remove() bool {
	if g.parent == nil {
		return false
	}
	parent := g.parent
	g.parent = nil
	return parent.removeChild(g)
}

// Remove detaches the subquery from its parent.
func (s *SubQuery) Remove() bool {
	if s.parent == nil {
		return false
	}
	parent := s.parent
	s.parent = nil
	return parent.removeChild(s)
}

// Remove detaches the sequence from its parent.
func (s *Sequence) Remove() bool {
	if s.parent == nil {
		return false
	}
	parent := s.parent
	s.parent = nil
	return parent.removeChild(s)
}

func (b *BGP) removeChild(child any) bool {
	switch v := child.(type) {
	case *TriplePattern:
		for i, t := range b.Triples {
			if t == v {
				b.Triples = append(b.Triples[:i], b.Triples[i+1:]...)
				if len(b.Triples) == 0 && len(b.Filters) == 0 {
					b.Remove()
				}
				return true
			}
		}
	case *Filter:
		for i, f := range b.Filters {
			if f == v {
				b.Filters = append(b.Filters[:i], b.Filters[i+1:]...)
				return true
			}
		}
	}
	return false
}

func (b *BGP) replaceChild(old, new Pattern) bool { return false }

func (u *Union) removeChild(child any) bool {
	p, ok := child.(Pattern)
	if !ok {
		return false
	}
	switch {
	case u.Left == p:
		u.Left = nil
	case u.Right == p:
		u.Right = nil
	default:
		return false
	}
	// A union needs both branches; losing either invalidates it.
	u.Remove()
	return true
}

func (u *Union) replaceChild(old, new Pattern) bool {
	switch {
	case u.Left == old:
		new.setParent(u)
		u.Left = new
	case u.Right == old:
		new.setParent(u)
		u.Right = new
	default:
		return false
	}
	return true
}

func (o *Optional) removeChild(child any) bool {
	p, ok := child.(Pattern)
	if !ok || o.Inner != p {
		return false
	}
	o.Inner = nil
	o.Remove()
	return true
}

func (o *Optional) replaceChild(old, new Pattern) bool {
	if o.Inner != old {
		return false
	}
	new.setParent(o)
	o.Inner = new
	return true
}

func (g *Group) removeChild(child any) bool {
	switch v := child.(type) {
	case *Filter:
		for i, f := range g.Filters {
			if f == v {
				g.Filters = append(g.Filters[:i], g.Filters[i+1:]...)
				return true
			}
		}
		return false
	case Pattern:
		if g.Inner != v {
			return false
		}
		g.Inner = nil
		g.Remove()
		return true
	}
	return false
}

func (g *Group) replaceChild(old, new Pattern) bool {
	if g.Inner != old {
		return false
	}
	new.setParent(g)
	g.Inner = new
	return true
}

func (s *Sequence) removeChild(child any) bool {
	p, ok := child.(Pattern)
	if !ok {
		return false
	}
	for i, item := range s.Items {
		if item != p {
			continue
		}
		s.Items = append(s.Items[:i], s.Items[i+1:]...)
		switch len(s.Items) {
		case 0:
			s.Remove()
		case 1:
			// Collapse: a single survivor replaces the sequence wrapper.
			last := s.Items[0]
			if s.parent != nil {
				parent := s.parent
				s.parent = nil
				parent.replaceChild(s, last)
			}
		}
		return true
	}
	return false
}

func (s *Sequence) replaceChild(old, new Pattern) bool {
	for i, item := range s.Items {
		if item == old {
			new.setParent(s)
			s.Items[i] = new
			return true
		}
	}
	return false
}
