package pattern

// Pattern is the closed set of graph pattern variants.
//
// This is a sealed interface - only types in this package implement it.
// The variants are:
//   - *TriplePattern: a single subject/predicate/object template (leaf)
//   - *BGP: an ordered block of triple patterns with scoped filters
//   - *Union: two alternative patterns (commutative at matching time)
//   - *Optional: a pattern matched with left-outer-join semantics
//   - *Group: an explicit brace level wrapping one inner pattern
//   - *SubQuery: a full nested query used as a pattern
//   - *Sequence: ordered sibling patterns sharing one scope
type Pattern interface {
	patternNode()

	// Remove detaches the node from its parent, cascading upward when the
	// parent is left without its required child. Returns false when the
	// node has no parent (already detached), which is not an error state.
	Remove() bool

	setParent(container)
}

// container is implemented by every node that owns children: the pattern
// variants with child slots, and Query itself (the cascade terminator).
type container interface {
	// removeChild detaches the given child from whichever slot or
	// collection holds it. Implementations cascade their own removal when
	// the detachment leaves them invalid.
	removeChild(child any) bool

	// replaceChild swaps old for new in place, preserving position.
	replaceChild(old, new Pattern) bool
}

// TriplePattern is a subject/predicate/object template. Any position may
// hold a variable. A triple is owned by exactly one BGP.
type TriplePattern struct {
	Subject   string
	Predicate string
	Object    string

	parent container
}

// NewTriplePattern constructs a detached triple pattern.
func NewTriplePattern(subject, predicate, object string) *TriplePattern {
	return &TriplePattern{Subject: subject, Predicate: predicate, Object: object}
}

func (*TriplePattern) patternNode() {}
func (t *TriplePattern) setParent(c container) { t.parent = c }

// BGP is a basic graph pattern: an ordered sequence of triple patterns
// plus filters scoped to this block. Order matters for serialization only;
// matching treats the triples as a set.
type BGP struct {
	Triples []*TriplePattern
	Filters []*Filter

	parent container
}

// NewBGP constructs a BGP owning the given triples.
func NewBGP(triples ...*TriplePattern) *BGP {
	b := &BGP{}
	for _, t := range triples {
		t.parent = b
		b.Triples = append(b.Triples, t)
	}
	return b
}

func (*BGP) patternNode() {}
func (b *BGP) setParent(c container) { b.parent = c }

// Union holds two alternative patterns. UNION is semantically commutative:
// structural equivalence tries both branch pairings.
type Union struct {
	Left  Pattern
	Right Pattern

	parent container
}

// NewUnion constructs a union of two patterns.
func NewUnion(left, right Pattern) *Union {
	u := &Union{Left: left, Right: right}
	if left != nil {
		left.setParent(u)
	}
	if right != nil {
		right.setParent(u)
	}
	return u
}

func (*Union) patternNode() {}
func (u *Union) setParent(c container) { u.parent = c }

// Optional wraps a pattern matched as a left outer join at evaluation
// time. Only the representation lives here.
type Optional struct {
	Inner Pattern

	parent container
}

// NewOptional constructs an OPTIONAL wrapper around inner.
func NewOptional(inner Pattern) *Optional {
	o := &Optional{Inner: inner}
	if inner != nil {
		inner.setParent(o)
	}
	return o
}

func (*Optional) patternNode() {}
func (o *Optional) setParent(c container) { o.parent = c }

// Group is a transparent wrapper recording an explicit syntactic brace
// level around one inner pattern, with its own scoped filters. Groups are
// produced by the parser in nesting-preservation mode and carry no weight
// in structural equivalence.
type Group struct {
	Inner   Pattern
	Filters []*Filter

	parent container
}

// NewGroup constructs a brace group around inner. Inner may be nil and
// supplied later via Add.
func NewGroup(inner Pattern) *Group {
	g := &Group{Inner: inner}
	if inner != nil {
		inner.setParent(g)
	}
	return g
}

func (*Group) patternNode() {}
func (g *Group) setParent(c container) { g.parent = c }

// SubQuery embeds a full nested query as a pattern.
type SubQuery struct {
	Query *Query

	parent container
}

// NewSubQuery wraps a query for use as a nested pattern.
func NewSubQuery(q *Query) *SubQuery {
	return &SubQuery{Query: q}
}

func (*SubQuery) patternNode() {}
func (s *SubQuery) setParent(c container) { s.parent = c }

// Sequence is an ordered list of sibling patterns juxtaposed in one scope,
// e.g. a BGP followed by an OPTIONAL. Unlike UNION, element order is
// significant for structural equivalence.
type Sequence struct {
	Items []Pattern

	parent container
}

// NewSequence constructs an ordered sequence of sibling patterns.
func NewSequence(items ...Pattern) *Sequence {
	s := &Sequence{}
	for _, item := range items {
		item.setParent(s)
		s.Items = append(s.Items, item)
	}
	return s
}

func (*Sequence) patternNode() {}
func (s *Sequence) setParent(c container) { s.parent = c }

// Append attaches a pattern at the end of the sequence.
func (s *Sequence) Append(p Pattern) {
	p.setParent(s)
	s.Items = append(s.Items, p)
}

// Filter is a free-form boolean expression scoped to a BGP, a Group, or
// the top-level Query.
type Filter struct {
	Expression string

	owner container
}

// NewFilter constructs a detached filter.
func NewFilter(expression string) *Filter {
	return &Filter{Expression: expression}
}

// Remove detaches the filter from its owning block. Returns false when
// the filter is not attached.
func (f *Filter) Remove() bool {
	if f.owner == nil {
		return false
	}
	owner := f.owner
	f.owner = nil
	return owner.removeChild(f)
}
