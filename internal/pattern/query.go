package pattern

import (
	"fmt"
	"sort"
)

// Having is a post-aggregation group filter, owned by exactly one Query.
type Having struct {
	Expression string

	query *Query
}

// NewHaving constructs a detached HAVING condition.
func NewHaving(expression string) *Having {
	return &Having{Expression: expression}
}

// Remove detaches the condition from its query.
func (h *Having) Remove() bool {
	if h.query == nil {
		return false
	}
	q := h.query
	h.query = nil
	for i, other := range q.Having {
		if other == h {
			q.Having = append(q.Having[:i], q.Having[i+1:]...)
			return true
		}
	}
	return false
}

// OrderBy lists result ordering variables with one ascending flag per
// variable. A single-element Ascending slice applies to all variables.
type OrderBy struct {
	Variables []string
	Ascending []bool

	query *Query
}

// NewOrderBy constructs a detached ORDER BY clause.
func NewOrderBy(variables []string, ascending []bool) *OrderBy {
	return &OrderBy{Variables: variables, Ascending: ascending}
}

// Remove clears the clause from its query.
func (o *OrderBy) Remove() bool {
	if o.query == nil {
		return false
	}
	q := o.query
	o.query = nil
	if q.OrderBy == o {
		q.OrderBy = nil
		return true
	}
	return false
}

// direction resolves the ascending flag for variable i, defaulting to
// ascending when the flags run out.
func (o *OrderBy) direction(i int) bool {
	if len(o.Ascending) == 0 {
		return true
	}
	if len(o.Ascending) == 1 {
		return o.Ascending[0]
	}
	if i < len(o.Ascending) {
		return o.Ascending[i]
	}
	return true
}

// GroupBy lists grouping variables in declaration order.
type GroupBy struct {
	Variables []string

	query *Query
}

// NewGroupBy constructs a detached GROUP BY clause.
func NewGroupBy(variables ...string) *GroupBy {
	return &GroupBy{Variables: variables}
}

// Remove clears the clause from its query.
func (g *GroupBy) Remove() bool {
	if g.query == nil {
		return false
	}
	q := g.query
	g.query = nil
	if q.GroupBy == g {
		q.GroupBy = nil
		return true
	}
	return false
}

// Aggregation binds an aggregate function over a variable (or the '*'
// wildcard) to a result alias in the projection.
type Aggregation struct {
	Function string // COUNT, SUM, MIN, MAX, AVG
	Variable string // operand variable, or "*"
	Alias    string // result variable name (after AS)
	Distinct bool

	query *Query
}

// NewAggregation constructs a detached aggregation expression.
func NewAggregation(function, variable, alias string, distinct bool) *Aggregation {
	return &Aggregation{Function: function, Variable: variable, Alias: alias, Distinct: distinct}
}

// Remove detaches the aggregation from its query's projection.
func (a *Aggregation) Remove() bool {
	if a.query == nil {
		return false
	}
	q := a.query
	a.query = nil
	for i, other := range q.Aggregations {
		if other == a {
			q.Aggregations = append(q.Aggregations[:i], q.Aggregations[i+1:]...)
			return true
		}
	}
	return false
}

// String renders the aggregation as a projection term.
func (a *Aggregation) String() string {
	distinct := ""
	if a.Distinct {
		distinct = "DISTINCT "
	}
	return fmt.Sprintf("(%s(%s%s) AS %s)", a.Function, distinct, a.Variable, a.Alias)
}

// Query is the root entity: projection, one where-pattern (possibly a
// Sequence), solution modifiers, and an optional prefix mapping and named
// graph. Query terminates removal cascades - it accepts a nil Where.
type Query struct {
	Projection   []string // plain variables, or the single element "*"
	Where        Pattern
	Filters      []*Filter
	Having       []*Having
	OrderBy      *OrderBy
	GroupBy      *GroupBy
	Limit        *int
	Offset       *int
	Graph        string
	Distinct     bool
	Aggregations []*Aggregation
	Prefixes     map[string]string
}

// NewQuery constructs an empty query projecting "*".
func NewQuery() *Query {
	return &Query{Projection: []string{"*"}}
}

// IsWildcard reports whether the query projects all variables.
func (q *Query) IsWildcard() bool {
	return len(q.Projection) == 1 && q.Projection[0] == "*"
}

// SetWhere replaces the where-pattern, attaching the new pattern.
func (q *Query) SetWhere(p Pattern) {
	if p != nil {
		p.setParent(q)
	}
	q.Where = p
}

// AddHaving appends a HAVING condition and returns the query for chaining.
func (q *Query) AddHaving(expression string) *Query {
	h := NewHaving(expression)
	h.query = q
	q.Having = append(q.Having, h)
	return q
}

// AddGroupBy sets the GROUP BY clause, optionally registering aggregations
// in the same call.
func (q *Query) AddGroupBy(variables []string, aggregations ...*Aggregation) *Query {
	g := NewGroupBy(variables...)
	g.query = q
	q.GroupBy = g
	for _, a := range aggregations {
		q.AddAggregation(a)
	}
	return q
}

// AddOrderBy sets the ORDER BY clause.
func (q *Query) AddOrderBy(variables []string, ascending []bool) *Query {
	o := NewOrderBy(variables, ascending)
	o.query = q
	q.OrderBy = o
	return q
}

// AddAggregation appends an aggregation to the projection.
func (q *Query) AddAggregation(a *Aggregation) *Query {
	a.query = q
	q.Aggregations = append(q.Aggregations, a)
	return q
}

// SetLimit sets the LIMIT modifier.
func (q *Query) SetLimit(n int) *Query {
	q.Limit = &n
	return q
}

// SetOffset sets the OFFSET modifier.
func (q *Query) SetOffset(n int) *Query {
	q.Offset = &n
	return q
}

// SetDistinct toggles the DISTINCT flag.
func (q *Query) SetDistinct(distinct bool) *Query {
	q.Distinct = distinct
	return q
}

// SetPrefixes installs the prefix mapping after verifying that every
// prefixed name used in the where-clause is declared.
func (q *Query) SetPrefixes(prefixes map[string]string) error {
	q.Prefixes = prefixes
	return q.ValidatePrefixes()
}

// ValidatePrefixes checks that the declared prefix mapping covers every
// namespace prefix used by a term in the where-clause. Queries without a
// prefix mapping are exempt: they are assumed to rely on an external
// prologue.
func (q *Query) ValidatePrefixes() error {
	if q.Prefixes == nil {
		return nil
	}
	missing := map[string]bool{}
	for _, t := range ExtractTriples(q) {
		for _, term := range []string{t.Subject, t.Predicate, t.Object} {
			if pfx, ok := prefixOf(term); ok {
				if _, declared := q.Prefixes[pfx]; !declared {
					missing[pfx] = true
				}
			}
		}
	}
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, 0, len(missing))
	for pfx := range missing {
		names = append(names, pfx)
	}
	sort.Strings(names)
	return fmt.Errorf("undeclared prefixes in where-clause: %v", names)
}

// removeChild implements container: the root accepts losing its
// where-clause, ending any removal cascade. Query-scoped filters detach
// here as well.
func (q *Query) removeChild(child any) bool {
	switch v := child.(type) {
	case Pattern:
		if q.Where == v {
			q.Where = nil
			return true
		}
	case *Filter:
		for i, f := range q.Filters {
			if f == v {
				q.Filters = append(q.Filters[:i], q.Filters[i+1:]...)
				return true
			}
		}
	}
	return false
}

// replaceChild implements container for sequence collapse.
func (q *Query) replaceChild(old, new Pattern) bool {
	if q.Where == old {
		new.setParent(q)
		q.Where = new
		return true
	}
	return false
}
