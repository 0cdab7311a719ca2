package parser

import (
	"strconv"
	"strings"

	"github.com/forgeql/sparqlforge/internal/pattern"
)

// Options controls how the parser shapes the resulting tree.
type Options struct {
	// PreserveNesting keeps every inner brace pair as an explicit
	// Group. When false, redundant nesting such as {{X}} collapses
	// to X and braces carry no structure of their own.
	PreserveNesting bool
}

// Option mutates Options.
type Option func(*Options)

// PreserveNesting keeps syntactic grouping braces in the built tree.
func PreserveNesting() Option {
	return func(o *Options) { o.PreserveNesting = true }
}

// Parse recognizes a complete SELECT query and builds its pattern tree.
// Recognition is all-or-nothing: on any grammar violation the returned
// query is nil and the error is a ParseError. A GROUP BY query that
// projects an ungrouped, unaggregated variable fails with a
// GroupingValidationError.
func Parse(input string, opts ...Option) (*pattern.Query, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	p := &parser{input: input, opts: o}
	q, err := p.parseSelectQuery()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errHere("unexpected trailing input")
	}
	return q, nil
}

type parser struct {
	input string
	pos   int
	opts  Options
}

// parseSelectQuery recognizes prologue, SELECT clause, WHERE block and
// solution modifiers. It stops after the last modifier it can consume,
// leaving trailing input to the caller; subqueries reuse it verbatim.
func (p *parser) parseSelectQuery() (*pattern.Query, error) {
	q := pattern.NewQuery()

	prefixes, err := p.parsePrologue()
	if err != nil {
		return nil, err
	}
	if len(prefixes) > 0 {
		if err := q.SetPrefixes(prefixes); err != nil {
			return nil, err
		}
	}

	if !p.matchKeyword("SELECT") {
		return nil, p.errHere("expected SELECT")
	}
	if p.matchKeyword("DISTINCT") {
		q.SetDistinct(true)
	}
	if err := p.parseProjection(q); err != nil {
		return nil, err
	}

	if p.matchKeyword("FROM") {
		graph, err := p.parseIRIRef()
		if err != nil {
			return nil, err
		}
		q.Graph = strings.Trim(graph, "<>")
	}

	if !p.matchKeyword("WHERE") {
		return nil, p.errHere("expected WHERE")
	}
	p.skipSpace()
	if !p.consume('{') {
		return nil, p.errHere("expected { after WHERE")
	}
	entries, err := p.parseScope()
	if err != nil {
		return nil, err
	}
	where, loose := p.buildScope(entries)
	q.SetWhere(where)
	for _, f := range loose {
		if err := q.Add(f); err != nil {
			return nil, err
		}
	}

	if err := p.parseSolutionModifiers(q); err != nil {
		return nil, err
	}
	if err := validateGrouping(q); err != nil {
		return nil, err
	}
	return q, nil
}

// parsePrologue consumes zero or more PREFIX declarations.
func (p *parser) parsePrologue() (map[string]string, error) {
	prefixes := map[string]string{}
	for p.matchKeyword("PREFIX") {
		p.skipSpace()
		name := p.scanIdent()
		p.skipSpace()
		if !p.consume(':') {
			return nil, p.errHere("expected : in PREFIX declaration")
		}
		iri, err := p.parseIRIRef()
		if err != nil {
			return nil, err
		}
		prefixes[name] = strings.Trim(iri, "<>")
	}
	return prefixes, nil
}

// parseProjection fills the query's projection variables and aggregate
// terms. A bare * projects everything; otherwise at least one variable
// or aggregate term is required.
func (p *parser) parseProjection(q *pattern.Query) error {
	p.skipSpace()
	if p.consume('*') {
		q.Projection = []string{"*"}
		return nil
	}
	var vars []string
	for {
		p.skipSpace()
		switch {
		case p.peekByte() == '?':
			v, err := p.parseVariable()
			if err != nil {
				return err
			}
			vars = append(vars, v)
		case p.peekByte() == '(':
			agg, err := p.parseAggregateTerm()
			if err != nil {
				return err
			}
			q.AddAggregation(agg)
		default:
			if len(vars) == 0 && len(q.Aggregations) == 0 {
				return p.errHere("expected projection variable, aggregate term or *")
			}
			q.Projection = vars
			return nil
		}
	}
}

// parseAggregateTerm recognizes (FUNC([DISTINCT] ?var|*) AS ?alias).
func (p *parser) parseAggregateTerm() (*pattern.Aggregation, error) {
	if !p.consume('(') {
		return nil, p.errHere("expected ( before aggregate term")
	}
	p.skipSpace()
	fn := strings.ToUpper(p.scanIdent())
	if !aggregateFunctions[fn] {
		return nil, p.errHere("expected aggregate function")
	}
	p.skipSpace()
	if !p.consume('(') {
		return nil, p.errHere("expected ( after aggregate function")
	}
	distinct := p.matchKeyword("DISTINCT")
	p.skipSpace()
	var arg string
	if p.consume('*') {
		arg = "*"
	} else {
		v, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		arg = v
	}
	p.skipSpace()
	if !p.consume(')') {
		return nil, p.errHere("expected ) after aggregate argument")
	}
	if !p.matchKeyword("AS") {
		return nil, p.errHere("expected AS in aggregate term")
	}
	p.skipSpace()
	alias, err := p.parseVariable()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.consume(')') {
		return nil, p.errHere("expected ) after aggregate term")
	}
	return pattern.NewAggregation(fn, arg, alias, distinct), nil
}

var aggregateFunctions = map[string]bool{
	"COUNT":  true,
	"SUM":    true,
	"AVG":    true,
	"MIN":    true,
	"MAX":    true,
	"SAMPLE": true,
}

// parseSolutionModifiers consumes GROUP BY, HAVING, ORDER BY, LIMIT
// and OFFSET clauses in any order.
func (p *parser) parseSolutionModifiers(q *pattern.Query) error {
	for {
		switch {
		case p.matchKeyword("GROUP"):
			if !p.matchKeyword("BY") {
				return p.errHere("expected BY after GROUP")
			}
			vars, err := p.parseVariableList()
			if err != nil {
				return err
			}
			q.AddGroupBy(vars)
		case p.matchKeyword("HAVING"):
			expr, err := p.parseHavingConstraint()
			if err != nil {
				return err
			}
			q.AddHaving(expr)
		case p.matchKeyword("ORDER"):
			if !p.matchKeyword("BY") {
				return p.errHere("expected BY after ORDER")
			}
			vars, asc, err := p.parseOrderTerms()
			if err != nil {
				return err
			}
			q.AddOrderBy(vars, asc)
		case p.matchKeyword("LIMIT"):
			n, err := p.parseInteger()
			if err != nil {
				return err
			}
			q.SetLimit(n)
		case p.matchKeyword("OFFSET"):
			n, err := p.parseInteger()
			if err != nil {
				return err
			}
			q.SetOffset(n)
		default:
			return nil
		}
	}
}

func (p *parser) parseVariableList() ([]string, error) {
	var vars []string
	for {
		p.skipSpace()
		if p.peekByte() != '?' {
			if len(vars) == 0 {
				return nil, p.errHere("expected variable")
			}
			return vars, nil
		}
		v, err := p.parseVariable()
		if err != nil {
			return nil, err
		}
		vars = append(vars, v)
	}
}

// parseOrderTerms recognizes a list of ?var, ASC(?var) and DESC(?var).
func (p *parser) parseOrderTerms() ([]string, []bool, error) {
	var vars []string
	var asc []bool
	for {
		p.skipSpace()
		switch {
		case p.peekByte() == '?':
			v, err := p.parseVariable()
			if err != nil {
				return nil, nil, err
			}
			vars = append(vars, v)
			asc = append(asc, true)
		case p.peekKeyword("ASC"), p.peekKeyword("DESC"):
			descending := p.matchKeyword("DESC")
			if !descending {
				p.matchKeyword("ASC")
			}
			p.skipSpace()
			if !p.consume('(') {
				return nil, nil, p.errHere("expected ( after sort direction")
			}
			v, err := p.parseVariable()
			if err != nil {
				return nil, nil, err
			}
			p.skipSpace()
			if !p.consume(')') {
				return nil, nil, p.errHere("expected ) after sort variable")
			}
			vars = append(vars, v)
			asc = append(asc, !descending)
		default:
			if len(vars) == 0 {
				return nil, nil, p.errHere("expected sort term")
			}
			return vars, asc, nil
		}
	}
}

func (p *parser) parseInteger() (int, error) {
	p.skipSpace()
	start := p.pos
	for !p.eof() && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == start {
		return 0, p.errHere("expected integer")
	}
	n, err := strconv.Atoi(p.input[start:p.pos])
	if err != nil {
		return 0, p.errHere("invalid integer")
	}
	return n, nil
}

// validateGrouping rejects GROUP BY queries that project a variable
// which is neither a group key nor an aggregate alias.
func validateGrouping(q *pattern.Query) error {
	if q.GroupBy == nil || q.IsWildcard() {
		return nil
	}
	keys := map[string]bool{}
	for _, v := range q.GroupBy.Variables {
		keys[v] = true
	}
	for _, a := range q.Aggregations {
		keys[a.Alias] = true
	}
	for _, v := range q.Projection {
		if !keys[v] {
			return &GroupingValidationError{Variable: v}
		}
	}
	return nil
}
