package parser

import (
	"strings"

	"github.com/forgeql/sparqlforge/internal/pattern"
)

type entryKind int

const (
	entryBGP entryKind = iota
	entryUnion
	entryOptional
	entryGroup
	entrySubQuery
	entryFilter
)

// entry records one event inside a braced scope, in textual order.
// Keeping the order lets the built tree mirror the query layout
// instead of forcing every scope into a fixed pattern sequence.
type entry struct {
	kind    entryKind
	triples []*pattern.TriplePattern
	filter  string
	left    []entry // union branches
	right   []entry
	inner   []entry // optional and group bodies
	sub     *pattern.Query
}

// parseScope consumes the body of a braced scope up to and including
// the closing brace. The opening brace has already been consumed.
func (p *parser) parseScope() ([]entry, error) {
	var entries []entry
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errHere("unterminated group: expected }")
		}
		if p.consume('}') {
			return entries, nil
		}
		switch {
		case p.peekByte() == '{':
			p.consume('{')
			if p.peekKeyword("SELECT") || p.peekKeyword("PREFIX") {
				sub, err := p.parseSelectQuery()
				if err != nil {
					return nil, err
				}
				if !p.consume('}') {
					return nil, p.errHere("expected } after subquery")
				}
				entries = append(entries, entry{kind: entrySubQuery, sub: sub})
				continue
			}
			left, err := p.parseScope()
			if err != nil {
				return nil, err
			}
			e := entry{kind: entryGroup, inner: left}
			for p.matchKeyword("UNION") {
				if !p.consume('{') {
					return nil, p.errHere("expected { after UNION")
				}
				right, err := p.parseScope()
				if err != nil {
					return nil, err
				}
				if e.kind == entryUnion {
					e = entry{kind: entryUnion, left: []entry{e}, right: right}
				} else {
					e = entry{kind: entryUnion, left: e.inner, right: right}
				}
			}
			entries = append(entries, e)
		case p.peekKeyword("OPTIONAL"):
			p.matchKeyword("OPTIONAL")
			if !p.consume('{') {
				return nil, p.errHere("expected { after OPTIONAL")
			}
			inner, err := p.parseScope()
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry{kind: entryOptional, inner: inner})
		case p.peekKeyword("FILTER"):
			p.matchKeyword("FILTER")
			expr, err := p.parseFilterText()
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry{kind: entryFilter, filter: expr})
		default:
			t, err := p.parseTriple()
			if err != nil {
				return nil, err
			}
			if n := len(entries); n > 0 && entries[n-1].kind == entryBGP {
				entries[n-1].triples = append(entries[n-1].triples, t)
			} else {
				entries = append(entries, entry{kind: entryBGP, triples: []*pattern.TriplePattern{t}})
			}
		}
	}
}

// parseTriple consumes subject predicate object followed by the
// terminating dot.
func (p *parser) parseTriple() (*pattern.TriplePattern, error) {
	s, err := p.parseTerm(false)
	if err != nil {
		return nil, err
	}
	pr, err := p.parseTerm(false)
	if err != nil {
		return nil, err
	}
	o, err := p.parseTerm(true)
	if err != nil {
		return nil, err
	}
	if !p.consume('.') {
		return nil, p.errHere("expected . after triple pattern")
	}
	return pattern.NewTriplePattern(s, pr, o), nil
}

// parseFilterText captures the parenthesized constraint following
// FILTER as normalized text. Parentheses inside string literals do not
// count toward nesting.
func (p *parser) parseFilterText() (string, error) {
	if !p.consume('(') {
		return "", p.errHere("expected ( after FILTER")
	}
	start := p.pos
	depth := 1
	for !p.eof() {
		c := p.input[p.pos]
		switch c {
		case '"', '\'':
			if err := p.skipQuoted(c); err != nil {
				return "", err
			}
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				expr := normalizeSpace(p.input[start:p.pos])
				p.pos++
				if expr == "" {
					return "", p.errHere("empty FILTER constraint")
				}
				return expr, nil
			}
		}
		p.pos++
	}
	return "", p.errHere("unterminated FILTER constraint")
}

func (p *parser) skipQuoted(quote byte) error {
	p.pos++
	for !p.eof() {
		switch p.input[p.pos] {
		case '\\':
			p.pos += 2
		case quote:
			p.pos++
			return nil
		default:
			p.pos++
		}
	}
	return p.errHere("unterminated string literal")
}

// normalizeSpace collapses whitespace runs outside string literals to
// a single space.
func normalizeSpace(s string) string {
	var b strings.Builder
	var quote byte
	space := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch {
		case c == '"' || c == '\'':
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			quote = c
			b.WriteByte(c)
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			space = true
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteByte(c)
		}
	}
	return strings.TrimSpace(b.String())
}

// buildScope converts a scope's entries into patterns. Filters attach
// to the basic graph pattern built immediately before them; filters
// with no preceding triples in the scope are returned for the caller
// to place, either on the enclosing group or on the query itself.
func (p *parser) buildScope(entries []entry) (pattern.Pattern, []*pattern.Filter) {
	var items []pattern.Pattern
	var loose []*pattern.Filter
	for _, e := range entries {
		switch e.kind {
		case entryBGP:
			items = append(items, pattern.NewBGP(e.triples...))
		case entryFilter:
			f := pattern.NewFilter(e.filter)
			if n := len(items); n > 0 {
				if bgp, ok := items[n-1].(*pattern.BGP); ok {
					bgp.Add(f)
					continue
				}
			}
			loose = append(loose, f)
		case entryUnion:
			items = append(items, pattern.NewUnion(p.buildBranch(e.left), p.buildBranch(e.right)))
		case entryOptional:
			items = append(items, pattern.NewOptional(p.buildBranch(e.inner)))
		case entrySubQuery:
			items = append(items, pattern.NewSubQuery(e.sub))
		case entryGroup:
			inner, innerLoose := p.buildScope(e.inner)
			if p.opts.PreserveNesting {
				g := pattern.NewGroup(inner)
				for _, f := range innerLoose {
					g.Add(f)
				}
				items = append(items, g)
				continue
			}
			// Braces carry no structure of their own here, so the
			// group dissolves into its contents and {{X}} collapses
			// to X.
			items = append(items, inner)
			loose = append(loose, innerLoose...)
		}
	}
	return collapseScope(items), loose
}

// buildBranch builds one side of a union or the body of an optional.
// Loose filters inside the branch wrap it in a group so the constraint
// keeps its scope.
func (p *parser) buildBranch(entries []entry) pattern.Pattern {
	inner, loose := p.buildScope(entries)
	if len(loose) == 0 {
		return inner
	}
	if bgp, ok := inner.(*pattern.BGP); ok {
		for _, f := range loose {
			bgp.Add(f)
		}
		return bgp
	}
	g := pattern.NewGroup(inner)
	for _, f := range loose {
		g.Add(f)
	}
	return g
}

func collapseScope(items []pattern.Pattern) pattern.Pattern {
	switch len(items) {
	case 0:
		return pattern.NewBGP()
	case 1:
		return items[0]
	default:
		return pattern.NewSequence(items...)
	}
}
