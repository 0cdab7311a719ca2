package parser

import (
	"strings"
)

// skipSpace advances past whitespace and # line comments.
func (p *parser) skipSpace() {
	for !p.eof() {
		switch c := p.input[p.pos]; {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			p.pos++
		case c == '#':
			for !p.eof() && p.input[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

// peekByte returns the next non-space byte without consuming it,
// or 0 at end of input.
func (p *parser) peekByte() byte {
	p.skipSpace()
	if p.eof() {
		return 0
	}
	return p.input[p.pos]
}

// consume advances past c if it is the next non-space byte.
func (p *parser) consume(c byte) bool {
	p.skipSpace()
	if p.eof() || p.input[p.pos] != c {
		return false
	}
	p.pos++
	return true
}

// matchKeyword consumes kw case-insensitively when the next token
// equals it. Keywords end at any non-identifier byte, so SELECT does
// not match SELECTED.
func (p *parser) matchKeyword(kw string) bool {
	p.skipSpace()
	end := p.pos + len(kw)
	if end > len(p.input) {
		return false
	}
	if !strings.EqualFold(p.input[p.pos:end], kw) {
		return false
	}
	if end < len(p.input) && isIdentByte(p.input[end]) {
		return false
	}
	p.pos = end
	return true
}

// peekKeyword reports whether the next token equals kw without
// consuming it.
func (p *parser) peekKeyword(kw string) bool {
	save := p.pos
	ok := p.matchKeyword(kw)
	p.pos = save
	return ok
}

// scanIdent consumes an identifier of letters, digits, underscores and
// hyphens starting at the current position. Returns "" when the input
// does not start with a letter or underscore.
func (p *parser) scanIdent() string {
	start := p.pos
	if p.eof() || !isIdentStart(p.input[p.pos]) {
		return ""
	}
	for !p.eof() && isIdentByte(p.input[p.pos]) {
		p.pos++
	}
	return p.input[start:p.pos]
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_'
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9' || c == '-'
}

// errHere builds a ParseError anchored at the current position.
func (p *parser) errHere(msg string) *ParseError {
	near := p.input[p.pos:]
	if len(near) > 24 {
		near = near[:24]
	}
	return &ParseError{Offset: p.pos, Near: strings.TrimSpace(near), Message: msg}
}

// parseVariable consumes ?name and returns it sigil included.
func (p *parser) parseVariable() (string, error) {
	p.skipSpace()
	if p.eof() || p.input[p.pos] != '?' {
		return "", p.errHere("expected variable")
	}
	p.pos++
	name := p.scanIdent()
	if name == "" {
		return "", p.errHere("expected variable name after ?")
	}
	return "?" + name, nil
}

// parseIRIRef consumes <iri> and returns it with the angle brackets.
func (p *parser) parseIRIRef() (string, error) {
	p.skipSpace()
	if p.eof() || p.input[p.pos] != '<' {
		return "", p.errHere("expected IRI")
	}
	end := strings.IndexByte(p.input[p.pos:], '>')
	if end < 0 {
		return "", p.errHere("unterminated IRI")
	}
	iri := p.input[p.pos : p.pos+end+1]
	p.pos += end + 1
	return iri, nil
}

// parseTerm consumes one term of a triple pattern. Subjects and
// predicates accept variables, IRIs and prefixed names; objects
// additionally accept literals.
func (p *parser) parseTerm(object bool) (string, error) {
	p.skipSpace()
	if p.eof() {
		return "", p.errHere("expected term")
	}
	switch c := p.input[p.pos]; {
	case c == '?':
		return p.parseVariable()
	case c == '<':
		return p.parseIRIRef()
	case c == '"' || c == '\'':
		if !object {
			return "", p.errHere("literal not allowed here")
		}
		return p.parseStringLiteral()
	case object && (c == '-' || c == '+' || c >= '0' && c <= '9'):
		return p.parseNumericLiteral()
	default:
		if object && p.matchKeyword("true") {
			return "true", nil
		}
		if object && p.matchKeyword("false") {
			return "false", nil
		}
		return p.parsePrefixedName()
	}
}

// parseStringLiteral consumes a quoted string, keeping the quotes and
// any trailing @lang or ^^datatype annotation in the lexical form.
func (p *parser) parseStringLiteral() (string, error) {
	quote := p.input[p.pos]
	start := p.pos
	p.pos++
	for !p.eof() {
		c := p.input[p.pos]
		if c == '\\' {
			p.pos += 2
			continue
		}
		if c == quote {
			p.pos++
			lit := p.input[start:p.pos]
			if quote == '\'' {
				lit = "\"" + lit[1:len(lit)-1] + "\""
			}
			return lit + p.scanLiteralSuffix(), nil
		}
		p.pos++
	}
	return "", p.errHere("unterminated string literal")
}

// scanLiteralSuffix consumes an optional @lang or ^^<iri>/^^prefixed
// annotation directly following a string literal.
func (p *parser) scanLiteralSuffix() string {
	if p.eof() {
		return ""
	}
	switch {
	case p.input[p.pos] == '@':
		start := p.pos
		p.pos++
		for !p.eof() && (isIdentByte(p.input[p.pos])) {
			p.pos++
		}
		return p.input[start:p.pos]
	case strings.HasPrefix(p.input[p.pos:], "^^"):
		p.pos += 2
		if !p.eof() && p.input[p.pos] == '<' {
			iri, err := p.parseIRIRef()
			if err != nil {
				return "^^"
			}
			return "^^" + iri
		}
		name, err := p.parsePrefixedName()
		if err != nil {
			return "^^"
		}
		return "^^" + name
	}
	return ""
}

func (p *parser) parseNumericLiteral() (string, error) {
	start := p.pos
	if p.input[p.pos] == '-' || p.input[p.pos] == '+' {
		p.pos++
	}
	digits := 0
	for !p.eof() && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
		digits++
	}
	if !p.eof() && p.input[p.pos] == '.' {
		p.pos++
		for !p.eof() && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
			p.pos++
			digits++
		}
	}
	if digits == 0 {
		p.pos = start
		return "", p.errHere("expected number")
	}
	return p.input[start:p.pos], nil
}

// parsePrefixedName consumes ns:local or :local.
func (p *parser) parsePrefixedName() (string, error) {
	start := p.pos
	ns := p.scanIdent()
	if p.eof() || p.input[p.pos] != ':' {
		p.pos = start
		return "", p.errHere("expected prefixed name")
	}
	p.pos++
	local := p.scanLocalName()
	if ns == "" && local == "" {
		p.pos = start
		return "", p.errHere("expected prefixed name")
	}
	return p.input[start:p.pos], nil
}

// scanLocalName consumes the local part of a prefixed name, which may
// contain dots between other characters but never ends with one: the
// final dot is the triple terminator.
func (p *parser) scanLocalName() string {
	start := p.pos
	for !p.eof() {
		c := p.input[p.pos]
		if isIdentByte(c) {
			p.pos++
			continue
		}
		if c == '.' && p.pos+1 < len(p.input) && isIdentByte(p.input[p.pos+1]) {
			p.pos++
			continue
		}
		break
	}
	return p.input[start:p.pos]
}
