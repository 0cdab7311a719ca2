package parser

import (
	"strings"
)

// parseHavingConstraint recognizes the parenthesized constraint after
// HAVING and rebuilds it as canonical text: a single comparison stays
// bare, terms joined by AND or OR are each parenthesized, and
// aggregate sub-terms render as FUNC(arg).
func (p *parser) parseHavingConstraint() (string, error) {
	if !p.consume('(') {
		return "", p.errHere("expected ( after HAVING")
	}
	text, err := p.parseBoolOr()
	if err != nil {
		return "", err
	}
	if !p.consume(')') {
		return "", p.errHere("expected ) after HAVING constraint")
	}
	return text, nil
}

func (p *parser) parseBoolOr() (string, error) {
	first, err := p.parseBoolAnd()
	if err != nil {
		return "", err
	}
	parts := []string{first}
	for p.matchKeyword("OR") || p.matchOp("||") {
		next, err := p.parseBoolAnd()
		if err != nil {
			return "", err
		}
		parts = append(parts, next)
	}
	return joinConstraint(parts, " OR "), nil
}

func (p *parser) parseBoolAnd() (string, error) {
	first, err := p.parseBoolPrimary()
	if err != nil {
		return "", err
	}
	parts := []string{first}
	for p.matchKeyword("AND") || p.matchOp("&&") {
		next, err := p.parseBoolPrimary()
		if err != nil {
			return "", err
		}
		parts = append(parts, next)
	}
	return joinConstraint(parts, " AND "), nil
}

// joinConstraint leaves a lone term bare and parenthesizes each term
// of a chain.
func joinConstraint(parts []string, sep string) string {
	if len(parts) == 1 {
		return parts[0]
	}
	wrapped := make([]string, len(parts))
	for i, part := range parts {
		wrapped[i] = "(" + part + ")"
	}
	return strings.Join(wrapped, sep)
}

// parseBoolPrimary recognizes a parenthesized sub-constraint or a bare
// comparison. Parentheses around a lone comparison are dropped; they
// come back only when the comparison joins an AND or OR chain.
func (p *parser) parseBoolPrimary() (string, error) {
	if p.peekByte() == '(' {
		p.consume('(')
		text, err := p.parseBoolOr()
		if err != nil {
			return "", err
		}
		if !p.consume(')') {
			return "", p.errHere("expected ) in HAVING constraint")
		}
		return text, nil
	}
	left, err := p.parseConstraintValue()
	if err != nil {
		return "", err
	}
	op, ok := p.scanCompareOp()
	if !ok {
		return "", p.errHere("expected comparison operator")
	}
	right, err := p.parseConstraintValue()
	if err != nil {
		return "", err
	}
	return left + " " + op + " " + right, nil
}

// parseConstraintValue recognizes an aggregate call, a variable, a
// number or a string literal.
func (p *parser) parseConstraintValue() (string, error) {
	p.skipSpace()
	if p.eof() {
		return "", p.errHere("expected value in HAVING constraint")
	}
	switch c := p.input[p.pos]; {
	case c == '?':
		return p.parseVariable()
	case c == '"' || c == '\'':
		return p.parseStringLiteral()
	case c == '-' || c == '+' || c >= '0' && c <= '9':
		return p.parseNumericLiteral()
	default:
		save := p.pos
		fn := strings.ToUpper(p.scanIdent())
		if !aggregateFunctions[fn] {
			p.pos = save
			return "", p.errHere("expected aggregate function, variable or literal")
		}
		p.skipSpace()
		if !p.consume('(') {
			return "", p.errHere("expected ( after aggregate function")
		}
		distinct := p.matchKeyword("DISTINCT")
		p.skipSpace()
		var arg string
		if p.consume('*') {
			arg = "*"
		} else {
			v, err := p.parseVariable()
			if err != nil {
				return "", err
			}
			arg = v
		}
		if !p.consume(')') {
			return "", p.errHere("expected ) after aggregate argument")
		}
		if distinct {
			return fn + "(DISTINCT " + arg + ")", nil
		}
		return fn + "(" + arg + ")", nil
	}
}

// scanCompareOp consumes one of <= >= != = < >.
func (p *parser) scanCompareOp() (string, bool) {
	p.skipSpace()
	for _, op := range []string{"<=", ">=", "!=", "=", "<", ">"} {
		if strings.HasPrefix(p.input[p.pos:], op) {
			p.pos += len(op)
			return op, true
		}
	}
	return "", false
}

// matchOp consumes a fixed operator token such as || or &&.
func (p *parser) matchOp(op string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.input[p.pos:], op) {
		p.pos += len(op)
		return true
	}
	return false
}
