package filterexpr

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Parse converts a filter expression string into a Node tree. The grammar
// covered is deliberately small: variable comparisons against literals or
// variables, REGEX(STR(?v), "...") calls, &&/|| combinations of the
// above, and ! negation. Expressions outside that subset fail with an
// error; the pattern model keeps carrying them as opaque text.
func Parse(expression string) (Node, error) {
	return defaultParser.parse(strings.TrimSpace(expression))
}

var defaultParser = &fallbackParser{
	comparison: regexp.MustCompile(`^(\?[a-zA-Z0-9_]+)\s*(<=|>=|!=|=|<|>)\s*(.+)$`),
	regexCall: regexp.MustCompile(
		`(?i)^REGEX\s*\(\s*STR\s*\(\s*(\?[a-zA-Z0-9_]+)\s*\)\s*,\s*"([^"]*)"\s*(?:,\s*"([^"]*)"\s*)?\)$`),
	number: regexp.MustCompile(`^\d+(\.\d*)?$`),
}

type fallbackParser struct {
	comparison *regexp.Regexp
	regexCall  *regexp.Regexp
	number     *regexp.Regexp
}

func (p *fallbackParser) parse(expression string) (Node, error) {
	// Conjunction and disjunction split before anything else so each
	// operand re-enters the parser on its own.
	if strings.Contains(expression, "&&") {
		return p.parseJoin(expression, "&&", And)
	}
	if strings.Contains(expression, "||") {
		return p.parseJoin(expression, "||", Or)
	}

	if m := p.regexCall.FindStringSubmatch(expression); m != nil {
		args := []Node{Str(&Variable{Name: m[1]}), &Literal{Value: m[2], Type: String}}
		if m[3] != "" {
			args = append(args, &Literal{Value: m[3], Type: String})
		}
		return &Call{Function: "REGEX", Arguments: args}, nil
	}

	if m := p.comparison.FindStringSubmatch(expression); m != nil {
		return p.parseComparison(m[1], m[2], strings.TrimSpace(m[3]))
	}

	if strings.HasPrefix(expression, "!") {
		operand, err := p.parse(strings.TrimSpace(expression[1:]))
		if err != nil {
			return nil, err
		}
		return Not(operand), nil
	}

	return nil, fmt.Errorf("could not parse filter expression: %q", expression)
}

func (p *fallbackParser) parseJoin(expression, sep string, join func(...Node) Node) (Node, error) {
	parts := strings.Split(expression, sep)
	nodes := make([]Node, 0, len(parts))
	for _, part := range parts {
		node, err := p.parse(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return join(nodes...), nil
}

func (p *fallbackParser) parseComparison(varName, op, value string) (Node, error) {
	left := &Variable{Name: varName}
	right := p.parseOperand(value)

	switch op {
	case "=":
		return Equals(left, right), nil
	case "!=":
		return NotEquals(left, right), nil
	case "<":
		return Less(left, right), nil
	case ">":
		return Greater(left, right), nil
	case "<=":
		return LessEqual(left, right), nil
	case ">=":
		return GreaterEqual(left, right), nil
	}
	return nil, fmt.Errorf("unsupported comparison operator: %q", op)
}

func (p *fallbackParser) parseOperand(value string) Node {
	switch {
	case strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") && len(value) >= 2:
		return &Literal{Value: value[1 : len(value)-1], Type: String}
	case strings.HasPrefix(value, "?"):
		return &Variable{Name: value}
	case p.number.MatchString(value):
		if strings.Contains(value, ".") {
			f, _ := strconv.ParseFloat(value, 64)
			return &Literal{Value: f, Type: Number}
		}
		n, _ := strconv.Atoi(value)
		return &Literal{Value: n, Type: Number}
	case strings.EqualFold(value, "true"), strings.EqualFold(value, "false"):
		return &Literal{Value: strings.EqualFold(value, "true"), Type: Boolean}
	default:
		// Unquoted free text is treated as a string literal.
		return &Literal{Value: value, Type: String}
	}
}
