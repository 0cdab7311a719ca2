// Package filterexpr models FILTER expressions as a small typed tree with
// SPARQL rendering, plus a deliberately narrow fallback parser for the
// expression strings carried around by the pattern model. The pattern
// model stores filter expressions as free-form text; this package is what
// a caller reaches for when it needs them in structured form.
package filterexpr

import (
	"fmt"
	"strings"
)

// Node is the closed set of filter expression variants.
//
// This is a sealed interface - only types in this package implement it.
type Node interface {
	exprNode()

	// ToSPARQL renders the node as SPARQL expression text.
	ToSPARQL() string
}

// ValueType distinguishes the literal families a filter can compare.
type ValueType int

const (
	String ValueType = iota
	Number
	Boolean
	URI
	Date
)

// BinaryOp is a binary operator in a filter expression.
type BinaryOp string

const (
	OpAnd          BinaryOp = "&&"
	OpOr           BinaryOp = "||"
	OpEquals       BinaryOp = "="
	OpNotEquals    BinaryOp = "!="
	OpLess         BinaryOp = "<"
	OpLessEqual    BinaryOp = "<="
	OpGreater      BinaryOp = ">"
	OpGreaterEqual BinaryOp = ">="
	OpPlus         BinaryOp = "+"
	OpMinus        BinaryOp = "-"
	OpMultiply     BinaryOp = "*"
	OpDivide       BinaryOp = "/"
	OpIn           BinaryOp = "IN"
)

// UnaryOp is a unary operator in a filter expression.
type UnaryOp string

const (
	OpNot      UnaryOp = "!"
	OpNegative UnaryOp = "-"
	OpPositive UnaryOp = "+"
)

// Variable references a query variable, sigil included.
type Variable struct {
	Name string
}

func (*Variable) exprNode() {}

func (v *Variable) ToSPARQL() string { return v.Name }

// Literal is a typed constant operand.
type Literal struct {
	Value       any
	Type        ValueType
	Datatype    string
	LanguageTag string
}

func (*Literal) exprNode() {}

func (l *Literal) ToSPARQL() string {
	switch l.Type {
	case String:
		s := fmt.Sprintf("%q", l.Value)
		if l.LanguageTag != "" {
			return s + "@" + l.LanguageTag
		}
		if l.Datatype != "" {
			return s + "^^<" + l.Datatype + ">"
		}
		return s
	case Boolean:
		return strings.ToLower(fmt.Sprintf("%v", l.Value))
	case URI:
		return fmt.Sprintf("<%v>", l.Value)
	case Date:
		return fmt.Sprintf("%q^^<http://www.w3.org/2001/XMLSchema#dateTime>", l.Value)
	default:
		return fmt.Sprintf("%v", l.Value)
	}
}

// Binary combines two operands with an operator. IN renders its right
// side as a parenthesized value list.
type Binary struct {
	Left  Node
	Op    BinaryOp
	Right Node
}

func (*Binary) exprNode() {}

func (b *Binary) ToSPARQL() string {
	if b.Op == OpIn {
		values := []Node{b.Right}
		if call, ok := b.Right.(*Call); ok && call.Function == listFunction {
			values = call.Arguments
		}
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = v.ToSPARQL()
		}
		return fmt.Sprintf("%s IN (%s)", b.Left.ToSPARQL(), strings.Join(parts, ", "))
	}
	return fmt.Sprintf("(%s %s %s)", b.Left.ToSPARQL(), b.Op, b.Right.ToSPARQL())
}

// Unary applies a prefix operator to one operand.
type Unary struct {
	Op      UnaryOp
	Operand Node
}

func (*Unary) exprNode() {}

func (u *Unary) ToSPARQL() string {
	return fmt.Sprintf("%s(%s)", u.Op, u.Operand.ToSPARQL())
}

// listFunction is the internal pseudo-function carrying IN value lists.
const listFunction = "List"

// Call is a function application. EXISTS and NOT EXISTS render their
// argument as a braced pattern rather than a parenthesized list.
type Call struct {
	Function  string
	Arguments []Node
}

func (*Call) exprNode() {}

func (c *Call) ToSPARQL() string {
	parts := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		parts[i] = a.ToSPARQL()
	}
	args := strings.Join(parts, ", ")
	if c.Function == "EXISTS" || c.Function == "NOT EXISTS" {
		return fmt.Sprintf("%s { %s }", c.Function, args)
	}
	return fmt.Sprintf("%s(%s)", c.Function, args)
}

// And folds operands into a right-nested conjunction.
func And(nodes ...Node) Node { return fold(OpAnd, nodes) }

// Or folds operands into a right-nested disjunction.
func Or(nodes ...Node) Node { return fold(OpOr, nodes) }

func fold(op BinaryOp, nodes []Node) Node {
	if len(nodes) == 0 {
		return nil
	}
	if len(nodes) == 1 {
		return nodes[0]
	}
	return &Binary{Left: nodes[0], Op: op, Right: fold(op, nodes[1:])}
}

// Not negates an operand.
func Not(operand Node) Node { return &Unary{Op: OpNot, Operand: operand} }

// Equals builds an equality comparison.
func Equals(left, right Node) Node { return &Binary{Left: left, Op: OpEquals, Right: right} }

// NotEquals builds an inequality comparison.
func NotEquals(left, right Node) Node { return &Binary{Left: left, Op: OpNotEquals, Right: right} }

// Less builds a less-than comparison.
func Less(left, right Node) Node { return &Binary{Left: left, Op: OpLess, Right: right} }

// Greater builds a greater-than comparison.
func Greater(left, right Node) Node { return &Binary{Left: left, Op: OpGreater, Right: right} }

// LessEqual builds a less-or-equal comparison.
func LessEqual(left, right Node) Node { return &Binary{Left: left, Op: OpLessEqual, Right: right} }

// GreaterEqual builds a greater-or-equal comparison.
func GreaterEqual(left, right Node) Node {
	return &Binary{Left: left, Op: OpGreaterEqual, Right: right}
}

// Regex builds a REGEX call with optional flags.
func Regex(text, pat Node, flags ...Node) Node {
	args := append([]Node{text, pat}, flags...)
	return &Call{Function: "REGEX", Arguments: args}
}

// Str wraps an operand in STR().
func Str(operand Node) Node { return &Call{Function: "STR", Arguments: []Node{operand}} }

// Exists builds an EXISTS test over a pattern snippet.
func Exists(patternText string) Node {
	return &Call{Function: "EXISTS", Arguments: []Node{&Literal{Value: patternText, Type: String}}}
}

// NotExists builds a NOT EXISTS test over a pattern snippet.
func NotExists(patternText string) Node {
	return &Call{Function: "NOT EXISTS", Arguments: []Node{&Literal{Value: patternText, Type: String}}}
}

// InList builds an IN membership test over a value list.
func InList(operand Node, values ...Node) Node {
	return &Binary{
		Left:  operand,
		Op:    OpIn,
		Right: &Call{Function: listFunction, Arguments: values},
	}
}
