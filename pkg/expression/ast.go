package expression

import (
	"fmt"
	"regexp"
)

// Lookup resolves variable references. ok is false for undefined variables.
type Lookup interface {
	Lookup(name string) (value string, ok bool)
}

// Vars is a plain map Lookup
type Vars map[string]string

// Lookup implements Lookup
func (v Vars) Lookup(name string) (string, bool) {
	value, ok := v[name]
	return value, ok
}

// Node is an expression tree node
type Node interface {
	Eval(env Lookup) Value
	String() string
}

// VariableNode is $NAME
type VariableNode struct {
	Name string
}

func (n *VariableNode) Eval(env Lookup) Value {
	if env == nil {
		return undefinedValue()
	}
	if value, ok := env.Lookup(n.Name); ok {
		return stringValue(value)
	}
	return undefinedValue()
}

func (n *VariableNode) String() string { return "$" + n.Name }

// StringNode is a quoted literal
type StringNode struct {
	Value string
}

func (n *StringNode) Eval(Lookup) Value { return stringValue(n.Value) }
func (n *StringNode) String() string    { return fmt.Sprintf("%q", n.Value) }

// PatternNode is /regex/flags, compiled at parse time
type PatternNode struct {
	Source string
	Flags  string
	re     *regexp.Regexp
}

func (n *PatternNode) Eval(Lookup) Value {
	return patternValue(n.String(), n.re)
}

func (n *PatternNode) String() string { return "/" + n.Source + "/" + n.Flags }

// NullNode is the null literal
type NullNode struct{}

func (n *NullNode) Eval(Lookup) Value { return nullValue() }
func (n *NullNode) String() string    { return "null" }

// NotNode negates the truthiness of its operand
type NotNode struct {
	Operand Node
}

func (n *NotNode) Eval(env Lookup) Value {
	return boolValue(!n.Operand.Eval(env).Truthy())
}

func (n *NotNode) String() string { return "!" + n.Operand.String() }

// CompareNode is one of ==, !=, =~, !~
type CompareNode struct {
	Op          TokenKind
	Left, Right Node
}

func (n *CompareNode) Eval(env Lookup) Value {
	left, right := n.Left.Eval(env), n.Right.Eval(env)
	switch n.Op {
	case TokenEquals:
		return boolValue(equal(left, right))
	case TokenNotEquals:
		return boolValue(!equal(left, right))
	case TokenMatches:
		return boolValue(match(left, right))
	case TokenNotMatches:
		return boolValue(!match(left, right))
	}
	return boolValue(false)
}

func (n *CompareNode) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}

// LogicalNode is && or ||. The right side is only evaluated when needed.
type LogicalNode struct {
	Op          TokenKind
	Left, Right Node
}

func (n *LogicalNode) Eval(env Lookup) Value {
	left := n.Left.Eval(env).Truthy()
	if n.Op == TokenAnd {
		if !left {
			return boolValue(false)
		}
		return boolValue(n.Right.Eval(env).Truthy())
	}
	if left {
		return boolValue(true)
	}
	return boolValue(n.Right.Eval(env).Truthy())
}

func (n *LogicalNode) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left, n.Op, n.Right)
}
