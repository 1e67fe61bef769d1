package expression

import (
	"fmt"
)

// Expression is a parsed, reusable `if:` expression
type Expression struct {
	Source string
	Root   Node
}

// Parse compiles src. Errors carry the EXPRESSION_SYNTAX code.
func Parse(src string) (*Expression, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, tokens: tokens}
	if p.peek().Kind == TokenEOF {
		return nil, syntaxError(src, 0, "empty expression")
	}
	root, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.Kind != TokenEOF {
		return nil, syntaxError(src, tok.Pos, fmt.Sprintf("unexpected %s", tok))
	}
	return &Expression{Source: src, Root: root}, nil
}

// MustParse is Parse for expressions known to be valid
func MustParse(src string) *Expression {
	expr, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return expr
}

// Evaluate reports the truthiness of the expression against env
func (e *Expression) Evaluate(env Lookup) bool {
	return e.Root.Eval(env).Truthy()
}

func (e *Expression) String() string {
	return e.Root.String()
}

// Evaluate parses and evaluates src in one step
func Evaluate(src string, env Lookup) (bool, error) {
	expr, err := Parse(src)
	if err != nil {
		return false, err
	}
	return expr.Evaluate(env), nil
}

type parser struct {
	src    string
	tokens []Token
	pos    int
}

func (p *parser) peek() Token {
	return p.tokens[p.pos]
}

func (p *parser) advance() Token {
	tok := p.tokens[p.pos]
	if tok.Kind != TokenEOF {
		p.pos++
	}
	return tok
}

func (p *parser) parseOr() (Node, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokenOr {
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &LogicalNode{Op: TokenOr, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Node, error) {
	left, err := p.parseCompare()
	if err != nil {
		return nil, err
	}
	for p.peek().Kind == TokenAnd {
		p.advance()
		right, err := p.parseCompare()
		if err != nil {
			return nil, err
		}
		left = &LogicalNode{Op: TokenAnd, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseCompare() (Node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	switch op := p.peek().Kind; op {
	case TokenEquals, TokenNotEquals, TokenMatches, TokenNotMatches:
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if next := p.peek(); isComparison(next.Kind) {
			return nil, syntaxError(p.src, next.Pos, fmt.Sprintf("chained comparison %s", next.Kind))
		}
		return &CompareNode{Op: op, Left: left, Right: right}, nil
	}
	return left, nil
}

func (p *parser) parseUnary() (Node, error) {
	if p.peek().Kind == TokenNot {
		p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &NotNode{Operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Node, error) {
	tok := p.advance()
	switch tok.Kind {
	case TokenVariable:
		return &VariableNode{Name: tok.Value}, nil
	case TokenString:
		return &StringNode{Value: tok.Value}, nil
	case TokenNull:
		return &NullNode{}, nil
	case TokenPattern:
		re, err := compilePattern(tok.Value, tok.Flags)
		if err != nil {
			return nil, syntaxError(p.src, tok.Pos, fmt.Sprintf("invalid pattern %s: %v", tok, err))
		}
		return &PatternNode{Source: tok.Value, Flags: tok.Flags, re: re}, nil
	case TokenLParen:
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.advance(); closing.Kind != TokenRParen {
			return nil, syntaxError(p.src, closing.Pos, fmt.Sprintf("expected ) but found %s", closing))
		}
		return inner, nil
	}
	return nil, syntaxError(p.src, tok.Pos, fmt.Sprintf("unexpected %s", tok))
}

func isComparison(k TokenKind) bool {
	return k == TokenEquals || k == TokenNotEquals || k == TokenMatches || k == TokenNotMatches
}
