package expression

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/cirules/pkg/errors"
)

const patternFlags = "ims"

type lexer struct {
	src    string
	pos    int
	tokens []Token
}

// Lex splits an expression into tokens. The last token is always TokenEOF.
func Lex(src string) ([]Token, error) {
	l := &lexer{src: src}
	for {
		l.skipSpace()
		if l.pos >= len(l.src) {
			l.tokens = append(l.tokens, Token{Kind: TokenEOF, Pos: l.pos})
			return l.tokens, nil
		}
		if err := l.next(); err != nil {
			return nil, err
		}
	}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		switch l.src[l.pos] {
		case ' ', '\t', '\n', '\r':
			l.pos++
		default:
			return
		}
	}
}

func (l *lexer) emit(kind TokenKind, value string, start int) {
	l.tokens = append(l.tokens, Token{Kind: kind, Value: value, Pos: start})
}

func (l *lexer) next() error {
	start := l.pos
	rest := l.src[l.pos:]

	for _, op := range []struct {
		text string
		kind TokenKind
	}{
		{"==", TokenEquals},
		{"!=", TokenNotEquals},
		{"=~", TokenMatches},
		{"!~", TokenNotMatches},
		{"&&", TokenAnd},
		{"||", TokenOr},
	} {
		if strings.HasPrefix(rest, op.text) {
			l.pos += len(op.text)
			l.emit(op.kind, op.text, start)
			return nil
		}
	}

	switch c := rest[0]; {
	case c == '!':
		l.pos++
		l.emit(TokenNot, "!", start)
	case c == '(':
		l.pos++
		l.emit(TokenLParen, "(", start)
	case c == ')':
		l.pos++
		l.emit(TokenRParen, ")", start)
	case c == '$':
		return l.variable()
	case c == '"' || c == '\'':
		return l.str(c)
	case c == '/':
		return l.pattern()
	case strings.HasPrefix(rest, "null") && !isNameByte(at(rest, 4)):
		l.pos += 4
		l.emit(TokenNull, "null", start)
	default:
		return syntaxError(l.src, start, fmt.Sprintf("unexpected character %q", c))
	}
	return nil
}

func (l *lexer) variable() error {
	start := l.pos
	l.pos++ // $
	braced := l.pos < len(l.src) && l.src[l.pos] == '{'
	if braced {
		l.pos++
	}
	nameStart := l.pos
	for l.pos < len(l.src) && isNameByte(l.src[l.pos]) {
		l.pos++
	}
	name := l.src[nameStart:l.pos]
	if name == "" {
		return syntaxError(l.src, start, "variable name expected after $")
	}
	if braced {
		if l.pos >= len(l.src) || l.src[l.pos] != '}' {
			return syntaxError(l.src, start, "unterminated ${ reference")
		}
		l.pos++
	}
	l.emit(TokenVariable, name, start)
	return nil
}

func (l *lexer) str(quote byte) error {
	start := l.pos
	end := strings.IndexByte(l.src[l.pos+1:], quote)
	if end < 0 {
		return syntaxError(l.src, start, "unterminated string")
	}
	value := l.src[l.pos+1 : l.pos+1+end]
	l.pos += end + 2
	l.emit(TokenString, value, start)
	return nil
}

func (l *lexer) pattern() error {
	start := l.pos
	i := l.pos + 1
	for i < len(l.src) && l.src[i] != '/' {
		if l.src[i] == '\\' {
			i++
		}
		i++
	}
	if i >= len(l.src) {
		return syntaxError(l.src, start, "unterminated pattern")
	}
	body := l.src[l.pos+1 : i]
	if body == "" {
		return syntaxError(l.src, start, "empty pattern")
	}
	i++ // closing slash
	flagStart := i
	for i < len(l.src) && strings.IndexByte(patternFlags, l.src[i]) >= 0 {
		i++
	}
	if i < len(l.src) && isNameByte(l.src[i]) {
		return syntaxError(l.src, i, fmt.Sprintf("unknown pattern flag %q", l.src[i]))
	}
	l.pos = i
	l.tokens = append(l.tokens, Token{Kind: TokenPattern, Value: body, Flags: l.src[flagStart:i], Pos: start})
	return nil
}

func isNameByte(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9')
}

func at(s string, i int) byte {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func syntaxError(src string, pos int, msg string) error {
	return errors.Newf(errors.ErrExpressionSyntax, "invalid expression syntax at position %d: %s", pos, msg).
		WithDetail("expression", src).
		WithDetail("position", pos)
}
