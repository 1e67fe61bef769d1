package expression

import "fmt"

// TokenKind identifies a lexeme
type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenVariable
	TokenString
	TokenPattern
	TokenNull
	TokenEquals
	TokenNotEquals
	TokenMatches
	TokenNotMatches
	TokenAnd
	TokenOr
	TokenNot
	TokenLParen
	TokenRParen
)

var tokenNames = map[TokenKind]string{
	TokenEOF:        "end of expression",
	TokenVariable:   "variable",
	TokenString:     "string",
	TokenPattern:    "pattern",
	TokenNull:       "null",
	TokenEquals:     "==",
	TokenNotEquals:  "!=",
	TokenMatches:    "=~",
	TokenNotMatches: "!~",
	TokenAnd:        "&&",
	TokenOr:         "||",
	TokenNot:        "!",
	TokenLParen:     "(",
	TokenRParen:     ")",
}

func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// Token is a lexeme with its byte offset in the source
type Token struct {
	Kind  TokenKind
	Value string
	// Flags holds regex flags for TokenPattern
	Flags string
	Pos   int
}

func (t Token) String() string {
	switch t.Kind {
	case TokenVariable:
		return "$" + t.Value
	case TokenString:
		return fmt.Sprintf("%q", t.Value)
	case TokenPattern:
		return "/" + t.Value + "/" + t.Flags
	default:
		return t.Kind.String()
	}
}
