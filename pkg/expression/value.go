package expression

import (
	"regexp"
	"strings"
)

// Kind classifies a runtime value
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindString
	KindPattern
	KindBool
)

// Value is the result of evaluating a node
type Value struct {
	Kind    Kind
	Str     string
	Bool    bool
	Pattern *regexp.Regexp
}

func undefinedValue() Value      { return Value{Kind: KindUndefined} }
func nullValue() Value           { return Value{Kind: KindNull} }
func stringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func boolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func patternValue(src string, re *regexp.Regexp) Value {
	return Value{Kind: KindPattern, Str: src, Pattern: re}
}

// Truthy reports the boolean reading of a value. Strings are true when not
// empty, whatever their content.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindString:
		return v.Str != ""
	case KindBool:
		return v.Bool
	case KindPattern:
		return true
	default:
		return false
	}
}

// String returns the textual form used by comparisons
func (v Value) String() string {
	switch v.Kind {
	case KindString, KindPattern:
		return v.Str
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

func (v Value) isNullish() bool {
	return v.Kind == KindUndefined || v.Kind == KindNull
}

func equal(left, right Value) bool {
	if left.Kind == KindNull || right.Kind == KindNull {
		return left.isNullish() && right.isNullish()
	}
	return left.String() == right.String()
}

// match applies right as a pattern to left. A right operand that is not a
// pattern is either parsed as `/re/flags` or matched literally.
func match(left, right Value) bool {
	if right.isNullish() {
		return false
	}
	re := right.Pattern
	if re == nil {
		var err error
		re, err = patternFromString(right.String())
		if err != nil {
			return false
		}
	}
	return re.MatchString(left.String())
}

// patternFromString compiles s when it is written as /re/flags and falls
// back to a literal substring pattern otherwise.
func patternFromString(s string) (*regexp.Regexp, error) {
	if body, flags, ok := splitPatternLiteral(s); ok {
		return compilePattern(body, flags)
	}
	return regexp.Compile(regexp.QuoteMeta(s))
}

func splitPatternLiteral(s string) (body, flags string, ok bool) {
	if len(s) < 3 || s[0] != '/' {
		return "", "", false
	}
	end := strings.LastIndexByte(s, '/')
	if end <= 1 {
		return "", "", false
	}
	flags = s[end+1:]
	for i := 0; i < len(flags); i++ {
		if strings.IndexByte(patternFlags, flags[i]) < 0 {
			return "", "", false
		}
	}
	return s[1:end], flags, true
}

func compilePattern(body, flags string) (*regexp.Regexp, error) {
	if flags != "" {
		body = "(?" + flags + ")" + body
	}
	return regexp.Compile(body)
}
