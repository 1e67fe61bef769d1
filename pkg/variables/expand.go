package variables

import (
	"regexp"
)

// $NAME, ${NAME} and %NAME%
var referencePattern = regexp.MustCompile(`\$([a-zA-Z_][a-zA-Z0-9_]*)|\$\{([a-zA-Z_][a-zA-Z0-9_]*)\}|%([a-zA-Z_][a-zA-Z0-9_]*)%`)

// Lookup resolves a variable name
type Lookup interface {
	Lookup(name string) (string, bool)
}

// ExpandExisting replaces references to defined variables in s. References
// to undefined variables are kept verbatim, so a literal `$` in a path
// survives expansion.
func ExpandExisting(s string, vars Lookup) string {
	if vars == nil {
		return s
	}
	return referencePattern.ReplaceAllStringFunc(s, func(ref string) string {
		groups := referencePattern.FindStringSubmatch(ref)
		name := groups[1] + groups[2] + groups[3]
		if value, ok := vars.Lookup(name); ok {
			return value
		}
		return ref
	})
}

// ExpandAll applies ExpandExisting to every entry
func ExpandAll(values []string, vars Lookup) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = ExpandExisting(v, vars)
	}
	return out
}
