// Package expression implements the boolean language used by `rules:if`
// and `workflow:rules:if`.
//
// The grammar, from loosest to tightest binding:
//
//	expr    := and ( "||" and )*
//	and     := compare ( "&&" compare )*
//	compare := unary ( ( "==" | "!=" | "=~" | "!~" ) unary )?
//	unary   := "!" unary | primary
//	primary := $NAME | ${NAME} | "str" | 'str' | /regex/flags | null | "(" expr ")"
//
// # Values
//
// A variable reference resolves against the supplied Lookup. Undefined
// variables behave as the empty string everywhere except in a comparison
// with `null`, which tests whether the variable is defined at all.
//
// Truthiness is shell-like: a string is true when it is not empty, so a
// variable holding the text "false" is true.
//
// # Pattern matching
//
// The right side of `=~` and `!~` is a regex literal, or any operand whose
// string value has the `/regex/flags` form. Other strings are matched
// literally (substring match). Regexes use RE2 syntax.
package expression
