package pattern

import "strings"

// IsVariable reports whether a term carries the '?' variable sigil.
func IsVariable(term string) bool {
	return strings.HasPrefix(term, "?")
}

// VarName strips the '?' sigil from a variable term. Constants are
// returned unchanged.
func VarName(term string) string {
	return strings.TrimPrefix(term, "?")
}

// AsIRI wraps a bound value in angle brackets unless it is already a
// bracketed IRI. Used when instantiating variables with concrete values.
func AsIRI(value string) string {
	if strings.HasPrefix(value, "<") && strings.HasSuffix(value, ">") {
		return value
	}
	return "<" + value + ">"
}

// prefixOf extracts the namespace prefix from a prefixed name such as
// "foaf:name". Returns ("", false) for variables, full IRIs, and literals.
func prefixOf(term string) (string, bool) {
	if IsVariable(term) || strings.HasPrefix(term, "<") || strings.HasPrefix(term, "\"") || strings.HasPrefix(term, "'") {
		return "", false
	}
	idx := strings.Index(term, ":")
	if idx <= 0 {
		// ":local" uses the default prefix, which needs no declaration here.
		return "", false
	}
	return term[:idx], true
}
