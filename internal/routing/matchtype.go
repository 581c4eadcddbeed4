package routing

// MatchTypes maps a placeholder type identifier to the regex fragment that
// matches it. Identifiers are unique within a registry and immutable once
// registered.
type MatchTypes map[string]string

// defaultFragment matches a single path segment: anything up to the next
// slash or dot.
const defaultFragment = `[^/\.]+`

// DefaultMatchTypes returns the built-in match-type table.
func DefaultMatchTypes() MatchTypes {
	return MatchTypes{
		"i":  `[0-9]+`,        // integer
		"a":  `[0-9A-Za-z]+`,  // alphanumeric
		"h":  `[0-9A-Fa-f]+`,  // hexadecimal
		"*":  `.+?`,           // catch-all, lazy
		"**": `.+`,            // catch-all, eager
	}
}

// Fragment resolves a type identifier to its regex fragment. An empty
// identifier yields the default single-segment fragment; an unknown
// identifier is used verbatim, which supports inline alternations such as
// "create|edit".
func (m MatchTypes) Fragment(id string) string {
	if id == "" {
		return defaultFragment
	}
	if fragment, ok := m[id]; ok {
		return fragment
	}
	return id
}

// clone returns a copy so registries never share mutable tables.
func (m MatchTypes) clone() MatchTypes {
	out := make(MatchTypes, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
