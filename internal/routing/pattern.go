package routing

import (
	"fmt"
	"regexp"
	"strings"
)

// blockPattern matches one bracketed placeholder, including its optional
// leading separator and trailing optional marker:
// (separator?)[type(:name)?](optional?)
var blockPattern = regexp.MustCompile(`([/.])?\[([^:\]]*)(?::([^:\]]*))?\](\?)?`)

// Param describes a single placeholder extracted from a route pattern.
// Matched values are never stored here; Match returns them as a fresh map.
type Param struct {
	Block     string // full block text, separator and optional marker included
	Separator string // "/" or "." directly before the bracket, if any
	Type      string // match-type identifier, may be empty
	Name      string // capture name, empty for anonymous placeholders
	Optional  bool   // trailing "?" present
}

// ExtractParams scans a pattern for bracketed placeholders in order of
// appearance. Literal "*" and raw "@" patterns have no placeholders.
func ExtractParams(pattern string) []Param {
	if pattern == "*" || strings.HasPrefix(pattern, "@") {
		return nil
	}

	matches := blockPattern.FindAllStringSubmatch(pattern, -1)
	if len(matches) == 0 {
		return nil
	}

	params := make([]Param, 0, len(matches))
	for _, m := range matches {
		params = append(params, Param{
			Block:     m[0],
			Separator: m[1],
			Type:      m[2],
			Name:      m[3],
			Optional:  m[4] == "?",
		})
	}
	return params
}

// CompileRoute translates a bracket pattern into an anchored regular
// expression. Each placeholder becomes a non-capturing group wrapping the
// type fragment, named when the placeholder is named:
//
//	(?:<separator>(?P<name>fragment))<optional>
//
// A "." separator is escaped; everything outside the placeholders is kept
// verbatim. The whole expression is anchored with ^ and $ (Go regexps are
// Unicode-aware and case-sensitive by default).
func CompileRoute(pattern string, types MatchTypes) (*regexp.Regexp, error) {
	locs := blockPattern.FindAllStringSubmatchIndex(pattern, -1)

	var out strings.Builder
	out.WriteString("^")

	last := 0
	for _, loc := range locs {
		out.WriteString(pattern[last:loc[0]])
		last = loc[1]

		separator := submatch(pattern, loc, 1)
		typeID := submatch(pattern, loc, 2)
		name := submatch(pattern, loc, 3)
		optional := submatch(pattern, loc, 4) == "?"

		if separator == "." {
			separator = `\.`
		}

		group := types.Fragment(typeID)
		if name != "" {
			group = fmt.Sprintf("(?P<%s>%s)", name, group)
		} else {
			group = fmt.Sprintf("(?:%s)", group)
		}

		out.WriteString("(?:")
		out.WriteString(separator)
		out.WriteString(group)
		out.WriteString(")")
		if optional {
			out.WriteString("?")
		}
	}
	out.WriteString(pattern[last:])
	out.WriteString("$")

	compiled, err := regexp.Compile(out.String())
	if err != nil {
		return nil, &PatternError{Pattern: pattern, Err: err}
	}
	return compiled, nil
}

// submatch extracts group n from a FindAllStringSubmatchIndex location.
func submatch(s string, loc []int, n int) string {
	start, end := loc[2*n], loc[2*n+1]
	if start < 0 {
		return ""
	}
	return s[start:end]
}
