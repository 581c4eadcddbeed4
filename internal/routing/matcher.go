package routing

import (
	"regexp"
	"strings"
)

// Request is the normalized incoming-request descriptor the matcher
// consumes. Path is the decoded or raw URL path, whichever the caller uses
// consistently.
type Request struct {
	Method string
	Path   string
}

// Match is the result of a successful route resolution. Params is a fresh
// map per call; the matched route itself is never mutated.
type Match struct {
	Route      *Route
	RouteName  string
	Controller string
	Action     string
	Params     map[string]string
}

// Match resolves the first route whose method set and pattern accept the
// request. Registration order is significant: first match wins, there is
// no specificity scoring. The base path is an explicit argument and is
// stripped from the request path before matching.
//
// A nil Match with a nil error means no route applies; the caller should
// answer with a 404-equivalent. A *PatternError is returned when a raw
// "@" pattern turns out to be malformed.
func (g *Registry) Match(req Request, basePath string) (*Match, error) {
	routes, err := g.All()
	if err != nil {
		return nil, err
	}

	path := req.Path
	if basePath != "" {
		path = strings.TrimPrefix(path, basePath)
		if path == "" {
			path = "/"
		}
	}

	for _, route := range routes {
		if !route.AllowsMethod(req.Method) {
			continue
		}

		pattern := route.FullPattern()

		// Wildcard: the method set already filtered, accept anything.
		if pattern == "*" {
			return newMatch(route, map[string]string{}), nil
		}

		// Raw user-supplied regex, compiled at match time.
		if strings.HasPrefix(pattern, "@") {
			raw, err := regexp.Compile(strings.TrimPrefix(pattern, "@"))
			if err != nil {
				return nil, &PatternError{Pattern: pattern, Err: err}
			}
			if values := raw.FindStringSubmatch(path); values != nil {
				return newMatch(route, namedValues(raw, values)), nil
			}
			continue
		}

		// Pure literal: trimmed string comparison, no regex involved.
		if !strings.Contains(pattern, "[") {
			if strings.Trim(path, "/") == strings.Trim(pattern, "/") {
				return newMatch(route, map[string]string{}), nil
			}
			continue
		}

		// Fast-reject on the literal prefix before the first bracket. The
		// carve-out keeps patterns with optional separators matchable when
		// the shared prefix alone disagrees.
		bracket := strings.Index(pattern, "[")
		if !strings.HasPrefix(path, pattern[:bracket]) {
			trailingSlash := len(path) > 0 && path[len(path)-1] == '/'
			precededBySlash := bracket > 0 && pattern[bracket-1] == '/'
			if trailingSlash && !precededBySlash {
				continue
			}
		}

		if route.regex == nil {
			continue
		}
		if values := route.regex.FindStringSubmatch(path); values != nil {
			return newMatch(route, namedValues(route.regex, values)), nil
		}
	}

	return nil, nil
}

func newMatch(route *Route, params map[string]string) *Match {
	return &Match{
		Route:      route,
		RouteName:  route.Name,
		Controller: route.Controller,
		Action:     route.Action,
		Params:     params,
	}
}

// namedValues extracts named capture groups into a params map. Positional
// groups carry no name and are dropped, which is the Go analogue of
// stripping purely-numeric keys. Optional groups that did not take part in
// the match yield empty strings and are dropped as well.
func namedValues(re *regexp.Regexp, values []string) map[string]string {
	params := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if i == 0 || name == "" || values[i] == "" {
			continue
		}
		params[name] = values[i]
	}
	return params
}
