package routing

import (
	"regexp"
	"strings"
)

// AuthType describes the authentication requirement of a route.
type AuthType string

const (
	// AuthPublic marks a route that requires no credentials.
	AuthPublic AuthType = "public"
	// AuthToken marks a route that requires a valid bearer token.
	AuthToken AuthType = "token"
)

// Route is a single declarative route definition. Routes are constructed
// during the harvest phase and held immutably by a Registry afterwards.
type Route struct {
	Name       string     // optional unique name, used for lookup and generation
	Pattern    string     // bracket pattern, literal path, "*" or "@rawregex"
	Methods    []string   // allowed HTTP methods; empty allows any
	Controller string     // controller reference the match resolves to
	Action     string     // optional action reference on the controller
	Auth       []AuthType // authentication requirements
	Grants     []string   // grants the caller must hold
	Tags       []string   // free-form tags for grouped lookup
	Parent     *Route     // optional parent whose pattern prefixes this one

	// compiled state, populated once by the registry under its lock
	regex  *regexp.Regexp
	params []Param
}

// FullPattern resolves the parent chain: a child route's effective pattern
// is parent pattern + "/" + own pattern.
func (r *Route) FullPattern() string {
	if r.Parent == nil {
		return r.Pattern
	}
	return strings.TrimSuffix(r.Parent.FullPattern(), "/") + "/" + strings.TrimPrefix(r.Pattern, "/")
}

// AllowsMethod reports whether the route accepts the given HTTP method.
// An empty method set accepts everything.
func (r *Route) AllowsMethod(method string) bool {
	if len(r.Methods) == 0 {
		return true
	}
	for _, m := range r.Methods {
		if strings.EqualFold(m, method) {
			return true
		}
	}
	return false
}

// HasTag reports whether the route carries the given tag.
func (r *Route) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// RequiresToken reports whether the route's auth requirement includes a
// bearer token. Routes with no auth requirement are treated as public.
func (r *Route) RequiresToken() bool {
	for _, a := range r.Auth {
		if a == AuthToken {
			return true
		}
	}
	return false
}

// Declaration is the raw route shape supplied by external collaborators
// (configuration files, harvest hooks) before compilation.
type Declaration struct {
	Name       string   `json:"name,omitempty"`
	Pattern    string   `json:"pattern"`
	Methods    []string `json:"methods,omitempty"`
	Controller string   `json:"controller"`
	Action     string   `json:"action,omitempty"`
	AuthType   string   `json:"auth_type,omitempty"`
	IsGranted  []string `json:"is_granted,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// RouteFromDeclaration converts a raw declaration into a Route.
func RouteFromDeclaration(d Declaration) *Route {
	route := &Route{
		Name:       d.Name,
		Pattern:    d.Pattern,
		Methods:    d.Methods,
		Controller: d.Controller,
		Action:     d.Action,
		Grants:     d.IsGranted,
		Tags:       d.Tags,
	}
	if d.AuthType != "" {
		route.Auth = []AuthType{AuthType(d.AuthType)}
	}
	return route
}
