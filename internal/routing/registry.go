package routing

import (
	"fmt"
	"strings"
	"sync"

	"climate-router/internal/common/logging"
)

// Binder is handed to before-compile hooks so they can contribute routes
// and match types right before the registry freezes.
type Binder interface {
	Bind(route *Route) error
	BindMatchType(id, fragment string)
}

// Option configures a Registry.
type Option func(*Registry)

// WithMatchTypes replaces the default match-type table.
func WithMatchTypes(types MatchTypes) Option {
	return func(g *Registry) {
		g.types = types.clone()
	}
}

// WithLogger sets the registry logger.
func WithLogger(logger logging.Logger) Option {
	return func(g *Registry) {
		g.logger = logger
	}
}

// WithBeforeCompile registers a hook that runs exactly once, immediately
// before the first compilation. Hooks may add routes and match types.
func WithBeforeCompile(hook func(Binder) error) Option {
	return func(g *Registry) {
		g.hooks = append(g.hooks, hook)
	}
}

// Registry owns the insertion-ordered route collection. Compilation is lazy
// and memoized: the first access through Match, All, ByName, ByTag or
// Generate runs the before-compile hooks, compiles every bracket pattern
// and freezes the collection. The one-time compile is guarded by the
// registry mutex so concurrent first accesses cannot race.
type Registry struct {
	mu       sync.Mutex
	compiled bool

	types  MatchTypes
	routes []*Route
	byName map[string]*Route
	hooks  []func(Binder) error
	logger logging.Logger
}

// NewRegistry creates an empty registry with the default match types.
func NewRegistry(opts ...Option) *Registry {
	g := &Registry{
		types:  DefaultMatchTypes(),
		byName: make(map[string]*Route),
		logger: logging.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Add appends a route to the ordered collection. Registering a second route
// under an already-taken non-empty name fails with ErrDuplicateRouteName;
// this is a configuration bug and must not be ignored by the caller.
func (g *Registry) Add(route *Route) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.add(route)
}

func (g *Registry) add(route *Route) error {
	if route == nil {
		return fmt.Errorf("route must not be nil")
	}
	if route.Name != "" {
		if _, exists := g.byName[route.Name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateRouteName, route.Name)
		}
		g.byName[route.Name] = route
	}
	g.routes = append(g.routes, route)
	return nil
}

// AddMatchType registers a named regex fragment for use in placeholders.
func (g *Registry) AddMatchType(id, fragment string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.types[id] = fragment
}

// binder adapts the registry for before-compile hooks; the registry lock is
// already held while hooks run.
type binder struct {
	g *Registry
}

func (b binder) Bind(route *Route) error {
	return b.g.add(route)
}

func (b binder) BindMatchType(id, fragment string) {
	b.g.types[id] = fragment
}

// ensureCompiled runs hooks and compiles all bracket patterns once. Raw
// "@" patterns are deliberately not validated here; they surface a
// PatternError at match time instead.
func (g *Registry) ensureCompiled() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.compiled {
		return nil
	}

	for _, hook := range g.hooks {
		if err := hook(binder{g}); err != nil {
			return fmt.Errorf("before-compile hook failed: %w", err)
		}
	}

	for _, route := range g.routes {
		pattern := route.FullPattern()
		if pattern == "*" || strings.HasPrefix(pattern, "@") || !strings.Contains(pattern, "[") {
			continue
		}

		route.params = ExtractParams(pattern)
		regex, err := CompileRoute(pattern, g.types)
		if err != nil {
			return err
		}
		route.regex = regex
	}

	g.compiled = true
	g.logger.Debug("Route registry compiled",
		logging.Int("routes", len(g.routes)),
		logging.Int("match_types", len(g.types)),
	)
	return nil
}

// All returns every route in registration order.
func (g *Registry) All() ([]*Route, error) {
	if err := g.ensureCompiled(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]*Route, len(g.routes))
	copy(out, g.routes)
	return out, nil
}

// ByName looks a route up by its unique name.
func (g *Registry) ByName(name string) (*Route, error) {
	if err := g.ensureCompiled(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	route, ok := g.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRoute, name)
	}
	return route, nil
}

// ByTag returns all routes carrying the tag, preserving registration order.
func (g *Registry) ByTag(tag string) ([]*Route, error) {
	if err := g.ensureCompiled(); err != nil {
		return nil, err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []*Route
	for _, route := range g.routes {
		if route.HasTag(tag) {
			out = append(out, route)
		}
	}
	return out, nil
}

// Generate builds a concrete path for a named route by textual block
// substitution: supplied values replace their block (keeping the
// separator), optional blocks without a value vanish together with their
// separator, and required blocks without a value are stripped leaving the
// separator in place. No match-type validation is applied.
func (g *Registry) Generate(name string, params map[string]string) (string, error) {
	route, err := g.ByName(name)
	if err != nil {
		return "", err
	}

	pattern := route.FullPattern()
	locs := blockPattern.FindAllStringSubmatchIndex(pattern, -1)

	var out strings.Builder
	last := 0
	for _, loc := range locs {
		out.WriteString(pattern[last:loc[0]])
		last = loc[1]

		separator := submatch(pattern, loc, 1)
		paramName := submatch(pattern, loc, 3)
		optional := submatch(pattern, loc, 4) == "?"

		value, supplied := "", false
		if paramName != "" {
			value, supplied = params[paramName]
		}

		switch {
		case supplied:
			out.WriteString(separator)
			out.WriteString(value)
		case optional:
			// separator and block both vanish
		default:
			out.WriteString(separator)
		}
	}
	out.WriteString(pattern[last:])

	return out.String(), nil
}
