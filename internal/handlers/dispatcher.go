// Package handlers exposes the HTTP surface: a pattern-routed dispatcher
// for controller actions plus the JSON management API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"climate-router/internal/auth"
	apperrors "climate-router/internal/common/errors"
	"climate-router/internal/common/logging"
	"climate-router/internal/routing"
)

// ControllerFunc handles a dispatched request together with the params
// extracted from the matched route pattern.
type ControllerFunc func(w http.ResponseWriter, r *http.Request, params map[string]string)

// Dispatcher resolves requests against the route registry and invokes the
// registered controller action. It implements http.Handler.
type Dispatcher struct {
	registry    *routing.Registry
	verifier    *auth.Verifier
	basePath    string
	logger      logging.Logger
	controllers map[string]ControllerFunc
}

// NewDispatcher creates a dispatcher. The base path is stripped from
// request paths before matching; pass "" when the service is mounted at
// the root.
func NewDispatcher(registry *routing.Registry, verifier *auth.Verifier, basePath string) *Dispatcher {
	return &Dispatcher{
		registry:    registry,
		verifier:    verifier,
		basePath:    basePath,
		logger:      logging.GetGlobalLogger(),
		controllers: make(map[string]ControllerFunc),
	}
}

// Register binds a controller action reference to its handler. The action
// may be empty for single-action controllers.
func (d *Dispatcher) Register(controller, action string, fn ControllerFunc) {
	d.controllers[controllerKey(controller, action)] = fn
}

func controllerKey(controller, action string) string {
	if action == "" {
		return controller
	}
	return controller + "." + action
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	match, err := d.registry.Match(routing.Request{Method: r.Method, Path: r.URL.Path}, d.basePath)
	if err != nil {
		var patternErr *routing.PatternError
		if errors.As(err, &patternErr) {
			d.logger.Error("Unusable route pattern", err,
				logging.String("pattern", patternErr.Pattern))
		}
		writeError(w, apperrors.InternalError("route resolution failed", err))
		return
	}
	if match == nil {
		writeError(w, apperrors.NotFoundError("route"))
		return
	}

	if err := d.authorize(r, match.Route); err != nil {
		writeError(w, err)
		return
	}

	fn, ok := d.controllers[controllerKey(match.Controller, match.Action)]
	if !ok {
		d.logger.Error("Matched route has no registered controller", nil,
			logging.String("route", match.RouteName),
			logging.String("controller", match.Controller),
			logging.String("action", match.Action))
		writeError(w, apperrors.InternalError("no controller registered for route", nil))
		return
	}

	d.logger.Debug("Dispatching request",
		logging.String("route", match.RouteName),
		logging.String("method", r.Method),
		logging.String("path", r.URL.Path))
	fn(w, r, match.Params)
}

func (d *Dispatcher) authorize(r *http.Request, route *routing.Route) error {
	if !route.RequiresToken() {
		return nil
	}
	if d.verifier == nil {
		return apperrors.AuthError("authentication is not configured")
	}
	principal, err := d.verifier.FromRequest(r)
	if err != nil {
		return err
	}
	return auth.Authorize(principal, route)
}

func statusFor(err error) int {
	switch apperrors.GetType(err) {
	case apperrors.ErrTypeValidation:
		return http.StatusBadRequest
	case apperrors.ErrTypeAuth:
		return http.StatusUnauthorized
	case apperrors.ErrTypeForbidden:
		return http.StatusForbidden
	case apperrors.ErrTypeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
