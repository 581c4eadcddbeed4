package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	apperrors "climate-router/internal/common/errors"
	"climate-router/internal/common/logging"
	"climate-router/internal/routing"
	"climate-router/internal/schedule"
	"climate-router/internal/storage"
)

// API serves the JSON management endpoints: health, schedule timeline
// compilation, schedule entry CRUD and route introspection.
type API struct {
	store    *storage.Store
	engine   *schedule.Engine
	registry *routing.Registry
	logger   logging.Logger
}

// NewAPI creates the management API.
func NewAPI(store *storage.Store, engine *schedule.Engine, registry *routing.Registry) *API {
	return &API{
		store:    store,
		engine:   engine,
		registry: registry,
		logger:   logging.GetGlobalLogger(),
	}
}

// Router builds the full HTTP routing table. Requests that hit none of
// the management endpoints fall through to the dispatcher.
func (a *API) Router(dispatcher http.Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/health", a.handleHealth).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/schedule", a.handleTimeline).Methods("GET")
	api.HandleFunc("/schedule/entries", a.handleCreateEntry).Methods("POST")
	api.HandleFunc("/schedule/entries/{id}", a.handleDeleteEntry).Methods("DELETE")
	api.HandleFunc("/routes", a.handleListRoutes).Methods("GET")
	api.HandleFunc("/routes/{name}/path", a.handleGeneratePath).Methods("GET")

	r.PathPrefix("/").Handler(dispatcher)
	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Health(); err != nil {
		writeError(w, apperrors.InternalError("storage unavailable", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleTimeline compiles the schedule for ?from=YYYY-MM-DD&to=YYYY-MM-DD.
// With both omitted it covers today only.
func (a *API) handleTimeline(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" && to == "" {
		now := time.Now()
		from = now.Format("2006-01-02")
		to = now.AddDate(0, 0, 1).Format("2006-01-02")
	}

	input, err := a.store.ListEntries()
	if err != nil {
		writeError(w, apperrors.InternalError("failed to load schedule entries", err))
		return
	}

	timeline, err := a.engine.CompileRange(input, from, to)
	if err != nil {
		var malformed *schedule.MalformedEntryError
		if errors.Is(err, schedule.ErrInvalidDateRange) || errors.As(err, &malformed) {
			writeError(w, apperrors.ValidationError(err.Error()))
			return
		}
		writeError(w, apperrors.InternalError("failed to compile schedule", err))
		return
	}

	writeJSON(w, http.StatusOK, timeline)
}

type entryRequest struct {
	Type       string  `json:"type"`
	Title      string  `json:"title"`
	DeviceRef  string  `json:"device_ref"`
	ValidFrom  string  `json:"valid_from"`
	ValidUntil string  `json:"valid_until"`
	DayFilter  string  `json:"day_filter"`
	Date       string  `json:"date"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Value      float64 `json:"value"`
}

func (req entryRequest) toEntry() (schedule.Entry, error) {
	entry := schedule.Entry{
		Type:      schedule.EntryType(req.Type),
		Title:     req.Title,
		DeviceRef: req.DeviceRef,
		DayFilter: schedule.DayFilter(req.DayFilter),
		Date:      req.Date,
		Value:     req.Value,
	}
	if req.DeviceRef == "" {
		return entry, apperrors.ValidationError("device_ref is required")
	}

	var err error
	if entry.Start, err = schedule.ParseTimeOfDay(req.Start); err != nil {
		return entry, apperrors.ValidationError(err.Error())
	}
	if entry.End, err = schedule.ParseTimeOfDay(req.End); err != nil {
		return entry, apperrors.ValidationError(err.Error())
	}

	if req.ValidFrom != "" {
		if entry.ValidFrom, err = time.Parse("2006-01-02", req.ValidFrom); err != nil {
			return entry, apperrors.ValidationError("unparseable valid_from date")
		}
	}
	if req.ValidUntil != "" {
		if entry.ValidUntil, err = time.Parse("2006-01-02", req.ValidUntil); err != nil {
			return entry, apperrors.ValidationError("unparseable valid_until date")
		}
	}
	return entry, nil
}

func (a *API) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("invalid JSON body"))
		return
	}

	entry, err := req.toEntry()
	if err != nil {
		writeError(w, err)
		return
	}

	// IDs are assigned by the store, so validate with a placeholder id
	probe := entry
	if probe.ID == "" {
		probe.ID = "pending"
	}
	if err := schedule.ValidateEntry(probe); err != nil {
		var malformed *schedule.MalformedEntryError
		if errors.As(err, &malformed) {
			writeError(w, apperrors.ValidationError(malformed.Reason))
			return
		}
		writeError(w, apperrors.ValidationError(err.Error()))
		return
	}

	created, err := a.store.CreateEntry(entry)
	if err != nil {
		writeError(w, apperrors.InternalError("failed to store schedule entry", err))
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := a.store.DeleteEntry(id); err != nil {
		if errors.Is(err, storage.ErrEntryNotFound) {
			writeError(w, apperrors.NotFoundError("schedule entry"))
			return
		}
		writeError(w, apperrors.InternalError("failed to delete schedule entry", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := a.registry.All()
	if err != nil {
		writeError(w, apperrors.InternalError("failed to list routes", err))
		return
	}

	type routeInfo struct {
		Name       string   `json:"name,omitempty"`
		Pattern    string   `json:"pattern"`
		Methods    []string `json:"methods,omitempty"`
		Controller string   `json:"controller"`
		Action     string   `json:"action,omitempty"`
		Tags       []string `json:"tags,omitempty"`
	}
	out := make([]routeInfo, 0, len(routes))
	for _, route := range routes {
		out = append(out, routeInfo{
			Name:       route.Name,
			Pattern:    route.FullPattern(),
			Methods:    route.Methods,
			Controller: route.Controller,
			Action:     route.Action,
			Tags:       route.Tags,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGeneratePath reverse-generates a concrete path for a named route;
// placeholder values come from the query string.
func (a *API) handleGeneratePath(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	params := make(map[string]string)
	for key, values := range r.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}

	path, err := a.registry.Generate(name, params)
	if err != nil {
		if errors.Is(err, routing.ErrUnknownRoute) {
			writeError(w, apperrors.NotFoundError("route"))
			return
		}
		writeError(w, apperrors.InternalError("failed to generate path", err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": name, "path": path})
}
