package handlers

import (
	"net/http"
	"strconv"
	"time"

	apperrors "climate-router/internal/common/errors"
	"climate-router/internal/common/logging"
	"climate-router/internal/schedule"
	"climate-router/internal/storage"
)

// Controllers implements the dispatched controller actions for the
// pattern-routed device and timeline endpoints.
type Controllers struct {
	store  *storage.Store
	engine *schedule.Engine
	loc    *time.Location
	logger logging.Logger
}

// NewControllers creates the controller set.
func NewControllers(store *storage.Store, engine *schedule.Engine, loc *time.Location) *Controllers {
	return &Controllers{
		store:  store,
		engine: engine,
		loc:    loc,
		logger: logging.GetGlobalLogger(),
	}
}

// RegisterAll binds every controller action on the dispatcher. The keys
// must line up with the controller and action references in the route
// declarations.
func (c *Controllers) RegisterAll(d *Dispatcher) {
	d.Register("DeviceController", "state", c.deviceState)
	d.Register("DeviceController", "set", c.deviceSet)
	d.Register("TimelineController", "day", c.timelineDay)
}

// compileDay loads all entries and compiles the timeline for one day.
func (c *Controllers) compileDay(day time.Time) (schedule.Timeline, error) {
	input, err := c.store.ListEntries()
	if err != nil {
		return nil, apperrors.InternalError("failed to load schedule entries", err)
	}
	from := day.Format("2006-01-02")
	to := day.AddDate(0, 0, 1).Format("2006-01-02")
	timeline, err := c.engine.CompileRange(input, from, to)
	if err != nil {
		return nil, apperrors.InternalError("failed to compile schedule", err)
	}
	return timeline, nil
}

// deviceState reports the slot currently steering the device.
func (c *Controllers) deviceState(w http.ResponseWriter, r *http.Request, params map[string]string) {
	now := time.Now().In(c.loc)
	timeline, err := c.compileDay(now)
	if err != nil {
		writeError(w, err)
		return
	}

	type stateResponse struct {
		DeviceRef  string         `json:"device_ref"`
		ActiveSlot *schedule.Slot `json:"active_slot"`
	}
	writeJSON(w, http.StatusOK, stateResponse{
		DeviceRef:  params["id"],
		ActiveSlot: c.engine.ActiveSlot(timeline, now),
	})
}

// deviceSet records a manual till-next override running from now until
// the next scheduled change, end of day at the latest.
func (c *Controllers) deviceSet(w http.ResponseWriter, r *http.Request, params map[string]string) {
	target, err := strconv.ParseFloat(params["target"], 64)
	if err != nil {
		writeError(w, apperrors.ValidationError("bad target temperature"))
		return
	}

	now := time.Now().In(c.loc)
	entry := schedule.Entry{
		Type:      schedule.TypeTillNext,
		Title:     "Manual override",
		DeviceRef: params["id"],
		Date:      now.Format("2006-01-02"),
		Start:     schedule.TimeOfDay(now.Hour()*60 + now.Minute()),
		End:       schedule.EndOfDay,
		Value:     target,
	}

	created, err := c.store.CreateEntry(entry)
	if err != nil {
		c.logger.Error("Failed to store manual override", err)
		writeError(w, apperrors.InternalError("failed to store override", err))
		return
	}

	c.logger.Info("Manual override stored",
		logging.String("device", created.DeviceRef),
		logging.Any("target", created.Value))
	writeJSON(w, http.StatusCreated, created)
}

// timelineDay compiles and returns one day's timeline; the date arrives
// split over three route parameters.
func (c *Controllers) timelineDay(w http.ResponseWriter, r *http.Request, params map[string]string) {
	day := params["year"] + "-" + params["month"] + "-" + params["day"]
	parsed, err := time.ParseInLocation("2006-01-02", day, c.loc)
	if err != nil {
		writeError(w, apperrors.ValidationError("bad date "+day))
		return
	}

	timeline, err := c.compileDay(parsed)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, timeline)
}
