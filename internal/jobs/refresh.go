// Package jobs runs the periodic schedule refresh.
package jobs

import (
	"time"

	"github.com/robfig/cron/v3"

	"climate-router/internal/common/logging"
	"climate-router/internal/schedule"
	"climate-router/internal/storage"
)

// RefreshJob periodically recompiles the current day's timeline and logs
// the slot active per device, so setpoint changes show up in the logs
// even when nobody queries the API.
type RefreshJob struct {
	store  *storage.Store
	engine *schedule.Engine
	loc    *time.Location
	cron   *cron.Cron
	logger logging.Logger
}

// NewRefreshJob creates the job without starting it.
func NewRefreshJob(store *storage.Store, engine *schedule.Engine, loc *time.Location) *RefreshJob {
	return &RefreshJob{
		store:  store,
		engine: engine,
		loc:    loc,
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logging.GetGlobalLogger(),
	}
}

// Start schedules the job with the given cron spec and begins running.
func (j *RefreshJob) Start(spec string) error {
	if _, err := j.cron.AddFunc(spec, j.Run); err != nil {
		return err
	}
	j.cron.Start()
	j.logger.Info("Schedule refresh job started", logging.String("cron", spec))
	return nil
}

// Stop halts the cron scheduler, waiting for a running invocation.
func (j *RefreshJob) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

// Run executes one refresh immediately.
func (j *RefreshJob) Run() {
	now := time.Now().In(j.loc)
	from := now.Format("2006-01-02")
	to := now.AddDate(0, 0, 1).Format("2006-01-02")

	input, err := j.store.ListEntries()
	if err != nil {
		j.logger.Error("Schedule refresh failed to load entries", err)
		return
	}

	timeline, err := j.engine.CompileRange(input, from, to)
	if err != nil {
		j.logger.Error("Schedule refresh failed to compile", err)
		return
	}

	active := j.engine.ActiveSlot(timeline, now)
	if active == nil {
		j.logger.Info("Schedule refreshed, no active slot",
			logging.String("date", from),
			logging.Int("slots", len(timeline[from])))
		return
	}
	j.logger.Info("Schedule refreshed",
		logging.String("date", from),
		logging.String("device", active.DeviceRef),
		logging.String("slot_start", active.TimeStart),
		logging.String("slot_end", active.TimeEnd),
		logging.Any("value", active.Value))
}
