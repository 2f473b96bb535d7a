package jobs

import (
	"casestatus-backend/internal/components/chrono"
	"time"
)

// Sweep removes finished jobs older than ttl.
func (r *Runner) Sweep(ttl time.Duration) int {
	removed := r.store.Sweep(r.time.Now().Add(-ttl))
	r.tel.ReportCount("store.size", int64(r.store.Len()))
	if removed > 0 {
		r.tel.ReportDebug("swept finished jobs", removed)
	}
	return removed
}

// ScheduleSweep runs Sweep on the given cron spec.
func (r *Runner) ScheduleSweep(cron chrono.CronAPI, spec string, ttl time.Duration) error {
	err := cron.Cron(spec, func() {
		r.Sweep(ttl)
	})
	if err != nil {
		r.tel.ReportBroken(report_runner_sweep, err, spec)
		return err
	}
	return nil
}
