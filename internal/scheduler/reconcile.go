// Package scheduler runs periodic balance reconciliation.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"rwaconsole/internal/logger"
	"rwaconsole/internal/services"
)

// ReconcileJob walks every user through SyncAll on a cron schedule.
type ReconcileJob struct {
	sync    services.SyncServicer
	timeout time.Duration
	log     *zap.SugaredLogger
	runs    atomic.Int64
}

// NewReconcileJob creates a job bound to sync. Each pass is cut off after timeout.
func NewReconcileJob(sync services.SyncServicer, timeout time.Duration) *ReconcileJob {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &ReconcileJob{sync: sync, timeout: timeout, log: logger.Named("reconciler")}
}

// Start registers the job on runner with the given cron schedule. A tick
// that fires while the previous pass is still running is skipped.
func (j *ReconcileJob) Start(runner *cron.Cron, schedule string) (cron.EntryID, error) {
	cronLog := cron.VerbosePrintfLogger(zap.NewStdLog(j.log.Desugar()))
	job := cron.NewChain(
		cron.Recover(cronLog),
		cron.SkipIfStillRunning(cronLog),
	).Then(j)

	id, err := runner.AddJob(schedule, job)
	if err != nil {
		return 0, fmt.Errorf("invalid sync schedule %q: %w", schedule, err)
	}
	j.log.Infow("reconcile job scheduled", "schedule", schedule)
	return id, nil
}

// Run executes one pass.
func (j *ReconcileJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	res, err := j.sync.SyncAll(ctx)
	j.runs.Add(1)
	if err != nil {
		j.log.Errorw("reconcile pass failed", "error", err, "duration", time.Since(start))
		return
	}
	j.log.Infow("reconcile pass finished",
		"wallets", res.Wallets,
		"failures", res.Failures,
		"holdings", res.Holdings,
		"duration", time.Since(start),
	)
}

// Runs reports how many passes have completed.
func (j *ReconcileJob) Runs() int64 {
	return j.runs.Load()
}
