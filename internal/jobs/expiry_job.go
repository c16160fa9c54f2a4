package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ExpiryJobName is the name of the proposal expiry sweep job
const ExpiryJobName = "proposal_expiry"

// ProposalExpirer marks overdue sent proposals as expired. The interface
// keeps the job decoupled from the service package.
type ProposalExpirer interface {
	// ExpireOverdue transitions sent proposals past their validity window to
	// expired. Returns the number of proposals transitioned.
	ExpireOverdue(ctx context.Context) (int, error)
}

// ExpiryJob sweeps sent proposals whose validity window has passed.
type ExpiryJob struct {
	expirer ProposalExpirer
	logger  *zap.Logger
	timeout time.Duration
}

// NewExpiryJob creates a new proposal expiry job.
// The timeout controls how long one sweep is allowed to run.
func NewExpiryJob(expirer ProposalExpirer, logger *zap.Logger, timeout time.Duration) *ExpiryJob {
	return &ExpiryJob{
		expirer: expirer,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes one expiry sweep.
// This is called by the scheduler according to the cron expression.
func (j *ExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	expired, err := j.expirer.ExpireOverdue(ctx)
	if err != nil {
		j.logger.Error("proposal expiry sweep failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if expired > 0 {
		j.logger.Info("proposal expiry sweep completed",
			zap.Int("expired", expired),
			zap.Duration("duration", time.Since(start)))
	}
}

// RegisterExpiryJob registers the expiry sweep with the scheduler and runs
// one sweep immediately in the background so a restart never delays overdue
// transitions until the next scheduled slot.
func RegisterExpiryJob(scheduler *Scheduler, expirer ProposalExpirer, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewExpiryJob(expirer, logger, timeout)
	go job.Run()
	return scheduler.AddJob(ExpiryJobName, cronExpr, job.Run)
}
