package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
	"go.uber.org/zap"
)

// JobSubmitter queues a job run
type JobSubmitter interface {
	Submit(name JobName) (*Job, error)
}

type cronEntry struct {
	job      JobName
	spec     string
	schedule cron.Schedule
	next     time.Time
}

// CronTrigger submits jobs when their cron schedule comes due
type CronTrigger struct {
	submitter     JobSubmitter
	logger        *zap.Logger
	checkInterval time.Duration
	nowFn         func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	entries   []*cronEntry
}

// CronOption configures a CronTrigger
type CronOption func(*CronTrigger)

// WithCheckInterval sets how often schedules are evaluated. Default is 15s.
func WithCheckInterval(d time.Duration) CronOption {
	return func(c *CronTrigger) {
		if d > 0 {
			c.checkInterval = d
		}
	}
}

// WithNowFunc overrides the clock
func WithNowFunc(fn func() time.Time) CronOption {
	return func(c *CronTrigger) {
		c.nowFn = fn
	}
}

// NewCronTrigger parses the configured schedules. An empty schedule disables
// that job.
func NewCronTrigger(cfg config.SchedulerConfig, submitter JobSubmitter, logger *zap.Logger, opts ...CronOption) (*CronTrigger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &CronTrigger{
		submitter:     submitter,
		logger:        logger.Named("cron_trigger"),
		checkInterval: 15 * time.Second,
		nowFn:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	specs := []struct {
		job  JobName
		spec string
	}{
		{JobIntegrityAudit, cfg.AuditSchedule},
		{JobLeaseExpiry, cfg.LeaseExpirySchedule},
	}
	now := c.nowFn()
	for _, s := range specs {
		if s.spec == "" {
			continue
		}
		schedule, err := cron.ParseStandard(s.spec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s schedule %q: %v", ErrInvalidConfig, s.job, s.spec, err)
		}
		c.entries = append(c.entries, &cronEntry{
			job:      s.job,
			spec:     s.spec,
			schedule: schedule,
			next:     schedule.Next(now),
		})
	}
	return c, nil
}

// Start starts the trigger loop
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	c.wg.Add(1)
	go c.runLoop(ctx)

	for _, e := range c.entries {
		c.logger.Info("Cron schedule registered",
			zap.String("job", string(e.job)),
			zap.String("schedule", e.spec),
			zap.Time("next_run", e.next),
		)
	}
	return nil
}

// Stop stops the cron trigger
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.checkAndTrigger()
		}
	}
}

// checkAndTrigger submits every entry that is due. A run missed while the
// process was down or the queue was full is not replayed.
func (c *CronTrigger) checkAndTrigger() {
	now := c.nowFn()

	c.mu.Lock()
	var due []JobName
	for _, e := range c.entries {
		if now.Before(e.next) {
			continue
		}
		due = append(due, e.job)
		e.next = e.schedule.Next(now)
	}
	c.mu.Unlock()

	for _, name := range due {
		job, err := c.submitter.Submit(name)
		if err != nil {
			c.logger.Error("Failed to submit scheduled job", zap.String("job", string(name)), zap.Error(err))
			continue
		}
		c.logger.Info("Scheduled job triggered",
			zap.String("job", string(name)),
			zap.String("job_id", job.ID.String()),
		)
	}
}

// NextRun returns when job is next due, if it is scheduled
func (c *CronTrigger) NextRun(job JobName) (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if e.job == job {
			return e.next, true
		}
	}
	return time.Time{}, false
}

// TriggerNow submits job immediately, outside its schedule
func (c *CronTrigger) TriggerNow(job JobName) (*Job, error) {
	return c.submitter.Submit(job)
}
