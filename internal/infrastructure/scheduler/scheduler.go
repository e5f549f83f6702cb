// Package scheduler runs the periodic reconciliation sweeps: the integrity
// audit and lease expiry. A cron trigger submits jobs to a bounded worker
// pool that retries failures after a delay.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/config"
	"go.uber.org/zap"
)

// JobStatus represents the status of a scheduled job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobName identifies a sweep
type JobName string

const (
	JobIntegrityAudit JobName = "integrity-audit"
	JobLeaseExpiry    JobName = "lease-expiry"
)

// Job is one execution of a sweep
type Job struct {
	ID          uuid.UUID
	Name        JobName
	Status      JobStatus
	Error       string
	StartedAt   *time.Time
	CompletedAt *time.Time
	RetryCount  int
	MaxRetries  int
}

// NewJob creates a new job instance
func NewJob(name JobName, maxRetries int) *Job {
	return &Job{
		ID:         uuid.New(),
		Name:       name,
		Status:     JobStatusPending,
		MaxRetries: maxRetries,
	}
}

// Start marks the job as running
func (j *Job) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete() {
	now := time.Now()
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(err string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err
}

// ShouldRetry returns true if the job should be retried
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// JobExecutor is the interface for executing jobs
type JobExecutor interface {
	Execute(ctx context.Context, job *Job) error
}

// JobRecorder receives the outcome of every job execution
type JobRecorder interface {
	RecordJob(ctx context.Context, job string, err error, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) RecordJob(context.Context, string, error, time.Duration) {}

// Options configures the worker pool
type Options struct {
	MaxConcurrentJobs int
	JobTimeout        time.Duration
	RetryAttempts     int
	RetryDelay        time.Duration
	QueueSize         int
}

// OptionsFromConfig maps the scheduler configuration section
func OptionsFromConfig(cfg config.SchedulerConfig) Options {
	return Options{
		MaxConcurrentJobs: cfg.MaxConcurrentJobs,
		JobTimeout:        cfg.JobTimeout,
		RetryAttempts:     cfg.RetryAttempts,
		RetryDelay:        cfg.RetryDelay,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxConcurrentJobs <= 0 {
		o.MaxConcurrentJobs = 2
	}
	if o.JobTimeout <= 0 {
		o.JobTimeout = 30 * time.Minute
	}
	if o.RetryAttempts < 0 {
		o.RetryAttempts = 0
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = time.Minute
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 32
	}
	return o
}

// Scheduler runs submitted jobs on a fixed pool of workers
type Scheduler struct {
	opts     Options
	executor JobExecutor
	recorder JobRecorder
	logger   *zap.Logger

	jobs      chan *Job
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
	retries   map[uuid.UUID]*time.Timer
}

// NewScheduler creates a new scheduler instance. recorder may be nil.
func NewScheduler(opts Options, executor JobExecutor, recorder JobRecorder, logger *zap.Logger) *Scheduler {
	opts = opts.withDefaults()
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		opts:     opts,
		executor: executor,
		recorder: recorder,
		logger:   logger.Named("scheduler"),
		jobs:     make(chan *Job, opts.QueueSize),
		retries:  make(map[uuid.UUID]*time.Timer),
	}
}

// Start starts the worker pool
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.opts.MaxConcurrentJobs; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}

	s.logger.Info("Reconciliation scheduler started",
		zap.Int("workers", s.opts.MaxConcurrentJobs),
		zap.Duration("job_timeout", s.opts.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs, drops pending retries and waits for workers
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	for id, timer := range s.retries {
		timer.Stop()
		delete(s.retries, id)
	}
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Reconciliation scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Reconciliation scheduler stop timed out")
		return ctx.Err()
	}
}

// IsRunning reports whether workers are accepting jobs
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// Submit queues a new run of the named job
func (s *Scheduler) Submit(name JobName) (*Job, error) {
	job := NewJob(name, s.opts.RetryAttempts)
	if err := s.enqueue(job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *Scheduler) enqueue(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return ErrSchedulerNotRunning
	}

	select {
	case s.jobs <- job:
		s.logger.Debug("Job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("job", string(job.Name)),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			s.processJob(ctx, job, workerID)
		}
	}
}

func (s *Scheduler) processJob(ctx context.Context, job *Job, workerID int) {
	job.Start()
	s.logger.Info("Processing job",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("job", string(job.Name)),
	)

	jobCtx, cancel := context.WithTimeout(ctx, s.opts.JobTimeout)
	defer cancel()

	started := time.Now()
	err := s.execute(jobCtx, job)
	s.recorder.RecordJob(ctx, string(job.Name), err, time.Since(started))

	if err == nil {
		job.Complete()
		s.logger.Info("Job completed successfully",
			zap.Int("worker_id", workerID),
			zap.String("job_id", job.ID.String()),
			zap.String("job", string(job.Name)),
		)
		return
	}

	job.Fail(err.Error())
	s.logger.Error("Job failed",
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("job", string(job.Name)),
		zap.Error(err),
	)
	if job.ShouldRetry() && ctx.Err() == nil {
		s.scheduleRetry(job)
	}
}

// execute converts an executor panic into a job failure.
func (s *Scheduler) execute(ctx context.Context, job *Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{value: r}
		}
	}()
	return s.executor.Execute(ctx, job)
}

func (s *Scheduler) scheduleRetry(job *Job) {
	job.RetryCount++
	job.Status = JobStatusPending

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.isRunning {
		return
	}
	s.retries[job.ID] = time.AfterFunc(s.opts.RetryDelay, func() {
		s.mu.Lock()
		delete(s.retries, job.ID)
		s.mu.Unlock()
		if err := s.enqueue(job); err != nil {
			s.logger.Warn("Failed to re-queue job for retry",
				zap.String("job_id", job.ID.String()),
				zap.Error(err),
			)
		}
	})
	s.logger.Info("Job scheduled for retry",
		zap.String("job_id", job.ID.String()),
		zap.Int("retry_count", job.RetryCount),
		zap.Int("max_retries", job.MaxRetries),
		zap.Duration("delay", s.opts.RetryDelay),
	)
}
