// Package scheduler runs periodic background tasks on a small worker pool with
// per-job timeouts and delayed retries.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JobStatus represents the status of a job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// Task is a unit of periodic work. now is the time the job was scheduled for.
type Task interface {
	Name() string
	Run(ctx context.Context, now time.Time) error
}

type funcTask struct {
	name string
	run  func(ctx context.Context, now time.Time) error
}

func (t funcTask) Name() string                                 { return t.name }
func (t funcTask) Run(ctx context.Context, now time.Time) error { return t.run(ctx, now) }

// NewTask adapts a function to a Task
func NewTask(name string, run func(ctx context.Context, now time.Time) error) Task {
	return funcTask{name: name, run: run}
}

// Job is one execution of a task
type Job struct {
	ID           uuid.UUID
	Task         string
	ScheduledFor time.Time
	Status       JobStatus
	Error        string
	StartedAt    *time.Time
	CompletedAt  *time.Time
	RetryCount   int
	MaxRetries   int
}

// NewJob creates a pending job
func NewJob(task string, scheduledFor time.Time, maxRetries int) *Job {
	return &Job{
		ID:           uuid.New(),
		Task:         task,
		ScheduledFor: scheduledFor,
		Status:       JobStatusPending,
		MaxRetries:   maxRetries,
	}
}

// Start marks the job as running
func (j *Job) Start(now time.Time) {
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.Error = ""
}

// Complete marks the job as successful
func (j *Job) Complete(now time.Time) {
	j.Status = JobStatusSuccess
	j.CompletedAt = &now
}

// Fail marks the job as failed
func (j *Job) Fail(now time.Time, err error) {
	j.Status = JobStatusFailed
	j.CompletedAt = &now
	j.Error = err.Error()
}

// ShouldRetry returns true if the job failed and has retries left
func (j *Job) ShouldRetry() bool {
	return j.Status == JobStatusFailed && j.RetryCount < j.MaxRetries
}

// Config holds scheduler settings
type Config struct {
	Workers       int
	QueueSize     int
	JobTimeout    time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

// DefaultConfig returns the default scheduler configuration
func DefaultConfig() Config {
	return Config{
		Workers:       2,
		QueueSize:     32,
		JobTimeout:    5 * time.Minute,
		RetryAttempts: 3,
		RetryDelay:    time.Minute,
	}
}

// trigger yields the next run time strictly after the given instant
type trigger interface {
	next(after time.Time) time.Time
}

type interval time.Duration

func (d interval) next(after time.Time) time.Time {
	return after.Add(time.Duration(d))
}

// daily fires once a day at hour:minute in the location of the reference time
type daily struct {
	hour, minute int
}

func (d daily) next(after time.Time) time.Time {
	at := time.Date(after.Year(), after.Month(), after.Day(), d.hour, d.minute, 0, 0, after.Location())
	if !at.After(after) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

type schedule struct {
	task    string
	trigger trigger
}

// Scheduler runs registered tasks on their schedules
type Scheduler struct {
	config Config
	logger *zap.Logger
	now    func() time.Time

	tasks     map[string]Task
	schedules []schedule
	jobs      chan *Job

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewScheduler creates a scheduler. Zero config fields take their defaults.
func NewScheduler(config Config, logger *zap.Logger) *Scheduler {
	def := DefaultConfig()
	if config.Workers <= 0 {
		config.Workers = def.Workers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = def.QueueSize
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = def.JobTimeout
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = def.RetryDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		config: config,
		logger: logger,
		now:    time.Now,
		tasks:  make(map[string]Task),
		jobs:   make(chan *Job, config.QueueSize),
	}
}

// Register adds a task that only runs when submitted
func (s *Scheduler) Register(task Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTask, task.Name())
	}
	s.tasks[task.Name()] = task
	return nil
}

// Every registers task to run at a fixed interval after Start
func (s *Scheduler) Every(task Task, d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("%w: interval must be positive", ErrInvalidSchedule)
	}
	return s.schedule(task, interval(d))
}

// Daily registers task to run once a day at the time given by a
// "minute hour * * *" expression
func (s *Scheduler) Daily(task Task, expr string) error {
	hour, minute, err := ParseDailySchedule(expr)
	if err != nil {
		return err
	}
	return s.schedule(task, daily{hour: hour, minute: minute})
}

func (s *Scheduler) schedule(task Task, t trigger) error {
	if err := s.Register(task); err != nil {
		return err
	}
	s.mu.Lock()
	s.schedules = append(s.schedules, schedule{task: task.Name(), trigger: t})
	s.mu.Unlock()
	return nil
}

// Start launches the workers and one timer loop per schedule
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	schedules := append([]schedule(nil), s.schedules...)
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for i := 0; i < s.config.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx, i)
	}
	for _, sc := range schedules {
		s.wg.Add(1)
		go s.loop(ctx, sc)
	}

	s.logger.Info("scheduler started",
		zap.Int("workers", s.config.Workers),
		zap.Int("schedules", len(schedules)),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop cancels running jobs and waits for the workers, bounded by ctx
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
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
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
		return ctx.Err()
	}
}

// Submit queues an immediate run of the named task
func (s *Scheduler) Submit(name string) (*Job, error) {
	s.mu.Lock()
	_, ok := s.tasks[name]
	s.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}
	job := NewJob(name, s.now(), s.config.RetryAttempts)
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
		s.logger.Debug("job submitted",
			zap.String("job_id", job.ID.String()),
			zap.String("task", job.Task),
		)
		return nil
	default:
		return ErrJobQueueFull
	}
}

func (s *Scheduler) loop(ctx context.Context, sc schedule) {
	defer s.wg.Done()

	next := sc.trigger.next(s.now())
	timer := time.NewTimer(next.Sub(s.now()))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if err := s.enqueue(NewJob(sc.task, next, s.config.RetryAttempts)); err != nil {
				s.logger.Warn("scheduled run skipped", zap.String("task", sc.task), zap.Error(err))
			}
			next = sc.trigger.next(s.now())
			timer.Reset(next.Sub(s.now()))
		}
	}
}

func (s *Scheduler) worker(ctx context.Context, workerID int) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-s.jobs:
			s.process(ctx, job, workerID)
		}
	}
}

func (s *Scheduler) process(ctx context.Context, job *Job, workerID int) {
	s.mu.Lock()
	task, ok := s.tasks[job.Task]
	s.mu.Unlock()
	if !ok {
		return
	}

	job.Start(s.now())
	log := s.logger.With(
		zap.Int("worker_id", workerID),
		zap.String("job_id", job.ID.String()),
		zap.String("task", job.Task),
	)
	log.Debug("processing job")

	jobCtx, cancel := context.WithTimeout(ctx, s.config.JobTimeout)
	err := runTask(jobCtx, task, job.ScheduledFor)
	cancel()

	if err == nil {
		job.Complete(s.now())
		log.Info("job completed")
		return
	}

	job.Fail(s.now(), err)
	log.Error("job failed", zap.Int("retry_count", job.RetryCount), zap.Error(err))
	if !job.ShouldRetry() || ctx.Err() != nil {
		return
	}
	job.RetryCount++
	job.Status = JobStatusPending
	time.AfterFunc(s.config.RetryDelay, func() {
		if err := s.enqueue(job); err != nil {
			log.Warn("failed to re-queue job for retry", zap.Error(err))
		}
	})
}

// runTask turns a panicking task into a failed job
func runTask(ctx context.Context, task Task, now time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return task.Run(ctx, now)
}

// ParseDailySchedule reads the minute and hour fields of a "minute hour * * *"
// expression. The remaining fields must be "*".
func ParseDailySchedule(expr string) (hour, minute int, err error) {
	parts := strings.Fields(expr)
	if len(parts) != 5 {
		return 0, 0, fmt.Errorf("%w: %q needs five fields", ErrInvalidSchedule, expr)
	}
	for _, p := range parts[2:] {
		if p != "*" {
			return 0, 0, fmt.Errorf("%w: %q only daily schedules are supported", ErrInvalidSchedule, expr)
		}
	}
	if minute, err = strconv.Atoi(parts[0]); err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: minute must be 0-59 in %q", ErrInvalidSchedule, expr)
	}
	if hour, err = strconv.Atoi(parts[1]); err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("%w: hour must be 0-23 in %q", ErrInvalidSchedule, expr)
	}
	return hour, minute, nil
}
