package chronos

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Scheduler is a thread-safe registry of jobs, each firing at the earliest
// upcoming occurrence across its triggers.
type Scheduler struct {
	clock Clock

	jobsMu sync.RWMutex
	jobs   map[any]*JobRegistration

	running  atomic.Bool
	disposed atomic.Bool

	observersMu sync.Mutex
	observers   []func(ExecutionContext, error)

	logger zerolog.Logger
}

// Option configures a Scheduler at construction time.
type Option func(*Scheduler)

// WithClock overrides the default system clock. Intended for tests.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// WithLogger attaches a zerolog.Logger; the default is zerolog.Nop().
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// NewScheduler constructs a Scheduler. Jobs are not armed until Start is
// called.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:  SystemClock,
		jobs:   make(map[any]*JobRegistration),
		logger: zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ScheduleJob registers a synchronous job keyed by data, with at least one
// trigger. It fails with ErrDuplicateKey if data already identifies a
// registered job.
func (s *Scheduler) ScheduleJob(data any, fn JobFunc, triggers ...Trigger) error {
	return s.schedule(data, triggers, func(sched *Scheduler) *JobRegistration {
		j := newJobRegistration(sched, data, triggers)
		j.syncFn = fn
		return j
	})
}

// ScheduleAsyncJob registers an asynchronous job. See AsyncJobFunc.
func (s *Scheduler) ScheduleAsyncJob(data any, fn AsyncJobFunc, triggers ...Trigger) error {
	return s.schedule(data, triggers, func(sched *Scheduler) *JobRegistration {
		j := newJobRegistration(sched, data, triggers)
		j.asyncFn = fn
		return j
	})
}

func (s *Scheduler) schedule(data any, triggers []Trigger, build func(*Scheduler) *JobRegistration) error {
	if s.disposed.Load() {
		return ErrDisposed
	}

	if len(triggers) == 0 {
		return errors.New("chronos: at least one trigger is required")
	}

	s.jobsMu.Lock()
	if _, exists := s.jobs[data]; exists {
		s.jobsMu.Unlock()
		return ErrDuplicateKey
	}

	job := build(s)
	s.jobs[data] = job
	s.jobsMu.Unlock()

	s.logger.Info().Interface("data", data).Int("triggers", len(triggers)).Msg("job scheduled")

	s.RefreshJob(job)

	return nil
}

// UnscheduleJob removes and disposes the job registered for data.
func (s *Scheduler) UnscheduleJob(data any) error {
	if s.disposed.Load() {
		return ErrDisposed
	}

	s.jobsMu.Lock()
	job, exists := s.jobs[data]
	if !exists {
		s.jobsMu.Unlock()
		return ErrNotFound
	}
	delete(s.jobs, data)
	s.jobsMu.Unlock()

	job.dispose()

	s.logger.Info().Interface("data", data).Msg("job unscheduled")

	return nil
}

// GetJobInfo returns a façade over the job registered for data.
func (s *Scheduler) GetJobInfo(data any) (*JobInfo, error) {
	if s.disposed.Load() {
		return nil, ErrDisposed
	}

	s.jobsMu.RLock()
	job, exists := s.jobs[data]
	s.jobsMu.RUnlock()

	if !exists {
		return nil, ErrNotFound
	}

	return &JobInfo{job: job, sched: s}, nil
}

// GetAllJobs returns a snapshot of every registered job.
func (s *Scheduler) GetAllJobs() []*JobInfo {
	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()

	out := make([]*JobInfo, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, &JobInfo{job: job, sched: s})
	}

	return out
}

// GetAllJobsOf filters GetAllJobs to jobs whose data is of type T.
func GetAllJobsOf[T any](s *Scheduler) []*JobInfo {
	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()

	out := make([]*JobInfo, 0)
	for _, job := range s.jobs {
		if _, ok := job.data.(T); ok {
			out = append(out, &JobInfo{job: job, sched: s})
		}
	}

	return out
}

// GetRunningJobs returns a snapshot of jobs currently executing their
// callback.
func (s *Scheduler) GetRunningJobs() []*JobInfo {
	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()

	out := make([]*JobInfo, 0)
	for _, job := range s.jobs {
		if job.running.Load() {
			out = append(out, &JobInfo{job: job, sched: s})
		}
	}

	return out
}

// OnJobError registers an observer notified whenever a job's callback
// fails. Observers are called synchronously, in registration order, from
// whichever goroutine the failing job's callback completed on.
func (s *Scheduler) OnJobError(fn func(ExecutionContext, error)) {
	s.observersMu.Lock()
	s.observers = append(s.observers, fn)
	s.observersMu.Unlock()
}

// IsRunning reports whether the Scheduler has been started and not since
// stopped or disposed.
func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

// Start arms every registered job's timer. Idempotent.
func (s *Scheduler) Start() error {
	if s.disposed.Load() {
		return ErrDisposed
	}

	if !s.running.CompareAndSwap(false, true) {
		return nil
	}

	s.logger.Info().Msg("scheduler started")

	for _, job := range s.snapshotJobs() {
		s.RefreshJob(job)
	}

	return nil
}

// Stop disarms every job's timer without removing jobs from the registry.
// In-flight callbacks are not waited on or canceled. Idempotent.
func (s *Scheduler) Stop() error {
	if s.disposed.Load() {
		return ErrDisposed
	}

	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	for _, job := range s.snapshotJobs() {
		job.disarm()
	}

	s.logger.Info().Msg("scheduler stopped")

	return nil
}

// Dispose stops the scheduler, disposes every job's timer, and clears the
// registry. Afterward ScheduleJob, ScheduleAsyncJob, UnscheduleJob,
// GetJobInfo, Start and Stop fail with ErrDisposed; GetAllJobs,
// GetAllJobsOf and GetRunningJobs return empty snapshots, IsRunning reports
// false, OnJobError still records observers, and a repeated Dispose returns
// nil.
func (s *Scheduler) Dispose() error {
	if !s.disposed.CompareAndSwap(false, true) {
		return nil
	}

	s.running.Store(false)

	s.jobsMu.Lock()
	jobs := s.jobs
	s.jobs = make(map[any]*JobRegistration)
	s.jobsMu.Unlock()

	for _, job := range jobs {
		job.dispose()
	}

	s.logger.Info().Msg("scheduler disposed")

	return nil
}

func (s *Scheduler) snapshotJobs() []*JobRegistration {
	s.jobsMu.RLock()
	defer s.jobsMu.RUnlock()

	out := make([]*JobRegistration, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, job)
	}

	return out
}

// RefreshJob recomputes a job's next firing instant across its remaining
// triggers and re-arms its timer. Exhausted triggers (those with no
// upcoming occurrence) are removed from the job.
func (s *Scheduler) RefreshJob(job *JobRegistration) {
	if !s.running.Load() {
		return
	}

	now := s.clock()

	triggers := job.snapshotTriggers()

	next := maxInstant
	var nextTrigger Trigger

	for _, t := range triggers {
		first, ok := firstUpcoming(t, now)
		if !ok {
			job.removeTrigger(t)
			continue
		}

		if first.Before(next) {
			next = first
			nextTrigger = t
		}
	}

	job.setScheduledFireTime(next)

	if nextTrigger == nil {
		return
	}

	due := next.Sub(now)
	if due < 0 {
		due = 0
	}

	job.arm(due)
}

// onTick is the job timer's callback: it fires the job unless paused, then
// refreshes it for the next occurrence once the callback completes.
func (s *Scheduler) onTick(job *JobRegistration) {
	if !s.running.Load() {
		return
	}

	if job.paused.Load() {
		return
	}

	now := s.clock()
	job.setActualFireTime(now)
	job.running.Store(true)

	scheduled, _, _, _ := job.snapshotTimes()

	ctx := ExecutionContext{
		ScheduledFireTime: scheduled,
		ActualFireTime:    now,
		Data:              job.data,
	}

	s.logger.Debug().Interface("data", job.data).Msg("job firing")

	job.execute(ctx,
		func(err error) { s.onJobError(job, ctx, err) },
		func() { s.onJobComplete(job) },
	)
}

func (s *Scheduler) onJobComplete(job *JobRegistration) {
	job.running.Store(false)

	if s.running.Load() {
		s.RefreshJob(job)
	}
}

func (s *Scheduler) onJobError(job *JobRegistration, ctx ExecutionContext, err error) {
	job.running.Store(false)

	err = unwrapSingle(err)

	s.logger.Error().Err(err).Interface("data", job.data).Msg("job callback failed")

	s.observersMu.Lock()
	observers := append([]func(ExecutionContext, error)(nil), s.observers...)
	s.observersMu.Unlock()

	for _, obs := range observers {
		obs(ctx, &JobError{Context: ctx, Err: err})
	}
}
