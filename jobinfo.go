package chronos

import "time"

// JobInfo is the external, read-mostly view of a registered job. It is
// safe to hold onto and use concurrently with the job firing.
type JobInfo struct {
	job   *JobRegistration
	sched *Scheduler
}

// Data returns the job's identity key.
func (i *JobInfo) Data() any { return i.job.data }

// Paused reports whether the job is currently paused.
func (i *JobInfo) Paused() bool { return i.job.paused.Load() }

// Running reports whether the job's callback is currently executing.
func (i *JobInfo) Running() bool { return i.job.running.Load() }

// ActualFireTime returns the instant the job last fired, and whether it
// has fired at all.
func (i *JobInfo) ActualFireTime() (time.Time, bool) {
	_, _, actual, ok := i.job.snapshotTimes()
	return actual, ok
}

// ScheduledFireTime returns the instant the job is next armed to fire, and
// false if it has no triggers left to fire from.
func (i *JobInfo) ScheduledFireTime() (time.Time, bool) {
	scheduled, ok, _, _ := i.job.snapshotTimes()
	if !ok {
		return time.Time{}, false
	}
	return scheduled, true
}

// Pause suppresses firing without removing the job's registration or
// triggers. It fails with ErrDisposed if the job has been unscheduled or
// the scheduler disposed.
func (i *JobInfo) Pause() error {
	i.job.timerMu.Lock()
	disposed := i.job.timer == nil
	i.job.timerMu.Unlock()

	if disposed {
		return ErrDisposed
	}

	i.job.paused.Store(true)
	i.job.disarm()

	return nil
}

// Resume clears Paused and refreshes the job so it re-arms from the
// current clock, firing once at the next occurrence — it does not replay
// any occurrences missed while paused. It fails with ErrDisposed if the job
// has been unscheduled or the scheduler disposed.
func (i *JobInfo) Resume() error {
	i.job.timerMu.Lock()
	disposed := i.job.timer == nil
	i.job.timerMu.Unlock()

	if disposed {
		return ErrDisposed
	}

	i.job.paused.Store(false)
	i.sched.RefreshJob(i.job)

	return nil
}

// Triggers exposes the job's trigger-mutation operations.
func (i *JobInfo) Triggers() TriggerHandle {
	return TriggerHandle{job: i.job, sched: i.sched}
}

// TriggerHandle mutates a job's trigger list; every mutation refreshes the
// job's next fire time.
type TriggerHandle struct {
	job   *JobRegistration
	sched *Scheduler
}

// Add appends t to the job's triggers and refreshes.
func (h TriggerHandle) Add(t Trigger) {
	h.job.addTrigger(t)
	h.sched.RefreshJob(h.job)
}

// Remove removes t from the job's triggers (if present) and refreshes.
func (h TriggerHandle) Remove(t Trigger) {
	h.job.removeTrigger(t)
	h.sched.RefreshJob(h.job)
}

// Clear removes every trigger from the job and refreshes.
func (h TriggerHandle) Clear() {
	h.job.clearTriggers()
	h.sched.RefreshJob(h.job)
}

// Snapshot returns a copy of the job's current trigger list, safe against
// concurrent mutation.
func (h TriggerHandle) Snapshot() []Trigger {
	return h.job.snapshotTriggers()
}
