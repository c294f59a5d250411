package chronos

import (
	"sync"
	"sync/atomic"
	"time"
)

// maxInstant is the "no more firings" sentinel used internally for
// scheduledFireTime when a job has no triggers left. It is never exposed
// to callers: JobInfo.ScheduledFireTime reports it as (time.Time{}, false).
var maxInstant = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)

// JobRegistration is a job's private state: its triggers, its single-shot
// timer, and the flags describing whether it is paused or mid-execution.
type JobRegistration struct {
	data any

	syncFn  JobFunc
	asyncFn AsyncJobFunc

	sched *Scheduler

	triggersMu sync.Mutex
	triggers   []Trigger

	timerMu sync.Mutex
	timer   *time.Timer // nil iff disposed

	paused  atomic.Bool
	running atomic.Bool

	timesMu           sync.Mutex
	scheduledFireTime time.Time
	actualFireTime    time.Time
	hasFired          bool
}

func newJobRegistration(sched *Scheduler, data any, triggers []Trigger) *JobRegistration {
	j := &JobRegistration{
		data:              data,
		sched:             sched,
		triggers:          append([]Trigger(nil), triggers...),
		scheduledFireTime: maxInstant,
	}

	j.timer = time.AfterFunc(time.Duration(1<<62-1), func() { sched.onTick(j) })
	j.timer.Stop() // disarmed until the first RefreshJob

	return j
}

// snapshotTriggers returns a copy of the job's current trigger list, safe
// against concurrent mutation.
func (j *JobRegistration) snapshotTriggers() []Trigger {
	j.triggersMu.Lock()
	defer j.triggersMu.Unlock()

	return append([]Trigger(nil), j.triggers...)
}

func (j *JobRegistration) removeTrigger(t Trigger) {
	j.triggersMu.Lock()
	defer j.triggersMu.Unlock()

	for i, cur := range j.triggers {
		if cur == t {
			j.triggers = append(j.triggers[:i], j.triggers[i+1:]...)
			return
		}
	}
}

func (j *JobRegistration) addTrigger(t Trigger) {
	j.triggersMu.Lock()
	j.triggers = append(j.triggers, t)
	j.triggersMu.Unlock()
}

func (j *JobRegistration) clearTriggers() {
	j.triggersMu.Lock()
	j.triggers = nil
	j.triggersMu.Unlock()
}

// arm schedules a single fire after d, unless the job has been disposed.
func (j *JobRegistration) arm(d time.Duration) {
	j.timerMu.Lock()
	defer j.timerMu.Unlock()

	if j.timer == nil {
		return
	}

	j.timer.Stop()
	j.timer.Reset(d)
}

// disarm prevents the timer from firing without disposing it.
func (j *JobRegistration) disarm() {
	j.timerMu.Lock()
	defer j.timerMu.Unlock()

	if j.timer == nil {
		return
	}

	j.timer.Stop()
}

// dispose permanently stops and releases the timer. Subsequent arm/disarm
// calls are no-ops (invariant: timer == nil iff disposed).
func (j *JobRegistration) dispose() {
	j.timerMu.Lock()
	defer j.timerMu.Unlock()

	if j.timer == nil {
		return
	}

	j.timer.Stop()
	j.timer = nil
}

func (j *JobRegistration) setScheduledFireTime(t time.Time) {
	j.timesMu.Lock()
	j.scheduledFireTime = t
	j.timesMu.Unlock()
}

func (j *JobRegistration) setActualFireTime(t time.Time) {
	j.timesMu.Lock()
	j.actualFireTime = t
	j.hasFired = true
	j.timesMu.Unlock()
}

func (j *JobRegistration) snapshotTimes() (scheduled time.Time, scheduledOK bool, actual time.Time, actualOK bool) {
	j.timesMu.Lock()
	defer j.timesMu.Unlock()

	scheduled = j.scheduledFireTime
	scheduledOK = !scheduled.Equal(maxInstant)
	actual = j.actualFireTime
	actualOK = j.hasFired

	return
}

// execute runs the job's callback (synchronous or asynchronous shape) and
// invokes onComplete exactly once, after any onError call, regardless of
// which shape was taken or whether the callback failed.
func (j *JobRegistration) execute(ctx ExecutionContext, onError func(error), onComplete func()) {
	switch {
	case j.syncFn != nil:
		err := j.syncFn(ctx)
		if err != nil {
			onError(err)
		}
		onComplete()

	case j.asyncFn != nil:
		ch := j.asyncFn(ctx)
		go func() {
			err := <-ch
			if err != nil {
				onError(err)
			}
			onComplete()
		}()
	}
}
