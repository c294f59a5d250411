package chronos

import "time"

// ExecutionContext is passed to a job's callback. Timestamps are set by the
// Scheduler; the callback only ever reads this value.
type ExecutionContext struct {
	// ScheduledFireTime is the instant the Scheduler armed the job's timer
	// for.
	ScheduledFireTime time.Time

	// ActualFireTime is the instant the timer actually fired and the
	// callback was invoked.
	ActualFireTime time.Time

	// Data is the job's identity key, as passed to ScheduleJob/
	// ScheduleAsyncJob.
	Data any
}

// JobFunc is a synchronous job callback. It runs inline on the goroutine
// the Scheduler's timer fired on; the Scheduler waits for it to return
// before re-arming the job.
type JobFunc func(ctx ExecutionContext) error

// AsyncJobFunc is an asynchronous job callback. It returns immediately with
// a channel that receives exactly one value (nil on success, the failure
// otherwise) when the underlying work completes; the Scheduler re-arms the
// job only once that value has been received.
type AsyncJobFunc func(ctx ExecutionContext) <-chan error
