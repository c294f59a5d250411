// Package chronos is an in-process job scheduler: user callbacks fire at
// times defined by one or more triggers (an extended six-field cron
// expression, a one-shot "now" trigger, or a never-firing "manual"
// trigger). Scheduler owns a thread-safe registry of jobs; each job owns
// its own single-shot timer and a dynamic set of triggers. The Scheduler
// arms the earliest upcoming occurrence across a job's triggers, dispatches
// the job's callback asynchronously, and re-arms once it completes.
//
// chronos does not persist jobs across process restarts, coordinate across
// processes, retry or prioritize missed firings, or rate-limit dispatch.
package chronos
