package chronos

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// JobSpec declares a job data-first: a key, the cron/now/manual
// expressions to build its triggers from, and exactly one of Run/RunAsync.
// It lets callers batch-register jobs declaratively instead of calling
// ScheduleJob/ScheduleAsyncJob one at a time.
type JobSpec struct {
	Key         any            `validate:"required"`
	Expressions []string       `validate:"required,min=1,dive,required"`
	Zone        *time.Location `validate:"-"`
	Run         JobFunc        `validate:"-"`
	RunAsync    AsyncJobFunc   `validate:"-"`
}

var specValidator = sync.OnceValue(func() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
})

// RegisterSpecs validates and registers a batch of JobSpecs against s. It
// stops at the first invalid spec or duplicate key and returns that error;
// specs already registered before the failure remain registered, matching
// ScheduleJob's own non-transactional semantics.
func (s *Scheduler) RegisterSpecs(specs ...JobSpec) error {
	v := specValidator()

	for i, spec := range specs {
		if err := v.Struct(spec); err != nil {
			return fmt.Errorf("chronos: job spec %d: %w", i, err)
		}

		if (spec.Run == nil) == (spec.RunAsync == nil) {
			return fmt.Errorf("%w: job spec %d (%v): exactly one of Run/RunAsync must be set", errInvalidSpec, i, spec.Key)
		}

		triggers := make([]Trigger, 0, len(spec.Expressions))
		for _, expr := range spec.Expressions {
			t, err := CreateTrigger(expr)
			if err != nil {
				return fmt.Errorf("chronos: job spec %d (%v): %w", i, spec.Key, err)
			}

			if ct, ok := t.(*CronTrigger); ok && spec.Zone != nil {
				ct.expr.zone = spec.Zone
			}

			triggers = append(triggers, t)
		}

		var err error
		if spec.Run != nil {
			err = s.ScheduleJob(spec.Key, spec.Run, triggers...)
		} else {
			err = s.ScheduleAsyncJob(spec.Key, spec.RunAsync, triggers...)
		}

		if err != nil {
			return fmt.Errorf("chronos: job spec %d (%v): %w", i, spec.Key, err)
		}
	}

	return nil
}

// errInvalidSpec is returned for programmer errors in JobSpec construction
// that the validator tags can't express (e.g. both callbacks set).
var errInvalidSpec = errors.New("chronos: invalid job spec")
