package chronos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterSpecsSyncAndAsync(t *testing.T) {
	sched := NewScheduler()
	defer sched.Dispose()

	syncFired := make(chan struct{}, 1)
	asyncFired := make(chan struct{}, 1)

	err := sched.RegisterSpecs(
		JobSpec{
			Key:         "sync-job",
			Expressions: []string{"now"},
			Run: func(ExecutionContext) error {
				syncFired <- struct{}{}
				return nil
			},
		},
		JobSpec{
			Key:         "async-job",
			Expressions: []string{"now"},
			RunAsync: func(ExecutionContext) <-chan error {
				ch := make(chan error, 1)
				asyncFired <- struct{}{}
				ch <- nil
				return ch
			},
		},
	)
	require.NoError(t, err)
	require.NoError(t, sched.Start())

	select {
	case <-syncFired:
	case <-time.After(2 * time.Second):
		t.Fatal("sync spec job did not fire")
	}

	select {
	case <-asyncFired:
	case <-time.After(2 * time.Second):
		t.Fatal("async spec job did not fire")
	}

	assert.Len(t, sched.GetAllJobs(), 2)
}

func TestRegisterSpecsRejectsBothCallbacks(t *testing.T) {
	sched := NewScheduler()
	defer sched.Dispose()

	err := sched.RegisterSpecs(JobSpec{
		Key:         "bad",
		Expressions: []string{"now"},
		Run:         func(ExecutionContext) error { return nil },
		RunAsync:    func(ExecutionContext) <-chan error { return nil },
	})
	assert.Error(t, err)
}

func TestRegisterSpecsRejectsMissingKey(t *testing.T) {
	sched := NewScheduler()
	defer sched.Dispose()

	err := sched.RegisterSpecs(JobSpec{
		Expressions: []string{"now"},
		Run:         func(ExecutionContext) error { return nil },
	})
	assert.Error(t, err)
}

func TestRegisterSpecsRejectsBadExpression(t *testing.T) {
	sched := NewScheduler()
	defer sched.Dispose()

	err := sched.RegisterSpecs(JobSpec{
		Key:         "bad-expr",
		Expressions: []string{"not-a-trigger"},
		Run:         func(ExecutionContext) error { return nil },
	})
	assert.Error(t, err)
}

func TestRegisterSpecsWithZone(t *testing.T) {
	sched := NewScheduler()
	defer sched.Dispose()

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	err = sched.RegisterSpecs(JobSpec{
		Key:         "zoned",
		Expressions: []string{"0 0 9 * * ?"},
		Zone:        tokyo,
		Run:         func(ExecutionContext) error { return nil },
	})
	require.NoError(t, err)

	info, err := sched.GetJobInfo("zoned")
	require.NoError(t, err)

	triggers := info.Triggers().Snapshot()
	require.Len(t, triggers, 1)

	ct, ok := triggers[0].(*CronTrigger)
	require.True(t, ok)
	assert.Equal(t, tokyo, ct.expr.zone)
}
