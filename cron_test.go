package chronos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustUTC(layout, value string) time.Time {
	t, err := time.Parse(layout, value)
	if err != nil {
		panic(err)
	}
	return t
}

func base(value string) time.Time {
	return mustUTC(time.RFC3339, value)
}

func firstN(t Trigger, from time.Time, n int) []time.Time {
	out := make([]time.Time, 0, n)
	next := from
	for i := 0; i < n; i++ {
		v, ok := firstUpcoming(t, next)
		if !ok {
			break
		}
		out = append(out, v)
		next = v.Add(time.Second)
	}
	return out
}

func TestCronEverySecond(t *testing.T) {
	// S1
	trig, err := ParseCron("* * * * * ?")
	require.NoError(t, err)

	got := firstN(trig, base("2020-06-01T00:00:00Z"), 5)
	require.Len(t, got, 5)

	want := []string{
		"2020-06-01T00:00:00Z", "2020-06-01T00:00:01Z", "2020-06-01T00:00:02Z",
		"2020-06-01T00:00:03Z", "2020-06-01T00:00:04Z",
	}
	for i, w := range want {
		assert.Equal(t, base(w), got[i])
	}
}

func TestCronStepWithOffset(t *testing.T) {
	// S2
	trig, err := ParseCron("0 0/15 * * * ?")
	require.NoError(t, err)

	got := firstN(trig, base("2020-06-01T00:07:00Z"), 3)
	require.Len(t, got, 3)

	want := []string{"2020-06-01T00:15:00Z", "2020-06-01T00:30:00Z", "2020-06-01T00:45:00Z"}
	for i, w := range want {
		assert.Equal(t, base(w), got[i])
	}
}

func TestCronLastFridayOfMonth(t *testing.T) {
	// S3
	trig, err := ParseCron("0 0 9 ? * 6L")
	require.NoError(t, err)

	got := firstN(trig, base("2020-01-01T00:00:00Z"), 2)
	require.Len(t, got, 2)

	assert.Equal(t, base("2020-01-31T09:00:00Z"), got[0])
	assert.Equal(t, base("2020-02-28T09:00:00Z"), got[1])
}

func TestCronFirstMonday(t *testing.T) {
	// S4
	trig, err := ParseCron("0 0 9 ? * 2F")
	require.NoError(t, err)

	got := firstN(trig, base("2020-01-01T00:00:00Z"), 1)
	require.Len(t, got, 1)
	assert.Equal(t, base("2020-01-06T09:00:00Z"), got[0])
}

func TestCronOddWeeksMondays(t *testing.T) {
	// S5
	trig, err := ParseCron("0 0 9 ? * 2O")
	require.NoError(t, err)

	got := firstN(trig, base("2001-01-01T00:00:00Z"), 2)
	require.Len(t, got, 2)

	assert.Equal(t, base("2001-01-01T09:00:00Z"), got[0])
	assert.Equal(t, base("2001-01-15T09:00:00Z"), got[1])
}

func TestCronMonthNames(t *testing.T) {
	// S6
	trig, err := ParseCron("0 0 0 1 JAN,JUL ?")
	require.NoError(t, err)

	got := firstN(trig, base("2020-03-01T00:00:00Z"), 2)
	require.Len(t, got, 2)

	assert.Equal(t, base("2020-07-01T00:00:00Z"), got[0])
	assert.Equal(t, base("2021-01-01T00:00:00Z"), got[1])
}

func TestCronMonotonicAndAboveBase(t *testing.T) {
	trig, err := ParseCron("*/7 */3 * * * ?")
	require.NoError(t, err)

	from := base("2020-06-01T00:00:00Z")
	got := firstN(trig, from, 50)
	require.NotEmpty(t, got)

	prev := from
	for _, v := range got {
		assert.False(t, v.Before(prev))
		prev = v
	}
}

func TestCronRoundTrip(t *testing.T) {
	for _, expr := range []string{
		"* * * * * ?",
		"0 0/15 * * * ?",
		"0 0 9 ? * 6L",
		"0 0 9 ? * 2F",
		"0 0 0 1 JAN,JUL ?",
		"0,30 15-45/5 9,12,18 1-5 * 3O",
	} {
		trig, err := ParseCron(expr)
		require.NoError(t, err, expr)

		again, err := ParseCron(trig.String())
		require.NoError(t, err, trig.String())

		assert.Equal(t, trig.expr.seconds, again.expr.seconds, expr)
		assert.Equal(t, trig.expr.minutes, again.expr.minutes, expr)
		assert.Equal(t, trig.expr.hours, again.expr.hours, expr)
		assert.Equal(t, trig.expr.days, again.expr.days, expr)
		assert.Equal(t, trig.expr.months, again.expr.months, expr)
		assert.Equal(t, trig.expr.weekdays, again.expr.weekdays, expr)
	}
}

func TestCronParseErrors(t *testing.T) {
	_, err := ParseCron("a * * * * ?")
	assert.Error(t, err)

	_, err = ParseCron("* * * * *")
	assert.Error(t, err)

	_, err = ParseCron("* * * * * * *")
	assert.Error(t, err)

	_, err = ParseCron("* * * * XYZ ?")
	assert.Error(t, err)

	_, err = ParseCron("1F * * * * ?") // suffix on a non-weekday field
	assert.Error(t, err)
}

func TestCronTimeZoneConversion(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	trig, err := NewCronTriggerIn("0 0 12 * * ?", ny)
	require.NoError(t, err)

	first, ok := firstUpcoming(trig, base("2020-06-01T00:00:00Z"))
	require.True(t, ok)
	assert.Equal(t, ny, first.Location())
}

func TestWeekdayNumberingSundayIsOne(t *testing.T) {
	// 2020-06-07 is a Sunday.
	trig, err := ParseCron("0 0 0 ? * 1")
	require.NoError(t, err)

	got, ok := firstUpcoming(trig, base("2020-06-01T00:00:00Z"))
	require.True(t, ok)
	assert.Equal(t, base("2020-06-07T00:00:00Z"), got)
}
