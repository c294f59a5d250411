package chronos

import (
	"iter"
	"time"
)

// CronTrigger enumerates upcoming instants matching a CronExpression.
type CronTrigger struct {
	expr *CronExpression
}

func (t *CronTrigger) Expression() string { return t.expr.expr }

// String returns the canonical, reparseable form of the trigger's
// underlying CronExpression.
func (t *CronTrigger) String() string { return t.expr.String() }

// Upcoming yields every instant >= base that matches the cron expression,
// in ascending order, up to year 9999.
func (t *CronTrigger) Upcoming(base time.Time) iter.Seq[time.Time] {
	ce := t.expr

	return func(yield func(time.Time) bool) {
		loc := base.Location()

		baseYear, baseMonth, baseDay := base.Date()
		baseHour, baseMin, baseSec := base.Clock()

		for year := baseYear; year <= 9999; year++ {
			yearEq := year == baseYear

			for _, month := range ce.months {
				if yearEq && month < int(baseMonth) {
					continue
				}
				monthEq := yearEq && month == int(baseMonth)

				daysInMo := daysInMonth(year, time.Month(month), loc)

				for _, day := range ce.days {
					if day > daysInMo {
						continue
					}
					if monthEq && day < baseDay {
						continue
					}
					dayEq := monthEq && day == baseDay

					for _, hour := range ce.hours {
						if dayEq && hour < baseHour {
							continue
						}
						hourEq := dayEq && hour == baseHour

						for _, minute := range ce.minutes {
							if hourEq && minute < baseMin {
								continue
							}
							minuteEq := hourEq && minute == baseMin

							for _, second := range ce.seconds {
								if minuteEq && second < baseSec {
									continue
								}

								candidate := time.Date(year, time.Month(month), day, hour, minute, second, 0, loc)
								if candidate.Before(base) {
									continue
								}

								if !weekdayMatches(ce, candidate, daysInMo) {
									continue
								}

								out := candidate
								if ce.zone != nil {
									out = candidate.In(ce.zone)
								}

								if !yield(out) {
									return
								}
							}
						}
					}
				}
			}
		}
	}
}

func daysInMonth(year int, month time.Month, loc *time.Location) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// weekdayMatches applies the day-of-week filter, including ordinal
// (first/last-in-month) and parity (odd/even-week) qualifiers. w uses
// Sunday=1..Saturday=7 numbering.
func weekdayMatches(ce *CronExpression, t time.Time, daysInMo int) bool {
	if len(ce.weekdays) == 0 {
		return true
	}

	w := int(t.Weekday()) + 1
	day := t.Day()

	for _, v := range ce.weekdays {
		base := v % 10
		tier := v - base
		if base != w {
			continue
		}

		switch tier {
		case 0:
			return true
		case 10: // first occurrence of this weekday in the month
			if day <= 7 {
				return true
			}
		case 20: // last occurrence of this weekday in the month
			if day+7 > daysInMo {
				return true
			}
		case 30: // odd week
			if isOddWeek(t) {
				return true
			}
		case 40: // even week
			if !isOddWeek(t) {
				return true
			}
		}
	}

	return false
}

// referenceMonday is week 1, declared odd.
var referenceMonday = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// isOddWeek implements the 14-day parity cycle referenced to 2001-01-01,
// a Monday declared week-1-odd. Only the calendar date matters, not the
// time of day or t's location, so both instants are normalized to UTC
// midnight before differencing.
func isOddWeek(t time.Time) bool {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	days := (midnight.Unix() - referenceMonday.Unix()) / 86400
	mod := ((days % 14) + 14) % 14

	return mod < 7
}
