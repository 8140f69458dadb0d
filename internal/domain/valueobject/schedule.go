package valueobject

import "time"

// ScheduleInput holds the parts of a recurrence rule that determine when it runs next.
type ScheduleInput struct {
	Frequency       Frequency
	StartDate       time.Time
	LastRunAt       *time.Time // Date of the last materialized occurrence, nil if never run
	CycleDayOfMonth *int       // 1-31, MONTHLY only
	CycleDayOfWeek  *int       // 0=Sunday..6=Saturday, WEEKLY only
}

// StartOfDay truncates t to its calendar day. The calendar fields are read in t's own
// location and the result is pinned to UTC so stored dates compare consistently.
func StartOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DayInMonthClamped returns the given day of the given month, clamped to the month's
// last day. Months outside 1-12 are normalized (month 13 is January of the next year).
func DayInMonthClamped(year int, month time.Month, day int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := DaysIn(first.Year(), first.Month())
	if day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)
}

// AddMonthsClamped adds n calendar months to the day of t. When the target month is
// shorter than t's day the result is the target month's last day, so Jan 31 + 1 month
// is Feb 29 in a leap year and Feb 28 otherwise.
func AddMonthsClamped(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	return DayInMonthClamped(year, month+time.Month(n), day)
}

// AddYearsClamped adds n years to the day of t. Feb 29 lands on Feb 28 in non-leap years.
func AddYearsClamped(t time.Time, n int) time.Time {
	return AddMonthsClamped(t, 12*n)
}

// NextRun computes the next due date of a recurrence. All values are compared at day
// granularity and the result is always a UTC midnight. now is the reference "today".
//
// NextRun never fails: an unknown frequency yields tomorrow.
func NextRun(in ScheduleInput, now time.Time) time.Time {
	today := StartOfDay(now)
	base := StartOfDay(in.StartDate)
	if in.LastRunAt != nil {
		base = StartOfDay(*in.LastRunAt)
	}
	startReached := !base.After(today)

	switch in.Frequency {
	case FrequencyDaily:
		if in.LastRunAt != nil {
			return base.AddDate(0, 0, 1)
		}
		if startReached {
			return today.AddDate(0, 0, 1)
		}
		return base

	case FrequencyWeekly:
		if in.LastRunAt != nil {
			return base.AddDate(0, 0, 7)
		}
		if in.CycleDayOfWeek != nil {
			target := ((*in.CycleDayOfWeek % 7) + 7) % 7
			offset := target - int(today.Weekday())
			// Matching today's weekday only counts when the rule has not started yet.
			if offset < 0 || (offset == 0 && startReached) {
				offset += 7
			}
			return today.AddDate(0, 0, offset)
		}
		if startReached {
			return today.AddDate(0, 0, 7)
		}
		return base

	case FrequencyMonthly:
		if in.LastRunAt != nil {
			return AddMonthsClamped(base, 1)
		}
		if in.CycleDayOfMonth != nil {
			candidate := DayInMonthClamped(today.Year(), today.Month(), *in.CycleDayOfMonth)
			if candidate.Before(today) || (candidate.Equal(today) && base.Before(today)) {
				candidate = DayInMonthClamped(today.Year(), today.Month()+1, *in.CycleDayOfMonth)
			}
			return candidate
		}
		if startReached {
			return AddMonthsClamped(today, 1)
		}
		return base

	case FrequencyYearly:
		if in.LastRunAt != nil {
			return AddYearsClamped(base, 1)
		}
		if startReached {
			return AddYearsClamped(today, 1)
		}
		return base
	}

	return today.AddDate(0, 0, 1)
}
