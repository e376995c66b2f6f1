// internal/domain/plan/billing.go
package plan

import "time"

// AddInterval advances t by count billing intervals. Day and week intervals
// add fixed day counts; month and year additions clamp the day of month so
// Jan 31 + 1 month lands on the last day of February instead of rolling into
// March.
func AddInterval(t time.Time, interval BillingInterval, count int) time.Time {
	switch interval {
	case IntervalDay:
		return t.AddDate(0, 0, count)
	case IntervalWeek:
		return t.AddDate(0, 0, 7*count)
	case IntervalMonth:
		return addMonthsClamped(t, count)
	case IntervalYear:
		return addMonthsClamped(t, 12*count)
	default:
		return t
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	m := int(month) - 1 + months
	year += m / 12
	month = time.Month(m%12 + 1)

	if last := daysInMonth(year, month); day > last {
		day = last
	}

	h, min, sec := t.Clock()
	return time.Date(year, month, day, h, min, sec, t.Nanosecond(), t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
