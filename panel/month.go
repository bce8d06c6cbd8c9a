package panel

import "time"

// MonthStart truncates t to the first instant of its calendar month in UTC.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// IsMonthStart reports whether t is exactly the first instant of a month in UTC.
func IsMonthStart(t time.Time) bool {
	return t.Equal(MonthStart(t))
}

// AddMonths shifts a month start by n calendar months.
func AddMonths(t time.Time, n int) time.Time {
	t = MonthStart(t)
	return time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
}

// NextMonths returns the n consecutive month starts immediately following last.
func NextMonths(last time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	months := make([]time.Time, 0, n)
	for i := 1; i <= n; i++ {
		months = append(months, AddMonths(last, i))
	}
	return months
}

// MonthsBetween counts the calendar months from a to b, negative if b is before a.
func MonthsBetween(a, b time.Time) int {
	a, b = MonthStart(a), MonthStart(b)
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
