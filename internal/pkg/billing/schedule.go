package billing

import "time"

// Weekly payments are collected on Fridays at 10:00 local time.
const (
	paymentWeekday = time.Friday
	paymentHour    = 10
)

// nextFriday returns the upcoming Friday payment time. A Friday "now" rolls
// to the same day.
func nextFriday(now time.Time) time.Time {
	day := now.Weekday()
	daysUntil := int(paymentWeekday-day+7) % 7
	due := now.AddDate(0, 0, daysUntil)
	return time.Date(due.Year(), due.Month(), due.Day(), paymentHour, 0, 0, 0, due.Location())
}

// isPaymentDay reports whether weekly payments are due today.
func isPaymentDay(now time.Time) bool {
	return now.Weekday() == paymentWeekday
}
