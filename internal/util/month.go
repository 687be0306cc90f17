package util

import "time"

// AddMonths returns the date n calendar months after d, preserving the
// day-of-month where the target month has that many days and otherwise
// clamping to the month's last day (Jan 31 + 1 month = Feb 28/29).
// time.AddDate is not used because it normalizes overflow into the next
// month instead of clamping.
func AddMonths(d time.Time, n int) time.Time {
	year := d.Year()
	month := int(d.Month()) - 1 + n
	year += month / 12
	month = month % 12
	if month < 0 {
		month += 12
		year--
	}
	target := time.Month(month + 1)

	// Last day of the target month, via day 0 of the month after it
	lastDay := time.Date(year, target+1, 0, 0, 0, 0, 0, d.Location()).Day()

	day := d.Day()
	if day > lastDay {
		day = lastDay
	}

	return time.Date(year, target, day, d.Hour(), d.Minute(), d.Second(), d.Nanosecond(), d.Location())
}
