package poller

import "time"

// Dates returns start + k*stepDays for k = 0, 1, ... while the result is
// before end.
func Dates(start, end time.Time, stepDays int) []time.Time {
	if stepDays <= 0 || !start.Before(end) {
		return nil
	}

	var dates []time.Time
	for k := 0; ; k++ {
		d := start.AddDate(0, 0, k*stepDays)
		if !d.Before(end) {
			return dates
		}
		dates = append(dates, d)
	}
}
