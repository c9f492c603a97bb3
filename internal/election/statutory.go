package election

import "time"

// GeneralElectionDate returns the statutory general election date for a
// year: the first Tuesday after the first Monday in November.
func GeneralElectionDate(year int) time.Time {
	nov1 := time.Date(year, time.November, 1, 0, 0, 0, 0, time.UTC)

	daysUntilMonday := (int(time.Monday) - int(nov1.Weekday()) + 7) % 7
	firstMonday := nov1.AddDate(0, 0, daysUntilMonday)
	return firstMonday.AddDate(0, 0, 1)
}

// CycleYear returns the even election year containing or following t.
func CycleYear(t time.Time) int {
	year := t.Year()
	if year%2 != 0 {
		year++
	}
	return year
}

// CycleCutoff returns the statutory general election date bounding the
// cycle that t falls in. If t is already past that year's general
// election, the cutoff rolls to the next cycle.
func CycleCutoff(t time.Time) time.Time {
	cutoff := GeneralElectionDate(CycleYear(t))
	if t.After(cutoff) {
		cutoff = GeneralElectionDate(CycleYear(t) + 2)
	}
	return cutoff
}
