package election

import (
	"context"
	"strings"
	"time"

	"github.com/civicgive/compliance-cli/internal/model"
)

// monthDay is a year-agnostic calendar date; the lookup year is
// substituted at resolve time.
type monthDay struct {
	Month time.Month
	Day   int
}

func (md monthDay) in(year int) time.Time {
	return time.Date(year, md.Month, md.Day, 0, 0, 0, 0, time.UTC)
}

// stateDefault carries the fallback primary and general dates for one
// state. Sourced from the most recent published election calendar;
// states absent from the table fall through to statutory computation.
type stateDefault struct {
	Primary monthDay
	General monthDay
}

var defaultElectionDates = map[string]stateDefault{
	"AL": {Primary: monthDay{time.May, 19}, General: monthDay{time.November, 3}},
	"AK": {Primary: monthDay{time.August, 18}, General: monthDay{time.November, 3}},
	"AZ": {Primary: monthDay{time.August, 4}, General: monthDay{time.November, 3}},
	"AR": {Primary: monthDay{time.March, 3}, General: monthDay{time.November, 3}},
	"CA": {Primary: monthDay{time.June, 2}, General: monthDay{time.November, 3}},
	"CO": {Primary: monthDay{time.June, 30}, General: monthDay{time.November, 3}},
	"CT": {Primary: monthDay{time.August, 11}, General: monthDay{time.November, 3}},
	"DE": {Primary: monthDay{time.September, 15}, General: monthDay{time.November, 3}},
	"DC": {Primary: monthDay{time.June, 2}, General: monthDay{time.November, 3}},
	"FL": {Primary: monthDay{time.August, 18}, General: monthDay{time.November, 3}},
	"GA": {Primary: monthDay{time.May, 19}, General: monthDay{time.November, 3}},
	"HI": {Primary: monthDay{time.August, 8}, General: monthDay{time.November, 3}},
	"ID": {Primary: monthDay{time.May, 19}, General: monthDay{time.November, 3}},
	"IL": {Primary: monthDay{time.March, 17}, General: monthDay{time.November, 3}},
	"IN": {Primary: monthDay{time.May, 5}, General: monthDay{time.November, 3}},
	"IA": {Primary: monthDay{time.June, 2}, General: monthDay{time.November, 3}},
	"KS": {Primary: monthDay{time.August, 4}, General: monthDay{time.November, 3}},
	"KY": {Primary: monthDay{time.May, 19}, General: monthDay{time.November, 3}},
	"LA": {Primary: monthDay{time.November, 3}, General: monthDay{time.December, 5}},
	"ME": {Primary: monthDay{time.June, 9}, General: monthDay{time.November, 3}},
	"MD": {Primary: monthDay{time.June, 2}, General: monthDay{time.November, 3}},
	"MA": {Primary: monthDay{time.September, 1}, General: monthDay{time.November, 3}},
	"MI": {Primary: monthDay{time.August, 4}, General: monthDay{time.November, 3}},
	"MN": {Primary: monthDay{time.August, 11}, General: monthDay{time.November, 3}},
	"MS": {Primary: monthDay{time.March, 10}, General: monthDay{time.November, 3}},
	"MO": {Primary: monthDay{time.August, 4}, General: monthDay{time.November, 3}},
	"MT": {Primary: monthDay{time.June, 2}, General: monthDay{time.November, 3}},
	"NE": {Primary: monthDay{time.May, 12}, General: monthDay{time.November, 3}},
	"NV": {Primary: monthDay{time.June, 9}, General: monthDay{time.November, 3}},
	"NH": {Primary: monthDay{time.September, 8}, General: monthDay{time.November, 3}},
	"NJ": {Primary: monthDay{time.June, 2}, General: monthDay{time.November, 3}},
	"NM": {Primary: monthDay{time.June, 2}, General: monthDay{time.November, 3}},
	"NY": {Primary: monthDay{time.June, 23}, General: monthDay{time.November, 3}},
	"NC": {Primary: monthDay{time.March, 3}, General: monthDay{time.November, 3}},
	"ND": {Primary: monthDay{time.June, 9}, General: monthDay{time.November, 3}},
	"OH": {Primary: monthDay{time.March, 17}, General: monthDay{time.November, 3}},
	"OK": {Primary: monthDay{time.June, 30}, General: monthDay{time.November, 3}},
	"OR": {Primary: monthDay{time.May, 19}, General: monthDay{time.November, 3}},
	"PA": {Primary: monthDay{time.June, 2}, General: monthDay{time.November, 3}},
	"RI": {Primary: monthDay{time.September, 8}, General: monthDay{time.November, 3}},
	"SC": {Primary: monthDay{time.June, 9}, General: monthDay{time.November, 3}},
	"SD": {Primary: monthDay{time.June, 2}, General: monthDay{time.November, 3}},
	"TN": {Primary: monthDay{time.August, 6}, General: monthDay{time.November, 3}},
	"TX": {Primary: monthDay{time.March, 3}, General: monthDay{time.November, 3}},
	"UT": {Primary: monthDay{time.June, 30}, General: monthDay{time.November, 3}},
	"VT": {Primary: monthDay{time.August, 11}, General: monthDay{time.November, 3}},
	"VA": {Primary: monthDay{time.June, 23}, General: monthDay{time.November, 3}},
	"WA": {Primary: monthDay{time.August, 4}, General: monthDay{time.November, 3}},
	"WV": {Primary: monthDay{time.June, 9}, General: monthDay{time.November, 3}},
	"WI": {Primary: monthDay{time.August, 11}, General: monthDay{time.November, 3}},
}

// DefaultsSource resolves election dates from the hard-coded per-state
// table, substituting the lookup year.
type DefaultsSource struct{}

// NewDefaultsSource creates a DefaultsSource.
func NewDefaultsSource() DefaultsSource { return DefaultsSource{} }

// Name implements Source.
func (DefaultsSource) Name() string { return "defaults" }

// Available implements Source.
func (DefaultsSource) Available() bool { return true }

// Resolve implements Source. A state missing from the table is a miss.
func (DefaultsSource) Resolve(_ context.Context, state string, year int) (*model.ElectionDates, error) {
	entry, ok := defaultElectionDates[strings.ToUpper(state)]
	if !ok {
		return nil, nil
	}

	primary := entry.Primary.in(year)
	return &model.ElectionDates{
		State:   strings.ToUpper(state),
		Primary: &primary,
		General: entry.General.in(year),
	}, nil
}

var _ Source = DefaultsSource{}
