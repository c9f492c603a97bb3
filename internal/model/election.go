package model

import "time"

// ElectionDates holds a state's election boundaries for one cycle.
// General is always a concrete date in resolver output; Primary may be
// nil (state without a primary, or data not yet known).
type ElectionDates struct {
	State   string     `json:"state"`
	Primary *time.Time `json:"primary"`
	General time.Time  `json:"general"`
}

// PrimaryEqual compares two optional primary dates, treating a
// nil/non-nil transition as a difference.
func (e ElectionDates) PrimaryEqual(other ElectionDates) bool {
	if e.Primary == nil || other.Primary == nil {
		return e.Primary == nil && other.Primary == nil
	}
	return e.Primary.Equal(*other.Primary)
}

// Equal reports whether both boundaries match.
func (e ElectionDates) Equal(other ElectionDates) bool {
	return e.PrimaryEqual(other) && e.General.Equal(other.General)
}

// EffectiveLimits is the calculator's output: how much a donor may
// still give and when the limit next resets. Value object, created
// fresh per call. Amounts are cents.
type EffectiveLimits struct {
	Tier           ComplianceTier `json:"compliance_tier"`
	ResetType      ResetType      `json:"reset_type"`
	ResetTime      string         `json:"reset_time"`
	EffectiveLimit int64          `json:"effective_limit"`
	RemainingLimit int64          `json:"remaining_limit"`
	ResetDate      time.Time      `json:"reset_date"`
	NextResetDate  *time.Time     `json:"next_reset_date,omitempty"`
}

// SessionInfo aggregates the session boundary service's view of the
// current Congress for presentation to callers.
type SessionInfo struct {
	Congress            int       `json:"congress"`
	Session             int       `json:"session"`
	SessionEndDate      time.Time `json:"session_end_date"`
	HasEnded            bool      `json:"has_ended"`
	InWarningPeriod     bool      `json:"in_warning_period"`
	NextGeneralElection time.Time `json:"next_general_election"`
}

// NotificationImpact describes the estimated effect of an election-date
// change on one donor's remaining limit. Not persisted.
type NotificationImpact struct {
	HasImpact    bool   `json:"has_impact"`
	OldLimit     int64  `json:"old_limit,omitempty"`
	NewLimit     int64  `json:"new_limit,omitempty"`
	LimitChanged bool   `json:"limit_changed,omitempty"`
	Description  string `json:"impact_description"`
}
