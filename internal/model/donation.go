package model

import "time"

// Donation is a read-only projection of a donation record. Amount is
// cents. The calculator never mutates donations; it only filters and
// sums them.
type Donation struct {
	PolID     string    `json:"pol_id"`
	Amount    int64     `json:"donation"`
	CreatedAt time.Time `json:"created_at"`
	Resolved  bool      `json:"resolved"`
	Defunct   bool      `json:"defunct"`
	Paused    bool      `json:"paused"`
}

// Countable reports whether a donation counts toward consumed limits.
// Resolved donations are excluded here, matching the upstream behavior
// the compliance team has not yet reconciled with the written rule.
func (d Donation) Countable() bool {
	return !d.Resolved && !d.Defunct && !d.Paused
}

// Donor is a projection of the user record the notifier needs: contact
// details, tier, and geographic identity.
type Donor struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	FirstName string         `json:"first_name"`
	Tier      ComplianceTier `json:"compliance_tier"`
	State     string         `json:"state"`
	OCDID     string         `json:"ocd_id"`
}

// Celebration is a projection of a donor's recurring-donation pledge
// toward a politician. Active here is the celebration's own lifecycle
// flags, distinct from Donation.Countable.
type Celebration struct {
	ID       string `json:"id"`
	DonorID  string `json:"donor_id"`
	PolID    string `json:"pol_id"`
	PolState string `json:"pol_state"`
	Resolved bool   `json:"resolved"`
	Defunct  bool   `json:"defunct"`
	Paused   bool   `json:"paused"`
}

// Active reports whether the celebration still represents a live pledge.
func (c Celebration) Active() bool {
	return !c.Resolved && !c.Defunct && !c.Paused
}
