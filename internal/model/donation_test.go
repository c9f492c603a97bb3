package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDonationCountable(t *testing.T) {
	assert.True(t, Donation{}.Countable())
	assert.False(t, Donation{Resolved: true}.Countable())
	assert.False(t, Donation{Defunct: true}.Countable())
	assert.False(t, Donation{Paused: true}.Countable())
}

func TestCelebrationActive(t *testing.T) {
	assert.True(t, Celebration{}.Active())
	assert.False(t, Celebration{Resolved: true}.Active())
	assert.False(t, Celebration{Defunct: true}.Active())
	assert.False(t, Celebration{Paused: true}.Active())
}

func TestElectionDatesEqual(t *testing.T) {
	primary := time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	general := time.Date(2026, time.November, 3, 0, 0, 0, 0, time.UTC)

	a := ElectionDates{State: "CA", Primary: &primary, General: general}
	b := ElectionDates{State: "CA", Primary: &primary, General: general}
	assert.True(t, a.Equal(b))

	// General moved.
	c := b
	c.General = general.AddDate(0, 0, 7)
	assert.False(t, a.Equal(c))

	// Primary appearing or disappearing is a change.
	d := b
	d.Primary = nil
	assert.False(t, a.Equal(d))
	assert.False(t, d.Equal(a))
	assert.True(t, d.Equal(ElectionDates{State: "CA", General: general}))

	// Primary moved.
	shifted := primary.AddDate(0, 0, 14)
	e := b
	e.Primary = &shifted
	assert.False(t, a.Equal(e))
}
