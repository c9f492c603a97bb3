package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicgive/compliance-cli/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteDirectory {
	t.Helper()
	dir, err := NewSQLite(filepath.Join(t.TempDir(), "directory.db"))
	require.NoError(t, err)
	t.Cleanup(func() { dir.Close() }) //nolint:errcheck
	require.NoError(t, dir.Migrate(context.Background()))
	return dir
}

func seedDonor(t *testing.T, dir *SQLiteDirectory, id, email, firstName, tier, state, ocdID string) {
	t.Helper()
	_, err := dir.DB().Exec(
		`INSERT INTO donors (id, email, first_name, compliance_tier, state, ocd_id) VALUES (?, ?, ?, ?, ?, ?)`,
		id, email, firstName, tier, state, ocdID,
	)
	require.NoError(t, err)
}

func seedCelebration(t *testing.T, dir *SQLiteDirectory, id, donorID, polID, polState string, resolved, defunct, paused bool) {
	t.Helper()
	_, err := dir.DB().Exec(
		`INSERT INTO celebrations (id, donor_id, pol_id, pol_state, resolved, defunct, paused) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, donorID, polID, polState, resolved, defunct, paused,
	)
	require.NoError(t, err)
}

func TestSQLiteDonorsWithActiveCelebrations(t *testing.T) {
	dir := newTestSQLite(t)
	ctx := context.Background()

	seedDonor(t, dir, "donor-1", "a@example.com", "Ada", "compliant", "TX", "ocd-division/country:us/state:tx")
	seedDonor(t, dir, "donor-2", "b@example.com", "", "guest", "TX", "ocd-division/country:us/state:tx")
	seedDonor(t, dir, "donor-3", "c@example.com", "Grace", "compliant", "CA", "ocd-division/country:us/state:ca")

	seedCelebration(t, dir, "cel-1", "donor-1", "pol-1", "TX", false, false, false)
	seedCelebration(t, dir, "cel-2", "donor-2", "pol-1", "TX", true, false, false)
	seedCelebration(t, dir, "cel-3", "donor-3", "pol-2", "CA", false, false, false)

	donors, err := dir.DonorsWithActiveCelebrations(ctx, "TX")
	require.NoError(t, err)
	require.Len(t, donors, 1)
	assert.Equal(t, "donor-1", donors[0].ID)
	assert.Equal(t, model.TierCompliant, donors[0].Tier)
}

func TestSQLiteDonorsWithActiveCelebrations_Deduplicates(t *testing.T) {
	dir := newTestSQLite(t)
	ctx := context.Background()

	seedDonor(t, dir, "donor-1", "a@example.com", "Ada", "compliant", "TX", "")
	seedCelebration(t, dir, "cel-1", "donor-1", "pol-1", "TX", false, false, false)
	seedCelebration(t, dir, "cel-2", "donor-1", "pol-2", "TX", false, false, false)

	donors, err := dir.DonorsWithActiveCelebrations(ctx, "TX")
	require.NoError(t, err)
	assert.Len(t, donors, 1)
}

func TestSQLiteDonorsInState(t *testing.T) {
	dir := newTestSQLite(t)
	ctx := context.Background()

	seedDonor(t, dir, "donor-1", "a@example.com", "Ada", "compliant", "TX", "ocd-division/country:us/state:tx")
	seedDonor(t, dir, "donor-2", "b@example.com", "", "guest", "TX", "ocd-division/country:us/state:tx/place:austin")
	seedDonor(t, dir, "donor-3", "c@example.com", "Grace", "compliant", "CA", "ocd-division/country:us/state:ca")

	donors, err := dir.DonorsInState(ctx, "TX", nil)
	require.NoError(t, err)
	assert.Len(t, donors, 2)

	donors, err = dir.DonorsInState(ctx, "TX", []string{"donor-1"})
	require.NoError(t, err)
	require.Len(t, donors, 1)
	assert.Equal(t, "donor-2", donors[0].ID)
}

func TestSQLiteActiveDonations(t *testing.T) {
	dir := newTestSQLite(t)
	ctx := context.Background()

	seedDonor(t, dir, "donor-1", "a@example.com", "Ada", "compliant", "TX", "")
	created := time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)
	_, err := dir.DB().Exec(
		`INSERT INTO donations (id, donor_id, pol_id, amount, created_at, resolved, defunct, paused) VALUES
			('don-1', 'donor-1', 'pol-1', 5000, ?, 0, 0, 0),
			('don-2', 'donor-1', 'pol-2', 2500, ?, 1, 0, 0)`,
		created, created,
	)
	require.NoError(t, err)

	donations, err := dir.ActiveDonations(ctx, "donor-1")
	require.NoError(t, err)
	require.Len(t, donations, 2)
	assert.Equal(t, int64(5000), donations[0].Amount)
	assert.True(t, donations[0].Countable())
	assert.False(t, donations[1].Countable())
}

func TestSQLiteIsUnsubscribed(t *testing.T) {
	dir := newTestSQLite(t)
	ctx := context.Background()

	seedDonor(t, dir, "donor-1", "a@example.com", "Ada", "compliant", "TX", "")
	_, err := dir.DB().Exec(`INSERT INTO unsubscribes (donor_id, topic) VALUES ('donor-1', ?)`, TopicElectionUpdates)
	require.NoError(t, err)

	unsubscribed, err := dir.IsUnsubscribed(ctx, "donor-1", TopicElectionUpdates)
	require.NoError(t, err)
	assert.True(t, unsubscribed)

	unsubscribed, err = dir.IsUnsubscribed(ctx, "donor-1", "weeklyDigest")
	require.NoError(t, err)
	assert.False(t, unsubscribed)
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "mysql"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
