package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicgive/compliance-cli/internal/model"
)

func newMockDirectory(t *testing.T) (*PostgresDirectory, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPostgresWithPool(mock), mock
}

func TestPostgresDonorsWithActiveCelebrations(t *testing.T) {
	dir, mock := newMockDirectory(t)

	rows := pgxmock.NewRows([]string{"id", "email", "first_name", "compliance_tier", "state", "ocd_id"}).
		AddRow("donor-1", "a@example.com", "Ada", "compliant", "TX", "ocd-division/country:us/state:tx").
		AddRow("donor-2", "b@example.com", "", "guest", "TX", "")
	mock.ExpectQuery(regexp.QuoteMeta(preparedStatements["donors_with_celebrations"])).
		WithArgs("TX").
		WillReturnRows(rows)

	donors, err := dir.DonorsWithActiveCelebrations(context.Background(), "TX")
	require.NoError(t, err)
	require.Len(t, donors, 2)
	assert.Equal(t, "donor-1", donors[0].ID)
	assert.Equal(t, model.TierCompliant, donors[0].Tier)
	assert.Equal(t, model.TierGuest, donors[1].Tier)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDonorsInState(t *testing.T) {
	dir, mock := newMockDirectory(t)

	rows := pgxmock.NewRows([]string{"id", "email", "first_name", "compliance_tier", "state", "ocd_id"}).
		AddRow("donor-3", "c@example.com", "Grace", "compliant", "CA", "ocd-division/country:us/state:ca/place:oakland")
	mock.ExpectQuery(regexp.QuoteMeta(preparedStatements["donors_in_state"])).
		WithArgs("ocd-division/country:us/state:ca", []string{"donor-1"}).
		WillReturnRows(rows)

	donors, err := dir.DonorsInState(context.Background(), "CA", []string{"donor-1"})
	require.NoError(t, err)
	require.Len(t, donors, 1)
	assert.Equal(t, "donor-3", donors[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDonorsInState_NilExclusions(t *testing.T) {
	dir, mock := newMockDirectory(t)

	mock.ExpectQuery(regexp.QuoteMeta(preparedStatements["donors_in_state"])).
		WithArgs("ocd-division/country:us/state:ca", []string{}).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "first_name", "compliance_tier", "state", "ocd_id"}))

	donors, err := dir.DonorsInState(context.Background(), "CA", nil)
	require.NoError(t, err)
	assert.Empty(t, donors)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresActiveDonations(t *testing.T) {
	dir, mock := newMockDirectory(t)

	created := time.Date(2026, time.February, 1, 12, 0, 0, 0, time.UTC)
	rows := pgxmock.NewRows([]string{"pol_id", "amount", "created_at", "resolved", "defunct", "paused"}).
		AddRow("pol-1", int64(5000), created, false, false, false).
		AddRow("pol-2", int64(2500), created, true, false, false)
	mock.ExpectQuery(regexp.QuoteMeta(preparedStatements["active_donations"])).
		WithArgs("donor-1").
		WillReturnRows(rows)

	donations, err := dir.ActiveDonations(context.Background(), "donor-1")
	require.NoError(t, err)
	require.Len(t, donations, 2)
	assert.Equal(t, int64(5000), donations[0].Amount)
	assert.True(t, donations[0].Countable())
	assert.False(t, donations[1].Countable())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresIsUnsubscribed(t *testing.T) {
	dir, mock := newMockDirectory(t)

	mock.ExpectQuery(regexp.QuoteMeta(preparedStatements["is_unsubscribed"])).
		WithArgs("donor-1", TopicElectionUpdates).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	unsubscribed, err := dir.IsUnsubscribed(context.Background(), "donor-1", TopicElectionUpdates)
	require.NoError(t, err)
	assert.True(t, unsubscribed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresQueryError(t *testing.T) {
	dir, mock := newMockDirectory(t)

	mock.ExpectQuery(regexp.QuoteMeta(preparedStatements["active_donations"])).
		WithArgs("donor-1").
		WillReturnError(assert.AnError)

	_, err := dir.ActiveDonations(context.Background(), "donor-1")
	require.Error(t, err)
}

func TestStateOCDPattern(t *testing.T) {
	assert.Equal(t, "ocd-division/country:us/state:tx", StateOCDPattern("TX"))
	assert.Equal(t, "ocd-division/country:us/state:ca", StateOCDPattern("ca"))
}
