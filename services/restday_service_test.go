// services/restday_service_test.go - Rest-Day Ledger Tests
package services

import (
	"testing"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRestDayFixture(t *testing.T) (*gorm.DB, *RestDayService, *models.League, *models.Member, *models.Member) {
	t.Helper()
	db := newTestDB(t)
	league := createTestLeague(t, db, 4, false)
	donor := createTestMember(t, db, league.ID, "donor")
	receiver := createTestMember(t, db, league.ID, "receiver")
	return db, NewRestDayService(db), league, donor, receiver
}

func TestGetRestDayStatusLedgerMath(t *testing.T) {
	db, svc, league, donor, receiver := newRestDayFixture(t)

	// Two consumed rest days, one pending rest entry, one pending
	// exemption. Only approvals hit the ledger.
	addEntry(t, db, donor.ID, "2026-03-01", models.EntryKindRest, models.EntryStatusApproved, 1.0)
	addEntry(t, db, donor.ID, "2026-03-02", models.EntryKindRest, models.EntryStatusApproved, 1.0)
	addEntry(t, db, donor.ID, "2026-03-09", models.EntryKindRest, models.EntryStatusPending, 1.0)
	require.NoError(t, db.Create(&models.RestDayExemptionRequest{
		LeagueID: league.ID, MemberID: donor.ID, EntryDate: "2026-03-05", Status: models.EntryStatusPending,
	}).Error)
	require.NoError(t, db.Create(&models.RestDayDonation{
		LeagueID: league.ID, DonorMemberID: donor.ID, ReceiverMemberID: receiver.ID,
		DaysTransferred: 1, Status: models.DonationStatusApproved,
	}).Error)

	status, err := svc.GetRestDayStatus(league.ID, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, status.TotalAllowed)
	assert.Equal(t, 2, status.AutoUsed)
	assert.Equal(t, 1, status.DaysDonated)
	assert.Equal(t, 0, status.DaysReceived)
	assert.Equal(t, 3, status.FinalUsed)
	assert.Equal(t, 1, status.Remaining)
	assert.False(t, status.IsAtLimit)
	assert.Equal(t, 1, status.PendingRestDays)
	assert.Equal(t, 1, status.PendingExemptions)
	require.Len(t, status.Donations, 1)

	// The receiver's side of the same transfer.
	mirror, err := svc.GetRestDayStatus(league.ID, receiver.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, mirror.DaysReceived)
	assert.Equal(t, -1, mirror.FinalUsed)
	assert.Equal(t, 5, mirror.Remaining)

	// Days are conserved across the transfer.
	assert.Equal(t, 0, status.DaysDonated-mirror.DaysReceived)
}

func TestGetRestDayStatusAtLimit(t *testing.T) {
	db, svc, league, donor, _ := newRestDayFixture(t)
	for _, d := range []string{"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04"} {
		addEntry(t, db, donor.ID, d, models.EntryKindRest, models.EntryStatusApproved, 1.0)
	}

	status, err := svc.GetRestDayStatus(league.ID, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, status.FinalUsed)
	assert.Equal(t, 0, status.Remaining)
	assert.True(t, status.IsAtLimit)
}

func TestGetRestDayStatusScopeChecks(t *testing.T) {
	db, svc, league, donor, _ := newRestDayFixture(t)

	_, err := svc.GetRestDayStatus(9999, donor.ID)
	assert.Equal(t, KindNotFound, KindOf(err))

	_, err = svc.GetRestDayStatus(league.ID, 9999)
	assert.Equal(t, KindNotFound, KindOf(err))

	otherLeague := createTestLeague(t, db, 2, false)
	stranger := createTestMember(t, db, otherLeague.ID, "stranger")
	_, err = svc.GetRestDayStatus(league.ID, stranger.ID)
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestRequestRestDayDonationValidation(t *testing.T) {
	db, svc, league, donor, receiver := newRestDayFixture(t)

	_, err := svc.RequestRestDayDonation(league.ID, donor.ID, receiver.ID, 0)
	assert.Equal(t, "invalid_days", CodeOf(err))

	_, err = svc.RequestRestDayDonation(league.ID, donor.ID, donor.ID, 1)
	assert.Equal(t, "invalid_receiver", CodeOf(err))

	otherLeague := createTestLeague(t, db, 2, false)
	stranger := createTestMember(t, db, otherLeague.ID, "stranger")
	_, err = svc.RequestRestDayDonation(league.ID, donor.ID, stranger.ID, 1)
	assert.Equal(t, KindAuthorization, KindOf(err))
}

func TestRequestRestDayDonationInsufficientAllowance(t *testing.T) {
	db, svc, league, donor, receiver := newRestDayFixture(t)
	for _, d := range []string{"2026-03-01", "2026-03-02", "2026-03-03"} {
		addEntry(t, db, donor.ID, d, models.EntryKindRest, models.EntryStatusApproved, 1.0)
	}

	// One day remaining; two cannot be promised.
	_, err := svc.RequestRestDayDonation(league.ID, donor.ID, receiver.ID, 2)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.Equal(t, "insufficient_allowance", CodeOf(err))

	donation, err := svc.RequestRestDayDonation(league.ID, donor.ID, receiver.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusPending, donation.Status)

	// Pending transfers never touch the ledger.
	status, err := svc.GetRestDayStatus(league.ID, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, status.DaysDonated)
	assert.Equal(t, 1, status.Remaining)
}

func TestApproveRestDayDonation(t *testing.T) {
	_, svc, league, donor, receiver := newRestDayFixture(t)

	donation, err := svc.RequestRestDayDonation(league.ID, donor.ID, receiver.ID, 2)
	require.NoError(t, err)

	approved, err := svc.ApproveRestDayDonation(donation.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, models.DonationStatusApproved, approved.Status)

	status, err := svc.GetRestDayStatus(league.ID, donor.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, status.DaysDonated)
	assert.Equal(t, 2, status.Remaining)

	_, err = svc.ApproveRestDayDonation(donation.ID, testNow)
	assert.Equal(t, "already_reviewed", CodeOf(err))

	_, err = svc.ApproveRestDayDonation(9999, testNow)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestApproveRestDayDonationReverifiesAllowance(t *testing.T) {
	db, svc, league, donor, receiver := newRestDayFixture(t)

	donation, err := svc.RequestRestDayDonation(league.ID, donor.ID, receiver.ID, 2)
	require.NoError(t, err)

	// Allowance drains between request and approval; the approval must
	// fail closed rather than overdraw.
	for _, d := range []string{"2026-03-01", "2026-03-02", "2026-03-03"} {
		addEntry(t, db, donor.ID, d, models.EntryKindRest, models.EntryStatusApproved, 1.0)
	}
	_, err = svc.ApproveRestDayDonation(donation.ID, testNow)
	require.Error(t, err)
	assert.Equal(t, "insufficient_allowance", CodeOf(err))
}

func TestDeclineRestDayDonation(t *testing.T) {
	db, svc, league, donor, receiver := newRestDayFixture(t)

	donation, err := svc.RequestRestDayDonation(league.ID, donor.ID, receiver.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.DeclineRestDayDonation(donation.ID))

	// Declined transfers leave no trace in the ledger.
	var count int64
	require.NoError(t, db.Model(&models.RestDayDonation{}).Count(&count).Error)
	assert.Zero(t, count)

	err = svc.DeclineRestDayDonation(donation.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
}
