// services/restday_service.go - Rest-Day Allowance Ledger
package services

import (
	"errors"
	"time"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/models"
	"gorm.io/gorm"
)

type RestDayService struct {
	db *gorm.DB
}

func NewRestDayService(db *gorm.DB) *RestDayService {
	return &RestDayService{db: db}
}

// RestDayStatus is one member's ledger snapshot. Donating increases
// effective usage, receiving decreases it; pending rest entries and
// exemption requests are reported but never counted.
type RestDayStatus struct {
	MemberID          uint                     `json:"member_id"`
	TotalAllowed      int                      `json:"total_allowed"`
	AutoUsed          int                      `json:"auto_used"`
	DaysDonated       int                      `json:"days_donated"`
	DaysReceived      int                      `json:"days_received"`
	FinalUsed         int                      `json:"final_used"`
	Remaining         int                      `json:"remaining"`
	IsAtLimit         bool                     `json:"is_at_limit"`
	PendingRestDays   int                      `json:"pending_rest_days"`
	PendingExemptions int                      `json:"pending_exemptions"`
	Donations         []models.RestDayDonation `json:"donations"`
}

// GetRestDayStatus combines the three ledger aggregates (approved rest
// entries, received donations, donated donations) inside a single read
// transaction so the snapshot is consistent at one point in time.
func (s *RestDayService) GetRestDayStatus(leagueID, memberID uint) (*RestDayStatus, error) {
	var league models.League
	if err := s.db.First(&league, leagueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("league_not_found", "league %d not found", leagueID)
		}
		return nil, storageError("load league", err)
	}

	var member models.Member
	if err := s.db.First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("not_member", "member %d not found", memberID)
		}
		return nil, storageError("load member", err)
	}
	if member.LeagueID != leagueID {
		return nil, authorizationError("not_member", "member %d does not belong to league %d", memberID, leagueID)
	}

	var status *RestDayStatus
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		status, err = s.statusInTx(tx, league.RestDaysAllowed, memberID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return status, nil
}

// statusInTx computes the ledger snapshot on the caller's transaction.
func (s *RestDayService) statusInTx(tx *gorm.DB, totalAllowed int, memberID uint) (*RestDayStatus, error) {
	status := &RestDayStatus{MemberID: memberID, TotalAllowed: totalAllowed}

	var autoUsed int64
	if err := tx.Model(&models.EffortEntry{}).
		Where("member_id = ? AND kind = ? AND status = ?", memberID, models.EntryKindRest, models.EntryStatusApproved).
		Count(&autoUsed).Error; err != nil {
		return nil, storageError("count rest entries", err)
	}

	var received, donated int64
	if err := tx.Model(&models.RestDayDonation{}).
		Select("COALESCE(SUM(days_transferred), 0)").
		Where("receiver_member_id = ? AND status = ?", memberID, models.DonationStatusApproved).
		Scan(&received).Error; err != nil {
		return nil, storageError("sum received donations", err)
	}
	if err := tx.Model(&models.RestDayDonation{}).
		Select("COALESCE(SUM(days_transferred), 0)").
		Where("donor_member_id = ? AND status = ?", memberID, models.DonationStatusApproved).
		Scan(&donated).Error; err != nil {
		return nil, storageError("sum donated donations", err)
	}

	var pendingRest int64
	if err := tx.Model(&models.EffortEntry{}).
		Where("member_id = ? AND kind = ? AND status = ?", memberID, models.EntryKindRest, models.EntryStatusPending).
		Count(&pendingRest).Error; err != nil {
		return nil, storageError("count pending rest entries", err)
	}
	var pendingExemptions int64
	if err := tx.Model(&models.RestDayExemptionRequest{}).
		Where("member_id = ? AND status = ?", memberID, models.EntryStatusPending).
		Count(&pendingExemptions).Error; err != nil {
		return nil, storageError("count pending exemptions", err)
	}

	var donations []models.RestDayDonation
	if err := tx.Where("donor_member_id = ? OR receiver_member_id = ?", memberID, memberID).
		Order("created_at DESC").
		Find(&donations).Error; err != nil {
		return nil, storageError("list donations", err)
	}

	status.AutoUsed = int(autoUsed)
	status.DaysReceived = int(received)
	status.DaysDonated = int(donated)
	status.PendingRestDays = int(pendingRest)
	status.PendingExemptions = int(pendingExemptions)
	status.Donations = donations

	status.FinalUsed = status.AutoUsed + status.DaysDonated - status.DaysReceived
	status.Remaining = status.TotalAllowed - status.FinalUsed
	if status.Remaining < 0 {
		status.Remaining = 0
	}
	status.IsAtLimit = status.FinalUsed >= status.TotalAllowed
	return status, nil
}

// RequestRestDayDonation creates a pending allowance transfer between
// two members of the same league. The donor's remaining allowance must
// cover the transfer at request time; the same check runs again on
// approval so a race fails closed rather than over-drawing.
func (s *RestDayService) RequestRestDayDonation(leagueID, donorID, receiverID uint, days int) (*models.RestDayDonation, error) {
	if days <= 0 {
		return nil, validationError("invalid_days", "days transferred must be positive")
	}
	if donorID == receiverID {
		return nil, validationError("invalid_receiver", "donor and receiver must differ")
	}

	for _, id := range []uint{donorID, receiverID} {
		var m models.Member
		if err := s.db.First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFoundError("not_member", "member %d not found", id)
			}
			return nil, storageError("load member", err)
		}
		if m.LeagueID != leagueID {
			return nil, authorizationError("not_member", "member %d does not belong to league %d", id, leagueID)
		}
	}

	donorStatus, err := s.GetRestDayStatus(leagueID, donorID)
	if err != nil {
		return nil, err
	}
	if donorStatus.Remaining < days {
		return nil, conflictError("insufficient_allowance", "donor has %d rest days remaining, cannot donate %d", donorStatus.Remaining, days)
	}

	donation := models.RestDayDonation{
		LeagueID:         leagueID,
		DonorMemberID:    donorID,
		ReceiverMemberID: receiverID,
		DaysTransferred:  days,
		Status:           models.DonationStatusPending,
	}
	if err := s.db.Create(&donation).Error; err != nil {
		return nil, storageError("insert donation", err)
	}
	return &donation, nil
}

// ApproveRestDayDonation moves a pending donation to approved after
// re-verifying the donor's allowance under lock.
func (s *RestDayService) ApproveRestDayDonation(donationID uint, now time.Time) (*models.RestDayDonation, error) {
	var donation models.RestDayDonation
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&donation, donationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("donation_not_found", "donation %d not found", donationID)
			}
			return storageError("load donation", err)
		}
		if donation.Status != models.DonationStatusPending {
			return conflictError("already_reviewed", "donation %d is already %s", donationID, donation.Status)
		}

		var league models.League
		if err := tx.First(&league, donation.LeagueID).Error; err != nil {
			return storageError("load league", err)
		}
		donorStatus, err := s.statusInTx(tx, league.RestDaysAllowed, donation.DonorMemberID)
		if err != nil {
			return err
		}
		if donorStatus.Remaining < donation.DaysTransferred {
			return conflictError("insufficient_allowance", "donor has %d rest days remaining, cannot donate %d", donorStatus.Remaining, donation.DaysTransferred)
		}

		if err := tx.Model(&donation).Updates(map[string]interface{}{
			"status":     models.DonationStatusApproved,
			"updated_at": now,
		}).Error; err != nil {
			return storageError("approve donation", err)
		}
		donation.Status = models.DonationStatusApproved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &donation, nil
}

// DeclineRestDayDonation removes a pending donation. Declined
// transfers never entered the ledger, so the row does not need to stay.
func (s *RestDayService) DeclineRestDayDonation(donationID uint) error {
	res := s.db.Where("id = ? AND status = ?", donationID, models.DonationStatusPending).
		Delete(&models.RestDayDonation{})
	if res.Error != nil {
		return storageError("delete donation", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundError("donation_not_found", "no pending donation %d", donationID)
	}
	return nil
}
