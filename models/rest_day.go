// models/rest_day.go - Rest-Day Ledger Models
package models

import "time"

type DonationStatus string

const (
	DonationStatusPending  DonationStatus = "pending"
	DonationStatusApproved DonationStatus = "approved"
)

// RestDayDonation transfers rest-day allowance between two members of
// the same league. Only approved donations affect the ledger math.
type RestDayDonation struct {
	ID               uint    `json:"id" gorm:"primaryKey"`
	LeagueID         uint    `json:"league_id" gorm:"not null;index"`
	DonorMemberID    uint    `json:"donor_member_id" gorm:"not null;index"`
	Donor            *Member `json:"donor,omitempty" gorm:"foreignKey:DonorMemberID"`
	ReceiverMemberID uint    `json:"receiver_member_id" gorm:"not null;index"`
	Receiver         *Member `json:"receiver,omitempty" gorm:"foreignKey:ReceiverMemberID"`

	DaysTransferred int            `json:"days_transferred" gorm:"not null"`
	Status          DonationStatus `json:"status" gorm:"not null;default:'pending';index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RestDayExemptionRequest asks a reviewer to excuse a day without
// consuming allowance. Pending requests are reported alongside the
// ledger but never change it.
type RestDayExemptionRequest struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	LeagueID  uint    `json:"league_id" gorm:"not null;index"`
	MemberID  uint    `json:"member_id" gorm:"not null;index"`
	Member    *Member `json:"member,omitempty" gorm:"foreignKey:MemberID"`
	EntryDate string  `json:"entry_date" gorm:"size:10;not null"`
	Reason    string  `json:"reason" gorm:"type:text"`

	Status    EntryStatus `json:"status" gorm:"not null;default:'pending';index"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

func (RestDayDonation) TableName() string {
	return "rest_day_donations"
}

func (RestDayExemptionRequest) TableName() string {
	return "rest_day_exemption_requests"
}
