// models/effort_entry.go - Daily Effort Entry Model
package models

import "time"

type EntryKind string

const (
	EntryKindWorkout EntryKind = "workout"
	EntryKindRest    EntryKind = "rest"
)

type EntryStatus string

const (
	EntryStatusPending  EntryStatus = "pending"
	EntryStatusApproved EntryStatus = "approved"
	EntryStatusRejected EntryStatus = "rejected"
)

// EffortEntry is one day's activity record for a member. Dates are
// stored date-only ("2006-01-02"). At most one entry per (member, date)
// may be non-rejected; rejected rows stay for audit and resubmission
// chaining via ResubmitOfID.
type EffortEntry struct {
	ID       uint    `json:"id" gorm:"primaryKey"`
	MemberID uint    `json:"member_id" gorm:"not null;index:idx_effort_entries_member_day"`
	Member   *Member `json:"member,omitempty" gorm:"foreignKey:MemberID"`

	EntryDate    string    `json:"entry_date" gorm:"size:10;not null;index:idx_effort_entries_member_day"`
	Kind         EntryKind `json:"kind" gorm:"not null;size:20"`
	ActivityType string    `json:"activity_type" gorm:"size:50"`

	DurationMinutes *int     `json:"duration_minutes"`
	DistanceKM      *float64 `json:"distance_km"`
	StepCount       *int     `json:"step_count"`
	HoleCount       *int     `json:"hole_count"`

	// RRValue is the normalized effort score in [0, 2.0]. It gates
	// acceptance and feeds averages; it is not a point multiplier.
	RRValue float64 `json:"rr_value" gorm:"not null"`

	ProofRef string      `json:"proof_ref" gorm:"size:255"`
	Status   EntryStatus `json:"status" gorm:"not null;default:'pending';index"`

	// ResubmitOfID links a resubmission to the rejected entry it replaces.
	ResubmitOfID *uint        `json:"resubmit_of_id" gorm:"index"`
	ResubmitOf   *EffortEntry `json:"resubmit_of,omitempty" gorm:"foreignKey:ResubmitOfID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (EffortEntry) TableName() string {
	return "effort_entries"
}
