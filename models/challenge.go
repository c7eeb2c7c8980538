// models/challenge.go - Challenge System Data Models
package models

import "time"

type ChallengeType string

const (
	ChallengeTypeIndividual ChallengeType = "individual"
	ChallengeTypeTeam       ChallengeType = "team"
	ChallengeTypeSubTeam    ChallengeType = "sub_team"
)

// ChallengeStatus covers both stored statuses (draft, published) and
// the date-derived effective statuses reported to clients.
type ChallengeStatus string

const (
	ChallengeStatusDraft     ChallengeStatus = "draft"
	ChallengeStatusPublished ChallengeStatus = "published"

	// Derived at read time, never stored.
	ChallengeStatusScheduled        ChallengeStatus = "scheduled"
	ChallengeStatusActive           ChallengeStatus = "active"
	ChallengeStatusSubmissionClosed ChallengeStatus = "submission_closed"
	ChallengeStatusClosed           ChallengeStatus = "closed"
)

// Challenge is a time-boxed scoring opportunity. The stored Status is
// never trusted verbatim: effective status is recomputed from the date
// window on every read (see services.DeriveChallengeStatus).
type Challenge struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	LeagueID    uint          `json:"league_id" gorm:"not null;index"`
	League      *League       `json:"league,omitempty" gorm:"foreignKey:LeagueID"`
	Name        string        `json:"name" gorm:"not null;size:100"`
	Description string        `json:"description" gorm:"type:text"`
	Type        ChallengeType `json:"type" gorm:"not null;size:20;default:'individual'"`

	StartDate string `json:"start_date" gorm:"size:10;not null"`
	EndDate   string `json:"end_date" gorm:"size:10;not null"`

	Status      ChallengeStatus `json:"status" gorm:"not null;default:'draft';index"`
	TotalPoints int             `json:"total_points" gorm:"not null;default:0"`
	CreatedBy   uint            `json:"created_by" gorm:"not null"`

	Submissions []ChallengeSubmission `json:"submissions,omitempty" gorm:"foreignKey:ChallengeID"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

// ChallengeSubmission is a member's proof for a challenge. At most one
// row exists per (challenge, member): resubmissions overwrite the row
// in place, unlike effort entries which chain new rows.
type ChallengeSubmission struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	ChallengeID uint       `json:"challenge_id" gorm:"not null;uniqueIndex:idx_challenge_submission_member"`
	Challenge   *Challenge `json:"challenge,omitempty" gorm:"foreignKey:ChallengeID"`
	MemberID    uint       `json:"member_id" gorm:"not null;uniqueIndex:idx_challenge_submission_member"`
	Member      *Member    `json:"member,omitempty" gorm:"foreignKey:MemberID"`
	TeamID      *uint      `json:"team_id" gorm:"index"`
	SubTeamID   *uint      `json:"sub_team_id" gorm:"index"`

	ProofRef string      `json:"proof_ref" gorm:"size:255"`
	Status   EntryStatus `json:"status" gorm:"not null;default:'pending';index"`

	// AwardedPoints overrides the challenge's full point value when a
	// reviewer grants partial credit. Nil means full value on approval.
	AwardedPoints *int `json:"awarded_points"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubTeamAssignment maps a member to a sub-team for one specific
// sub_team challenge.
type SubTeamAssignment struct {
	ID          uint `json:"id" gorm:"primaryKey"`
	ChallengeID uint `json:"challenge_id" gorm:"not null;uniqueIndex:idx_sub_team_assignment"`
	MemberID    uint `json:"member_id" gorm:"not null;uniqueIndex:idx_sub_team_assignment"`
	SubTeamID   uint `json:"sub_team_id" gorm:"not null;index"`

	CreatedAt time.Time `json:"created_at"`
}

func (Challenge) TableName() string {
	return "challenges"
}

func (ChallengeSubmission) TableName() string {
	return "challenge_submissions"
}

func (SubTeamAssignment) TableName() string {
	return "sub_team_assignments"
}
