// models/league.go - League, Team and Membership Models
package models

import "time"

// League is one competition season. Rest-day allowance and team-size
// normalization are configured per league.
type League struct {
	ID                  uint   `json:"id" gorm:"primaryKey"`
	Name                string `json:"name" gorm:"not null;size:100"`
	Description         string `json:"description" gorm:"type:text"`
	JoinCode            string `json:"join_code" gorm:"unique;size:10"`
	IsActive            bool   `json:"is_active" gorm:"default:true;index"`
	RestDaysAllowed     int    `json:"rest_days_allowed" gorm:"default:0"`
	NormalizeTeamScores bool   `json:"normalize_team_scores" gorm:"default:false"`
	CreatedBy           uint   `json:"created_by" gorm:"not null"`

	Teams     []Team    `json:"teams,omitempty" gorm:"foreignKey:LeagueID"`
	Members   []Member  `json:"members,omitempty" gorm:"foreignKey:LeagueID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Team struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	LeagueID uint   `json:"league_id" gorm:"not null;index"`
	League   *League `json:"league,omitempty" gorm:"foreignKey:LeagueID"`
	Name     string `json:"name" gorm:"not null;size:100"`
	IsActive bool   `json:"is_active" gorm:"default:true;index"`

	Members   []Member  `json:"members,omitempty" gorm:"foreignKey:TeamID"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubTeam is a named split of a team used by sub_team challenges.
type SubTeam struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	LeagueID uint   `json:"league_id" gorm:"not null;index"`
	TeamID   uint   `json:"team_id" gorm:"not null;index"`
	Name     string `json:"name" gorm:"not null;size:100"`

	CreatedAt time.Time `json:"created_at"`
}

// Member is one user's participation record in one league. TeamID is
// nullable until an administrator assigns the member to a team. The
// timezone fields drive the "today" derivation for daily submissions:
// the IANA zone wins, then the explicit UTC offset, then the legacy
// sign-inverted offset, then server UTC.
type Member struct {
	ID       uint  `json:"id" gorm:"primaryKey"`
	LeagueID uint  `json:"league_id" gorm:"not null;index"`
	League   *League `json:"league,omitempty" gorm:"foreignKey:LeagueID"`
	UserID   uint  `json:"user_id" gorm:"not null;index"`
	User     *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	TeamID   *uint `json:"team_id" gorm:"index"`
	Team     *Team `json:"team,omitempty" gorm:"foreignKey:TeamID"`

	DateOfBirth *time.Time `json:"date_of_birth" gorm:"type:date"`

	Timezone         string `json:"timezone" gorm:"size:64"`
	UTCOffsetMinutes *int   `json:"utc_offset_minutes"`
	// LegacyUTCOffset carries the inverted sign convention of the old
	// mobile clients (positive means west of UTC).
	LegacyUTCOffset *int `json:"legacy_utc_offset"`

	IsActive  bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (League) TableName() string {
	return "leagues"
}

func (Team) TableName() string {
	return "teams"
}

func (SubTeam) TableName() string {
	return "sub_teams"
}

func (Member) TableName() string {
	return "members"
}
