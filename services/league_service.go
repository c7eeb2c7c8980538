// services/league_service.go - League, Team and Membership Management
package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/models"
	"gorm.io/gorm"
)

type LeagueService struct {
	db *gorm.DB
}

func NewLeagueService(db *gorm.DB) *LeagueService {
	return &LeagueService{db: db}
}

type CreateLeagueInput struct {
	Name                string
	Description         string
	RestDaysAllowed     int
	NormalizeTeamScores bool
	CreatedBy           uint
}

func (s *LeagueService) CreateLeague(in CreateLeagueInput) (*models.League, error) {
	if in.Name == "" {
		return nil, validationError("invalid_name", "league name is required")
	}
	if in.RestDaysAllowed < 0 {
		return nil, validationError("invalid_allowance", "rest day allowance must not be negative")
	}

	league := &models.League{
		Name:                in.Name,
		Description:         in.Description,
		JoinCode:            s.generateJoinCode(),
		IsActive:            true,
		RestDaysAllowed:     in.RestDaysAllowed,
		NormalizeTeamScores: in.NormalizeTeamScores,
		CreatedBy:           in.CreatedBy,
	}
	if err := s.db.Create(league).Error; err != nil {
		return nil, storageError("insert league", err)
	}
	return league, nil
}

type JoinLeagueInput struct {
	UserID           uint
	JoinCode         string
	DateOfBirth      *time.Time
	Timezone         string
	UTCOffsetMinutes *int
}

// JoinLeague creates the user's participation record. One membership
// per (league, user).
func (s *LeagueService) JoinLeague(in JoinLeagueInput) (*models.Member, error) {
	var league models.League
	if err := s.db.Where("join_code = ? AND is_active = ?", strings.ToUpper(in.JoinCode), true).First(&league).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("league_not_found", "no active league with that join code")
		}
		return nil, storageError("load league", err)
	}

	var existing models.Member
	err := s.db.Where("league_id = ? AND user_id = ?", league.ID, in.UserID).First(&existing).Error
	if err == nil {
		return nil, conflictError("already_member", "user already joined this league")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storageError("check membership", err)
	}

	member := &models.Member{
		LeagueID:         league.ID,
		UserID:           in.UserID,
		DateOfBirth:      in.DateOfBirth,
		Timezone:         in.Timezone,
		UTCOffsetMinutes: in.UTCOffsetMinutes,
		IsActive:         true,
	}
	if err := s.db.Create(member).Error; err != nil {
		return nil, storageError("insert member", err)
	}
	return member, nil
}

func (s *LeagueService) CreateTeam(leagueID uint, name string) (*models.Team, error) {
	if name == "" {
		return nil, validationError("invalid_name", "team name is required")
	}
	var league models.League
	if err := s.db.First(&league, leagueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("league_not_found", "league %d not found", leagueID)
		}
		return nil, storageError("load league", err)
	}
	team := &models.Team{LeagueID: leagueID, Name: name, IsActive: true}
	if err := s.db.Create(team).Error; err != nil {
		return nil, storageError("insert team", err)
	}
	return team, nil
}

// AssignMemberToTeam moves a member onto a team of their league, or
// off any team when teamID is nil. Administrative reassignment only;
// entries keep referencing the member either way.
func (s *LeagueService) AssignMemberToTeam(memberID uint, teamID *uint) (*models.Member, error) {
	var member models.Member
	if err := s.db.First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("not_member", "member %d not found", memberID)
		}
		return nil, storageError("load member", err)
	}

	if teamID != nil {
		var team models.Team
		if err := s.db.First(&team, *teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFoundError("team_not_found", "team %d not found", *teamID)
			}
			return nil, storageError("load team", err)
		}
		if team.LeagueID != member.LeagueID {
			return nil, validationError("team_league_mismatch", "team %d belongs to another league", *teamID)
		}
	}

	if err := s.db.Model(&member).Update("team_id", teamID).Error; err != nil {
		return nil, storageError("update member team", err)
	}
	member.TeamID = teamID
	return &member, nil
}

type CreateChallengeInput struct {
	LeagueID    uint
	Name        string
	Description string
	Type        models.ChallengeType
	StartDate   string
	EndDate     string
	TotalPoints int
	Publish     bool
	CreatedBy   uint
}

func (s *LeagueService) CreateChallenge(in CreateChallengeInput) (*models.Challenge, error) {
	if in.Name == "" {
		return nil, validationError("invalid_name", "challenge name is required")
	}
	switch in.Type {
	case models.ChallengeTypeIndividual, models.ChallengeTypeTeam, models.ChallengeTypeSubTeam:
	default:
		return nil, validationError("invalid_type", "challenge type must be individual, team or sub_team")
	}
	if _, err := ParseDate(in.StartDate); err != nil {
		return nil, validationError("invalid_date", "start date must be formatted YYYY-MM-DD")
	}
	if _, err := ParseDate(in.EndDate); err != nil {
		return nil, validationError("invalid_date", "end date must be formatted YYYY-MM-DD")
	}
	if in.EndDate < in.StartDate {
		return nil, validationError("invalid_date", "end date must not precede start date")
	}
	if in.TotalPoints < 0 {
		return nil, validationError("invalid_points", "total points must not be negative")
	}

	status := models.ChallengeStatusDraft
	if in.Publish {
		status = models.ChallengeStatusPublished
	}
	challenge := &models.Challenge{
		LeagueID:    in.LeagueID,
		Name:        in.Name,
		Description: in.Description,
		Type:        in.Type,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		Status:      status,
		TotalPoints: in.TotalPoints,
		CreatedBy:   in.CreatedBy,
	}
	if err := s.db.Create(challenge).Error; err != nil {
		return nil, storageError("insert challenge", err)
	}
	return challenge, nil
}

// AssignSubTeam records a member's sub-team for one sub_team
// challenge, creating or moving the assignment.
func (s *LeagueService) AssignSubTeam(challengeID, memberID, subTeamID uint) error {
	var assignment models.SubTeamAssignment
	err := s.db.Where("challenge_id = ? AND member_id = ?", challengeID, memberID).First(&assignment).Error
	if err == nil {
		return s.db.Model(&assignment).Update("sub_team_id", subTeamID).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return storageError("load assignment", err)
	}
	assignment = models.SubTeamAssignment{ChallengeID: challengeID, MemberID: memberID, SubTeamID: subTeamID}
	if err := s.db.Create(&assignment).Error; err != nil {
		return storageError("insert assignment", err)
	}
	return nil
}

// MemberForUser resolves the caller's membership in a league.
func (s *LeagueService) MemberForUser(leagueID, userID uint) (*models.Member, error) {
	var member models.Member
	err := s.db.Where("league_id = ? AND user_id = ? AND is_active = ?", leagueID, userID, true).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, authorizationError("not_member", "user is not a member of league %d", leagueID)
		}
		return nil, storageError("load member", err)
	}
	return &member, nil
}

func (s *LeagueService) generateJoinCode() string {
	bytes := make([]byte, 4)
	rand.Read(bytes)
	return strings.ToUpper(hex.EncodeToString(bytes))
}
