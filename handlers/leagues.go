// handlers/leagues.go - League, Team and Membership Handlers
package handlers

import (
	"strconv"
	"time"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/middleware"
	"github.com/adminmfl/MFL-v2-Revamped-sub003/models"
	"github.com/adminmfl/MFL-v2-Revamped-sub003/services"
	"github.com/gofiber/fiber/v2"
)

// CreateLeague creates a new league
// POST /api/leagues
func CreateLeague(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		Name                string `json:"name"`
		Description         string `json:"description"`
		RestDaysAllowed     int    `json:"rest_days_allowed"`
		NormalizeTeamScores bool   `json:"normalize_team_scores"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	league, err := leagueService.CreateLeague(services.CreateLeagueInput{
		Name:                req.Name,
		Description:         req.Description,
		RestDaysAllowed:     req.RestDaysAllowed,
		NormalizeTeamScores: req.NormalizeTeamScores,
		CreatedBy:           userID,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"league":  league,
	})
}

// JoinLeague creates the caller's membership in a league
// POST /api/leagues/join
func JoinLeague(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		JoinCode         string `json:"join_code"`
		DateOfBirth      string `json:"date_of_birth"`
		Timezone         string `json:"timezone"`
		UTCOffsetMinutes *int   `json:"utc_offset_minutes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	var dob *time.Time
	if req.DateOfBirth != "" {
		parsed, err := services.ParseDate(req.DateOfBirth)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{
				"success": false,
				"error":   "date_of_birth must be formatted YYYY-MM-DD",
			})
		}
		dob = &parsed
	}

	member, err := leagueService.JoinLeague(services.JoinLeagueInput{
		UserID:           userID,
		JoinCode:         req.JoinCode,
		DateOfBirth:      dob,
		Timezone:         req.Timezone,
		UTCOffsetMinutes: req.UTCOffsetMinutes,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"member":  member,
	})
}

// CreateTeam adds a team to a league
// POST /api/leagues/:id/teams
func CreateTeam(c *fiber.Ctx) error {
	leagueID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid league ID",
		})
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	team, err := leagueService.CreateTeam(uint(leagueID), req.Name)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"team":    team,
	})
}

// AssignMemberTeam moves a member onto a team (or off all teams)
// PUT /api/members/:id/team
func AssignMemberTeam(c *fiber.Ctx) error {
	memberID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid member ID",
		})
	}

	var req struct {
		TeamID *uint `json:"team_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	member, err := leagueService.AssignMemberToTeam(uint(memberID), req.TeamID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"member":  member,
	})
}

// CreateChallenge adds a challenge to a league
// POST /api/leagues/:id/challenges
func CreateChallenge(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	leagueID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid league ID",
		})
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Type        string `json:"type"`
		StartDate   string `json:"start_date"`
		EndDate     string `json:"end_date"`
		TotalPoints int    `json:"total_points"`
		Publish     bool   `json:"publish"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	challenge, err := leagueService.CreateChallenge(services.CreateChallengeInput{
		LeagueID:    uint(leagueID),
		Name:        req.Name,
		Description: req.Description,
		Type:        models.ChallengeType(req.Type),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		TotalPoints: req.TotalPoints,
		Publish:     req.Publish,
		CreatedBy:   userID,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success":   true,
		"challenge": challenge,
	})
}

// AssignSubTeam records a member's sub-team for a challenge
// PUT /api/challenges/:id/sub-team-assignments
func AssignSubTeam(c *fiber.Ctx) error {
	challengeID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid challenge ID",
		})
	}

	var req struct {
		MemberID  uint `json:"member_id"`
		SubTeamID uint `json:"sub_team_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	if err := leagueService.AssignSubTeam(uint(challengeID), req.MemberID, req.SubTeamID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Sub-team assignment saved",
	})
}
