// handlers/challenges.go - Challenge Submission Handlers
package handlers

import (
	"strconv"
	"time"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/middleware"
	"github.com/adminmfl/MFL-v2-Revamped-sub003/services"
	"github.com/gofiber/fiber/v2"
)

// GetLeagueChallenges lists a league's challenges with their effective
// status derived for the caller's tier
// GET /api/leagues/:id/challenges
func GetLeagueChallenges(c *fiber.Ctx) error {
	leagueID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid league ID",
		})
	}

	today := services.FormatDate(time.Now().UTC())
	challenges, err := challengeService.ChallengesForLeague(uint(leagueID), today, middleware.IsAdmin(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"challenges": challenges,
		"count":      len(challenges),
	})
}

// SubmitChallengeProof records the caller's proof for a challenge
// POST /api/challenges/:id/submissions
func SubmitChallengeProof(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}
	challengeID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid challenge ID",
		})
	}

	var req struct {
		LeagueID uint   `json:"league_id"`
		ProofRef string `json:"proof_ref"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	member, err := leagueService.MemberForUser(req.LeagueID, userID)
	if err != nil {
		return respondError(c, err)
	}

	submission, err := challengeService.SubmitChallengeProof(services.SubmitProofInput{
		ChallengeID: uint(challengeID),
		MemberID:    member.ID,
		ProofRef:    req.ProofRef,
		Now:         time.Now(),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success":    true,
		"submission": submission,
	})
}

// ReviewChallengeSubmission applies a reviewer decision, optionally
// overriding the awarded points
// PUT /api/challenges/:id/submissions/:memberId/review
func ReviewChallengeSubmission(c *fiber.Ctx) error {
	challengeID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid challenge ID",
		})
	}
	memberID, err := strconv.ParseUint(c.Params("memberId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid member ID",
		})
	}

	var req struct {
		Decision      string `json:"decision"`
		AwardedPoints *int   `json:"awarded_points"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	submission, err := challengeService.ReviewChallengeSubmission(
		uint(challengeID), uint(memberID),
		services.ReviewDecision(req.Decision), req.AwardedPoints, time.Now())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"submission": submission,
	})
}
