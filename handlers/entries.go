// handlers/entries.go - Daily Effort Entry Handlers
package handlers

import (
	"strconv"
	"time"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/middleware"
	"github.com/adminmfl/MFL-v2-Revamped-sub003/models"
	"github.com/adminmfl/MFL-v2-Revamped-sub003/services"
	"github.com/gofiber/fiber/v2"
)

// SubmitEntry records one day's activity for the caller's membership
// POST /api/leagues/:id/entries
func SubmitEntry(c *fiber.Ctx) error {
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
		Date            string   `json:"date"`
		Kind            string   `json:"kind"`
		ActivityType    string   `json:"activity_type"`
		DurationMinutes *int     `json:"duration_minutes"`
		DistanceKM      *float64 `json:"distance_km"`
		Steps           *int     `json:"steps"`
		Holes           *int     `json:"holes"`
		ProofRef        string   `json:"proof_ref"`
		ResubmitOfID    *uint    `json:"resubmit_of_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	member, err := leagueService.MemberForUser(uint(leagueID), userID)
	if err != nil {
		return respondError(c, err)
	}

	entry, err := entryService.SubmitDailyEntry(services.SubmitEntryInput{
		MemberID:     member.ID,
		Date:         req.Date,
		Kind:         models.EntryKind(req.Kind),
		ActivityType: req.ActivityType,
		Metrics: services.Metrics{
			DurationMinutes: req.DurationMinutes,
			DistanceKM:      req.DistanceKM,
			Steps:           req.Steps,
			Holes:           req.Holes,
		},
		ProofRef:     req.ProofRef,
		ResubmitOfID: req.ResubmitOfID,
		Now:          time.Now(),
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success": true,
		"entry":   entry,
	})
}

// ReviewEntry applies a reviewer decision to a pending entry
// PUT /api/entries/:id/review
func ReviewEntry(c *fiber.Ctx) error {
	entryID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid entry ID",
		})
	}

	var req struct {
		Decision string `json:"decision"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	entry, err := entryService.ReviewDailyEntry(uint(entryID), services.ReviewDecision(req.Decision), time.Now())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"entry":   entry,
	})
}

// GetMyEntries lists the caller's entries in a league, newest first
// GET /api/leagues/:id/entries?limit=30
func GetMyEntries(c *fiber.Ctx) error {
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

	limit, _ := strconv.Atoi(c.Query("limit", "30"))

	member, err := leagueService.MemberForUser(uint(leagueID), userID)
	if err != nil {
		return respondError(c, err)
	}

	entries, err := entryService.EntriesForMember(member.ID, limit)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"entries": entries,
		"count":   len(entries),
	})
}

// PreviewScore computes the best achievable effort score for a set of
// metrics without persisting anything
// POST /api/leagues/:id/entries/preview
func PreviewScore(c *fiber.Ctx) error {
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
		DurationMinutes *int     `json:"duration_minutes"`
		DistanceKM      *float64 `json:"distance_km"`
		Steps           *int     `json:"steps"`
		Holes           *int     `json:"holes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	member, err := leagueService.MemberForUser(uint(leagueID), userID)
	if err != nil {
		return respondError(c, err)
	}

	age := 0
	if member.DateOfBirth != nil {
		age = services.AgeOn(*member.DateOfBirth, time.Now())
	}

	rr := services.PreviewRR(services.Metrics{
		DurationMinutes: req.DurationMinutes,
		DistanceKM:      req.DistanceKM,
		Steps:           req.Steps,
		Holes:           req.Holes,
	}, age)

	return c.JSON(fiber.Map{
		"success":  true,
		"rr_value": rr,
		"accepted": rr >= services.MinAcceptedRR,
	})
}
