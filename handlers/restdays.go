// handlers/restdays.go - Rest-Day Ledger Handlers
package handlers

import (
	"strconv"
	"time"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/middleware"
	"github.com/gofiber/fiber/v2"
)

// GetRestDayStatus returns one member's allowance ledger snapshot
// GET /api/leagues/:id/members/:memberId/rest-days
func GetRestDayStatus(c *fiber.Ctx) error {
	leagueID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid league ID",
		})
	}
	memberID, err := strconv.ParseUint(c.Params("memberId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid member ID",
		})
	}

	status, err := restDayService.GetRestDayStatus(uint(leagueID), uint(memberID))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"rest_days": status,
	})
}

// RequestRestDayDonation creates a pending allowance transfer from the
// caller to another member of the same league
// POST /api/leagues/:id/rest-day-donations
func RequestRestDayDonation(c *fiber.Ctx) error {
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
		ReceiverMemberID uint `json:"receiver_member_id"`
		Days             int  `json:"days"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	donor, err := leagueService.MemberForUser(uint(leagueID), userID)
	if err != nil {
		return respondError(c, err)
	}

	donation, err := restDayService.RequestRestDayDonation(uint(leagueID), donor.ID, req.ReceiverMemberID, req.Days)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(201).JSON(fiber.Map{
		"success":  true,
		"donation": donation,
	})
}

// ReviewRestDayDonation approves or declines a pending donation
// PUT /api/rest-day-donations/:id/review
func ReviewRestDayDonation(c *fiber.Ctx) error {
	donationID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid donation ID",
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

	switch req.Decision {
	case "approve":
		donation, err := restDayService.ApproveRestDayDonation(uint(donationID), time.Now())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":  true,
			"donation": donation,
		})
	case "decline":
		if err := restDayService.DeclineRestDayDonation(uint(donationID)); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Donation declined",
		})
	default:
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Decision must be approve or decline",
		})
	}
}
