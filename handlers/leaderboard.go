// handlers/leaderboard.go - Leaderboard Handlers
package handlers

import (
	"strconv"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/services"
	"github.com/gofiber/fiber/v2"
)

// GetLeaderboard returns the league's individual and team standings
// GET /api/leagues/:id/leaderboard?from=2026-01-01&to=2026-01-31
func GetLeaderboard(c *fiber.Ctx) error {
	leagueID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid league ID",
		})
	}

	window, err := parseWindow(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
		})
	}

	board, err := leaderboardService.GetLeaderboard(uint(leagueID), window)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"leaderboard": board,
	})
}

func parseWindow(c *fiber.Ctx) (*services.DateWindow, error) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" && to == "" {
		return nil, nil
	}
	if from != "" {
		if _, err := services.ParseDate(from); err != nil {
			return nil, fiber.NewError(400, "from must be formatted YYYY-MM-DD")
		}
	}
	if to != "" {
		if _, err := services.ParseDate(to); err != nil {
			return nil, fiber.NewError(400, "to must be formatted YYYY-MM-DD")
		}
	}
	return &services.DateWindow{From: from, To: to}, nil
}
