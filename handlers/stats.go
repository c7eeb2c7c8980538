// handlers/stats.go - Member Statistics Handlers
package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// GetMemberStats returns one member's point totals, average effort
// score and streaks
// GET /api/leagues/:id/members/:memberId/stats
func GetMemberStats(c *fiber.Ctx) error {
	memberID, err := strconv.ParseUint(c.Params("memberId"), 10, 32)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid member ID",
		})
	}

	stats, err := leaderboardService.GetMemberStats(uint(memberID), time.Now())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"stats":   stats,
	})
}
