// handlers/handlers.go - Handler Wiring and Error Mapping
package handlers

import (
	"log"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/database"
	"github.com/adminmfl/MFL-v2-Revamped-sub003/services"
	"github.com/gofiber/fiber/v2"
)

var (
	leagueService      *services.LeagueService
	entryService       *services.EntryService
	challengeService   *services.ChallengeService
	leaderboardService *services.LeaderboardService
	restDayService     *services.RestDayService
)

// InitHandlers wires the service layer onto the shared database
// connection. Must run after database.InitDB.
func InitHandlers() {
	db := database.GetDB()
	leagueService = services.NewLeagueService(db)
	entryService = services.NewEntryService(db)
	challengeService = services.NewChallengeService(db)
	leaderboardService = services.NewLeaderboardService(db)
	restDayService = services.NewRestDayService(db)
}

// respondError maps the domain error taxonomy onto HTTP statuses.
// Storage failures are logged and surfaced generically.
func respondError(c *fiber.Ctx, err error) error {
	status := 500
	switch services.KindOf(err) {
	case services.KindValidation:
		status = 400
	case services.KindAuthorization:
		status = 403
	case services.KindNotFound:
		status = 404
	case services.KindConflict:
		status = 409
	}

	message := err.Error()
	if status == 500 {
		log.Printf("storage failure: %v", err)
		message = "An internal error occurred. Please try again later."
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
		"code":    services.CodeOf(err),
	})
}
