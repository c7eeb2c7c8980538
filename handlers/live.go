// handlers/live.go - Live Leaderboard Socket
//
// Pull-driven: the client sends "refresh" and gets one freshly
// computed leaderboard back. No server-side scheduling; every push is
// triggered by a client message.
package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// LiveLeaderboardUpgrade gates the websocket upgrade
// GET /ws/leaderboard/:leagueId
func LiveLeaderboardUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		c.Locals("allowed", true)
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// LiveLeaderboard serves leaderboard snapshots over a websocket.
var LiveLeaderboard = websocket.New(func(conn *websocket.Conn) {
	leagueID, err := strconv.ParseUint(conn.Params("leagueId"), 10, 32)
	if err != nil {
		_ = conn.WriteJSON(fiber.Map{"success": false, "error": "Invalid league ID"})
		return
	}

	// First snapshot on connect, then one per "refresh" message.
	if err := sendLeaderboard(conn, uint(leagueID)); err != nil {
		return
	}

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if string(msg) != "refresh" {
			_ = conn.WriteJSON(fiber.Map{"success": false, "error": "Unknown command"})
			continue
		}
		if err := sendLeaderboard(conn, uint(leagueID)); err != nil {
			return
		}
	}
})

func sendLeaderboard(conn *websocket.Conn, leagueID uint) error {
	board, err := leaderboardService.GetLeaderboard(leagueID, nil)
	if err != nil {
		log.Printf("live leaderboard compute failed: %v", err)
		return conn.WriteJSON(fiber.Map{"success": false, "error": "Failed to compute leaderboard"})
	}
	return conn.WriteJSON(fiber.Map{"success": true, "leaderboard": board})
}
