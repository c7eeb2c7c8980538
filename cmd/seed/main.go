// cmd/seed/main.go - Demo data seeder for local development
package main

import (
	"fmt"
	"log"
	"time"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/database"
	"github.com/adminmfl/MFL-v2-Revamped-sub003/models"
	"github.com/adminmfl/MFL-v2-Revamped-sub003/services"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	database.InitDB()
	db := database.GetDB()

	leagues := services.NewLeagueService(db)
	entries := services.NewEntryService(db)

	admin := seedUser(db, "demo-admin", "Demo Admin", true)
	league, err := leagues.CreateLeague(services.CreateLeagueInput{
		Name:                "Demo League",
		Description:         "Seeded league for local development",
		RestDaysAllowed:     4,
		NormalizeTeamScores: true,
		CreatedBy:           admin.ID,
	})
	if err != nil {
		log.Fatal("Failed to create league:", err)
	}
	fmt.Printf("Created league %q (join code %s)\n", league.Name, league.JoinCode)

	now := time.Now().UTC()
	today := services.FormatDate(now)

	names := []string{"alice", "bob", "carol", "dave", "erin"}
	for i, name := range names {
		user := seedUser(db, name, name, false)
		dob := time.Date(1990-5*i, time.March, 15, 0, 0, 0, 0, time.UTC)
		member, err := leagues.JoinLeague(services.JoinLeagueInput{
			UserID:      user.ID,
			JoinCode:    league.JoinCode,
			DateOfBirth: &dob,
			Timezone:    "UTC",
		})
		if err != nil {
			log.Fatal("Failed to join league:", err)
		}

		steps := 8000 + 3000*i
		entry, err := entries.SubmitDailyEntry(services.SubmitEntryInput{
			MemberID:     member.ID,
			Date:         today,
			Kind:         models.EntryKindWorkout,
			ActivityType: "steps",
			Metrics:      services.Metrics{Steps: &steps},
			ProofRef:     "https://example.com/proof/" + name,
			Now:          now,
		})
		if err != nil {
			fmt.Printf("Skipped entry for %s: %v\n", name, err)
			continue
		}
		if _, err := entries.ReviewDailyEntry(entry.ID, services.DecisionApprove, now); err != nil {
			log.Fatal("Failed to approve entry:", err)
		}
		fmt.Printf("Seeded %s with an approved entry (RR %.2f)\n", name, entry.RRValue)
	}

	fmt.Println("\n✓ Seeding completed successfully!")
}

func seedUser(db *gorm.DB, username, displayName string, isAdmin bool) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("demo-password"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}
	user := models.User{
		Username:    username,
		Password:    string(hash),
		DisplayName: displayName,
		IsAdmin:     isAdmin,
	}
	if err := db.Where("username = ?", username).FirstOrCreate(&user).Error; err != nil {
		log.Fatal("Failed to seed user:", err)
	}
	return &user
}
