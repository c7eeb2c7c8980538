// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/models"
)

// RunMigrations runs all database migrations
func RunMigrations() {
	db := GetDB()
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.League{},
		&models.Team{},
		&models.SubTeam{},
		&models.Member{},
		&models.EffortEntry{},
		&models.Challenge{},
		&models.ChallengeSubmission{},
		&models.SubTeamAssignment{},
		&models.RestDayDonation{},
		&models.RestDayExemptionRequest{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes()

	log.Println("✅ All migrations completed successfully")
}

// createIndexes creates indexes not expressible through struct tags.
// The partial unique index on effort_entries is the storage-level
// enforcement of the one-non-rejected-entry-per-day invariant: a
// concurrent submit that slips past the application check fails here
// instead of producing a duplicate.
func createIndexes() {
	db := GetDB()
	log.Println("Creating indexes...")

	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_effort_entries_one_active_per_day
		ON effort_entries(member_id, entry_date) WHERE status != 'rejected'`)

	db.Exec("CREATE INDEX IF NOT EXISTS idx_effort_entries_status ON effort_entries(status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_effort_entries_resubmit_of ON effort_entries(resubmit_of_id)")

	db.Exec("CREATE INDEX IF NOT EXISTS idx_members_league_user ON members(league_id, user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_members_team ON members(team_id)")

	db.Exec("CREATE INDEX IF NOT EXISTS idx_challenges_league ON challenges(league_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_challenges_dates ON challenges(start_date, end_date)")

	db.Exec("CREATE INDEX IF NOT EXISTS idx_rest_day_donations_donor ON rest_day_donations(donor_member_id, status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_rest_day_donations_receiver ON rest_day_donations(receiver_member_id, status)")

	log.Println("✅ Indexes created successfully")
}
