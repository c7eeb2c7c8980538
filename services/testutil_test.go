// services/testutil_test.go - Shared Test Fixtures
package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/models"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testNow is the injected clock used across the suite; testToday is the
// matching UTC calendar date.
var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

const testToday = "2026-03-10"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A pooled second connection would see its own empty in-memory
	// database, so pin the pool to one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
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
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{
		Username:    username,
		Password:    "hashed",
		DisplayName: username,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

var joinCodeSeq uint64

func createTestLeague(t *testing.T, db *gorm.DB, restDays int, normalize bool) *models.League {
	t.Helper()
	league := &models.League{
		Name:                "Test League",
		JoinCode:            fmt.Sprintf("CODE%04d", atomic.AddUint64(&joinCodeSeq, 1)),
		IsActive:            true,
		RestDaysAllowed:     restDays,
		NormalizeTeamScores: normalize,
		CreatedBy:           1,
	}
	require.NoError(t, db.Create(league).Error)
	return league
}

func createTestMember(t *testing.T, db *gorm.DB, leagueID uint, username string) *models.Member {
	t.Helper()
	user := createTestUser(t, db, username)
	member := &models.Member{
		LeagueID: leagueID,
		UserID:   user.ID,
		Timezone: "UTC",
		IsActive: true,
	}
	require.NoError(t, db.Create(member).Error)
	return member
}

func createTestTeam(t *testing.T, db *gorm.DB, leagueID uint, name string) *models.Team {
	t.Helper()
	team := &models.Team{LeagueID: leagueID, Name: name, IsActive: true}
	require.NoError(t, db.Create(team).Error)
	return team
}

func assignTeam(t *testing.T, db *gorm.DB, member *models.Member, teamID uint) {
	t.Helper()
	require.NoError(t, db.Model(member).Update("team_id", teamID).Error)
	member.TeamID = &teamID
}

// addEntry inserts an effort entry directly, bypassing the submission
// rules, for aggregation fixtures.
func addEntry(t *testing.T, db *gorm.DB, memberID uint, date string, kind models.EntryKind, status models.EntryStatus, rr float64) *models.EffortEntry {
	t.Helper()
	entry := &models.EffortEntry{
		MemberID:     memberID,
		EntryDate:    date,
		Kind:         kind,
		ActivityType: "run",
		RRValue:      rr,
		ProofRef:     "https://proof.example/" + date,
		Status:       status,
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}

func createTestChallenge(t *testing.T, db *gorm.DB, leagueID uint, typ models.ChallengeType, start, end string, status models.ChallengeStatus, points int) *models.Challenge {
	t.Helper()
	challenge := &models.Challenge{
		LeagueID:    leagueID,
		Name:        "Test Challenge",
		Type:        typ,
		StartDate:   start,
		EndDate:     end,
		Status:      status,
		TotalPoints: points,
		CreatedBy:   1,
	}
	require.NoError(t, db.Create(challenge).Error)
	return challenge
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func uintPtr(v uint) *uint        { return &v }
