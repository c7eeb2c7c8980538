// services/leaderboard_service_test.go - Ranking and Aggregation Tests
package services

import (
	"testing"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLeaderboardIndividuals(t *testing.T) {
	db := newTestDB(t)
	league := createTestLeague(t, db, 0, false)
	m1 := createTestMember(t, db, league.ID, "alice")
	m2 := createTestMember(t, db, league.ID, "bob")
	m3 := createTestMember(t, db, league.ID, "carol")

	// One point per approved entry; pending and rejected never count.
	for _, d := range []string{"2026-03-01", "2026-03-02", "2026-03-03"} {
		addEntry(t, db, m1.ID, d, models.EntryKindWorkout, models.EntryStatusApproved, 1.5)
		addEntry(t, db, m2.ID, d, models.EntryKindWorkout, models.EntryStatusApproved, 1.2)
	}
	addEntry(t, db, m3.ID, "2026-03-01", models.EntryKindWorkout, models.EntryStatusApproved, 1.0)
	addEntry(t, db, m3.ID, "2026-03-02", models.EntryKindWorkout, models.EntryStatusPending, 2.0)
	addEntry(t, db, m3.ID, "2026-03-03", models.EntryKindWorkout, models.EntryStatusRejected, 2.0)

	// Challenge bonus lands on top of entry points.
	challenge := createTestChallenge(t, db, league.ID, models.ChallengeTypeIndividual, "2026-03-01", "2026-03-05", models.ChallengeStatusPublished, 10)
	require.NoError(t, db.Create(&models.ChallengeSubmission{
		ChallengeID: challenge.ID, MemberID: m3.ID, ProofRef: "p", Status: models.EntryStatusApproved,
	}).Error)

	board, err := NewLeaderboardService(db).GetLeaderboard(league.ID, nil)
	require.NoError(t, err)
	require.Len(t, board.Individuals, 3)

	// m3: 1 entry + 10 bonus. m1 and m2 tie on points; average RR breaks it.
	assert.Equal(t, m3.ID, board.Individuals[0].MemberID)
	assert.Equal(t, 11, board.Individuals[0].Points)
	assert.Equal(t, 1, board.Individuals[0].Rank)

	assert.Equal(t, m1.ID, board.Individuals[1].MemberID)
	assert.Equal(t, 3, board.Individuals[1].Points)
	assert.InDelta(t, 1.5, board.Individuals[1].AverageRR, 1e-9)

	assert.Equal(t, m2.ID, board.Individuals[2].MemberID)
	assert.Equal(t, 3, board.Individuals[2].Rank)
	assert.Equal(t, "alice", board.Individuals[1].DisplayName)
}

func TestGetLeaderboardTieFallsBackToMemberID(t *testing.T) {
	db := newTestDB(t)
	league := createTestLeague(t, db, 0, false)
	m1 := createTestMember(t, db, league.ID, "alice")
	m2 := createTestMember(t, db, league.ID, "bob")
	addEntry(t, db, m1.ID, "2026-03-01", models.EntryKindWorkout, models.EntryStatusApproved, 1.3)
	addEntry(t, db, m2.ID, "2026-03-01", models.EntryKindWorkout, models.EntryStatusApproved, 1.3)

	board, err := NewLeaderboardService(db).GetLeaderboard(league.ID, nil)
	require.NoError(t, err)
	require.Len(t, board.Individuals, 2)
	assert.Equal(t, m1.ID, board.Individuals[0].MemberID)
}

func TestGetLeaderboardWindow(t *testing.T) {
	db := newTestDB(t)
	league := createTestLeague(t, db, 0, false)
	m1 := createTestMember(t, db, league.ID, "alice")
	m3 := createTestMember(t, db, league.ID, "carol")
	for _, d := range []string{"2026-03-01", "2026-03-05", "2026-03-09"} {
		addEntry(t, db, m1.ID, d, models.EntryKindWorkout, models.EntryStatusApproved, 1.5)
	}
	addEntry(t, db, m3.ID, "2026-03-01", models.EntryKindWorkout, models.EntryStatusApproved, 1.0)
	challenge := createTestChallenge(t, db, league.ID, models.ChallengeTypeIndividual, "2026-03-01", "2026-03-05", models.ChallengeStatusPublished, 10)
	require.NoError(t, db.Create(&models.ChallengeSubmission{
		ChallengeID: challenge.ID, MemberID: m3.ID, ProofRef: "p", Status: models.EntryStatusApproved,
	}).Error)

	board, err := NewLeaderboardService(db).GetLeaderboard(league.ID, &DateWindow{From: "2026-03-05", To: "2026-03-09"})
	require.NoError(t, err)

	points := map[uint]int{}
	for _, ind := range board.Individuals {
		points[ind.MemberID] = ind.Points
	}
	// Entries outside the window drop out; challenge bonus is not windowed.
	assert.Equal(t, 2, points[m1.ID])
	assert.Equal(t, 10, points[m3.ID])
}

func TestGetLeaderboardTeamNormalization(t *testing.T) {
	db := newTestDB(t)
	league := createTestLeague(t, db, 0, true)
	teamA := createTestTeam(t, db, league.ID, "A")
	teamB := createTestTeam(t, db, league.ID, "B")

	// Team A: one member with 4 points. Team B: three members with 2 each.
	a1 := createTestMember(t, db, league.ID, "a1")
	assignTeam(t, db, a1, teamA.ID)
	for _, d := range []string{"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-04"} {
		addEntry(t, db, a1.ID, d, models.EntryKindWorkout, models.EntryStatusApproved, 1.4)
	}
	for _, name := range []string{"b1", "b2", "b3"} {
		m := createTestMember(t, db, league.ID, name)
		assignTeam(t, db, m, teamB.ID)
		addEntry(t, db, m.ID, "2026-03-01", models.EntryKindWorkout, models.EntryStatusApproved, 1.1)
		addEntry(t, db, m.ID, "2026-03-02", models.EntryKindWorkout, models.EntryStatusApproved, 1.1)
	}

	board, err := NewLeaderboardService(db).GetLeaderboard(league.ID, nil)
	require.NoError(t, err)
	require.Len(t, board.Teams, 2)
	assert.True(t, board.Normalized)

	// Raw points favor B (6 vs 4); per-capita scaling flips it:
	// A scales to round(4*3/1)=12 against B's 6.
	first, second := board.Teams[0], board.Teams[1]
	assert.Equal(t, "A", first.Name)
	assert.Equal(t, 4, first.Points)
	assert.Equal(t, 12, first.NormalizedPoints)
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, "B", second.Name)
	assert.Equal(t, 6, second.Points)
	assert.Equal(t, 6, second.NormalizedPoints)
}

func TestGetLeaderboardNormalizationNoOpForEqualSizes(t *testing.T) {
	db := newTestDB(t)
	league := createTestLeague(t, db, 0, true)
	teamA := createTestTeam(t, db, league.ID, "A")
	teamB := createTestTeam(t, db, league.ID, "B")
	for i, team := range []*models.Team{teamA, teamB} {
		for _, suffix := range []string{"x", "y"} {
			m := createTestMember(t, db, league.ID, team.Name+suffix)
			assignTeam(t, db, m, team.ID)
			if i == 0 {
				addEntry(t, db, m.ID, "2026-03-01", models.EntryKindWorkout, models.EntryStatusApproved, 1.2)
			}
		}
	}

	board, err := NewLeaderboardService(db).GetLeaderboard(league.ID, nil)
	require.NoError(t, err)
	assert.False(t, board.Normalized)
	for _, team := range board.Teams {
		assert.Equal(t, team.Points, team.NormalizedPoints)
	}
	assert.Equal(t, "A", board.Teams[0].Name)
}

func TestGetLeaderboardNormalizationDisabled(t *testing.T) {
	db := newTestDB(t)
	league := createTestLeague(t, db, 0, false)
	teamA := createTestTeam(t, db, league.ID, "A")
	teamB := createTestTeam(t, db, league.ID, "B")

	a1 := createTestMember(t, db, league.ID, "a1")
	assignTeam(t, db, a1, teamA.ID)
	addEntry(t, db, a1.ID, "2026-03-01", models.EntryKindWorkout, models.EntryStatusApproved, 1.4)
	for _, name := range []string{"b1", "b2"} {
		m := createTestMember(t, db, league.ID, name)
		assignTeam(t, db, m, teamB.ID)
		addEntry(t, db, m.ID, "2026-03-01", models.EntryKindWorkout, models.EntryStatusApproved, 1.1)
	}

	board, err := NewLeaderboardService(db).GetLeaderboard(league.ID, nil)
	require.NoError(t, err)
	assert.False(t, board.Normalized)
	assert.Equal(t, "B", board.Teams[0].Name)
}

func TestGetLeaderboardEmptyLeague(t *testing.T) {
	db := newTestDB(t)
	league := createTestLeague(t, db, 0, false)

	board, err := NewLeaderboardService(db).GetLeaderboard(league.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, board.Individuals)
	assert.Empty(t, board.Teams)

	_, err = NewLeaderboardService(db).GetLeaderboard(9999, nil)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestComputeStreaks(t *testing.T) {
	tests := []struct {
		name        string
		dates       []string
		today       string
		wantCurrent int
		wantBest    int
	}{
		{"no dates", nil, "2026-03-10", 0, 0},
		{"single day today", []string{"2026-03-10"}, "2026-03-10", 1, 1},
		{"run ending today", []string{"2026-03-08", "2026-03-09", "2026-03-10"}, "2026-03-10", 3, 3},
		{"run ending yesterday still counts", []string{"2026-03-08", "2026-03-09"}, "2026-03-10", 2, 2},
		{"stale run does not count", []string{"2026-03-01", "2026-03-02", "2026-03-03"}, "2026-03-10", 0, 3},
		{"gap resets the run", []string{"2026-03-01", "2026-03-02", "2026-03-09", "2026-03-10"}, "2026-03-10", 2, 2},
		{"best predates current", []string{"2026-03-01", "2026-03-02", "2026-03-03", "2026-03-10"}, "2026-03-10", 1, 3},
		{"duplicates are deduped", []string{"2026-03-09", "2026-03-09", "2026-03-10"}, "2026-03-10", 2, 2},
		{"month boundary", []string{"2026-02-28", "2026-03-01"}, "2026-03-01", 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current, best := computeStreaks(tt.dates, tt.today)
			assert.Equal(t, tt.wantCurrent, current, "current")
			assert.Equal(t, tt.wantBest, best, "best")
		})
	}
}

func TestGetMemberStats(t *testing.T) {
	db := newTestDB(t)
	league := createTestLeague(t, db, 0, false)
	member := createTestMember(t, db, league.ID, "alice")

	addEntry(t, db, member.ID, "2026-03-08", models.EntryKindWorkout, models.EntryStatusApproved, 1.2)
	addEntry(t, db, member.ID, "2026-03-09", models.EntryKindWorkout, models.EntryStatusApproved, 1.4)
	addEntry(t, db, member.ID, "2026-03-10", models.EntryKindRest, models.EntryStatusApproved, 1.0)
	addEntry(t, db, member.ID, "2026-03-07", models.EntryKindWorkout, models.EntryStatusRejected, 0.5)

	challenge := createTestChallenge(t, db, league.ID, models.ChallengeTypeIndividual, "2026-03-01", "2026-03-05", models.ChallengeStatusPublished, 10)
	require.NoError(t, db.Create(&models.ChallengeSubmission{
		ChallengeID: challenge.ID, MemberID: member.ID, ProofRef: "p",
		Status: models.EntryStatusApproved, AwardedPoints: intPtr(5),
	}).Error)

	stats, err := NewLeaderboardService(db).GetMemberStats(member.ID, testNow)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.EntryPoints)
	assert.Equal(t, 5, stats.BonusPoints)
	assert.Equal(t, 8, stats.TotalPoints)
	assert.InDelta(t, 1.2, stats.AverageRR, 1e-9)
	assert.Equal(t, 3, stats.CurrentStreak)
	assert.Equal(t, 3, stats.BestStreak)

	_, err = NewLeaderboardService(db).GetMemberStats(9999, testNow)
	assert.Equal(t, KindNotFound, KindOf(err))
}
