// services/league_service_test.go - League and Membership Tests
package services

import (
	"strings"
	"testing"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateLeague(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeagueService(db)

	league, err := svc.CreateLeague(CreateLeagueInput{
		Name:                "Spring Season",
		RestDaysAllowed:     4,
		NormalizeTeamScores: true,
		CreatedBy:           1,
	})
	require.NoError(t, err)
	assert.True(t, league.IsActive)
	assert.Len(t, league.JoinCode, 8)
	assert.Equal(t, strings.ToUpper(league.JoinCode), league.JoinCode)

	_, err = svc.CreateLeague(CreateLeagueInput{Name: "", CreatedBy: 1})
	assert.Equal(t, "invalid_name", CodeOf(err))

	_, err = svc.CreateLeague(CreateLeagueInput{Name: "x", RestDaysAllowed: -1, CreatedBy: 1})
	assert.Equal(t, "invalid_allowance", CodeOf(err))
}

func TestJoinLeague(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeagueService(db)
	league, err := svc.CreateLeague(CreateLeagueInput{Name: "Spring Season", CreatedBy: 1})
	require.NoError(t, err)
	user := createTestUser(t, db, "alice")

	member, err := svc.JoinLeague(JoinLeagueInput{
		UserID:   user.ID,
		JoinCode: strings.ToLower(league.JoinCode), // codes are case-insensitive
		Timezone: "Asia/Tokyo",
	})
	require.NoError(t, err)
	assert.Equal(t, league.ID, member.LeagueID)
	assert.True(t, member.IsActive)

	_, err = svc.JoinLeague(JoinLeagueInput{UserID: user.ID, JoinCode: league.JoinCode})
	assert.Equal(t, "already_member", CodeOf(err))

	_, err = svc.JoinLeague(JoinLeagueInput{UserID: user.ID, JoinCode: "NOPE1234"})
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestAssignMemberToTeam(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeagueService(db)
	league := createTestLeague(t, db, 0, false)
	member := createTestMember(t, db, league.ID, "alice")
	team := createTestTeam(t, db, league.ID, "Pacers")

	assigned, err := svc.AssignMemberToTeam(member.ID, &team.ID)
	require.NoError(t, err)
	require.NotNil(t, assigned.TeamID)
	assert.Equal(t, team.ID, *assigned.TeamID)

	// Nil moves the member off any team.
	cleared, err := svc.AssignMemberToTeam(member.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.TeamID)

	otherLeague := createTestLeague(t, db, 0, false)
	foreign := createTestTeam(t, db, otherLeague.ID, "Strangers")
	_, err = svc.AssignMemberToTeam(member.ID, &foreign.ID)
	assert.Equal(t, "team_league_mismatch", CodeOf(err))
}

func TestCreateChallengeValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeagueService(db)
	league := createTestLeague(t, db, 0, false)

	base := CreateChallengeInput{
		LeagueID:    league.ID,
		Name:        "10k March",
		Type:        models.ChallengeTypeIndividual,
		StartDate:   "2026-03-01",
		EndDate:     "2026-03-20",
		TotalPoints: 10,
		CreatedBy:   1,
	}

	draft, err := svc.CreateChallenge(base)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeStatusDraft, draft.Status)

	published := base
	published.Publish = true
	got, err := svc.CreateChallenge(published)
	require.NoError(t, err)
	assert.Equal(t, models.ChallengeStatusPublished, got.Status)

	bad := base
	bad.Type = "pairs"
	_, err = svc.CreateChallenge(bad)
	assert.Equal(t, "invalid_type", CodeOf(err))

	bad = base
	bad.EndDate = "2026-02-01"
	_, err = svc.CreateChallenge(bad)
	assert.Equal(t, "invalid_date", CodeOf(err))

	bad = base
	bad.TotalPoints = -5
	_, err = svc.CreateChallenge(bad)
	assert.Equal(t, "invalid_points", CodeOf(err))
}

func TestAssignSubTeamUpsert(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeagueService(db)
	league := createTestLeague(t, db, 0, false)
	member := createTestMember(t, db, league.ID, "alice")
	team := createTestTeam(t, db, league.ID, "Pacers")
	challenge := createTestChallenge(t, db, league.ID, models.ChallengeTypeSubTeam, "2026-03-01", "2026-03-20", models.ChallengeStatusPublished, 10)

	podA := models.SubTeam{LeagueID: league.ID, TeamID: team.ID, Name: "Pod A"}
	podB := models.SubTeam{LeagueID: league.ID, TeamID: team.ID, Name: "Pod B"}
	require.NoError(t, db.Create(&podA).Error)
	require.NoError(t, db.Create(&podB).Error)

	require.NoError(t, svc.AssignSubTeam(challenge.ID, member.ID, podA.ID))
	// Reassignment moves the one row rather than adding another.
	require.NoError(t, svc.AssignSubTeam(challenge.ID, member.ID, podB.ID))

	var assignments []models.SubTeamAssignment
	require.NoError(t, db.Where("challenge_id = ?", challenge.ID).Find(&assignments).Error)
	require.Len(t, assignments, 1)
	assert.Equal(t, podB.ID, assignments[0].SubTeamID)
}

func TestMemberForUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewLeagueService(db)
	league := createTestLeague(t, db, 0, false)
	member := createTestMember(t, db, league.ID, "alice")

	resolved, err := svc.MemberForUser(league.ID, member.UserID)
	require.NoError(t, err)
	assert.Equal(t, member.ID, resolved.ID)

	_, err = svc.MemberForUser(league.ID, 9999)
	assert.Equal(t, KindAuthorization, KindOf(err))

	require.NoError(t, db.Model(member).Update("is_active", false).Error)
	_, err = svc.MemberForUser(league.ID, member.UserID)
	assert.Equal(t, KindAuthorization, KindOf(err))
}
