// services/leaderboard_service.go - Points Aggregation & Ranking
package services

import (
	"errors"
	"math"
	"sort"
	"time"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/models"
	"gorm.io/gorm"
)

type LeaderboardService struct {
	db *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{db: db}
}

// DateWindow optionally restricts daily-entry aggregation. Zero values
// mean unbounded on that side. Challenge points are not windowed.
type DateWindow struct {
	From string
	To   string
}

type IndividualStanding struct {
	Rank        int     `json:"rank"`
	MemberID    uint    `json:"member_id"`
	DisplayName string  `json:"display_name"`
	TeamID      *uint   `json:"team_id"`
	Points      int     `json:"points"`
	AverageRR   float64 `json:"average_rr"`
}

type TeamStanding struct {
	Rank             int     `json:"rank"`
	TeamID           uint    `json:"team_id"`
	Name             string  `json:"name"`
	MemberCount      int     `json:"member_count"`
	Points           int     `json:"points"`
	NormalizedPoints int     `json:"normalized_points"`
	AverageRR        float64 `json:"average_rr"`
}

type Leaderboard struct {
	LeagueID    uint                 `json:"league_id"`
	Normalized  bool                 `json:"normalized"`
	Individuals []IndividualStanding `json:"individuals"`
	Teams       []TeamStanding       `json:"teams"`
}

// GetLeaderboard aggregates approved daily entries and approved
// challenge submissions into ranked individual and team standings.
// Every approved daily entry is worth exactly one point; the effort
// score only breaks ties. Team totals are summed over the teams'
// current members and optionally normalized by team size.
func (s *LeaderboardService) GetLeaderboard(leagueID uint, window *DateWindow) (*Leaderboard, error) {
	var league models.League
	if err := s.db.First(&league, leagueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("league_not_found", "league %d not found", leagueID)
		}
		return nil, storageError("load league", err)
	}

	var members []models.Member
	if err := s.db.Where("league_id = ? AND is_active = ?", leagueID, true).
		Preload("User").
		Find(&members).Error; err != nil {
		return nil, storageError("load members", err)
	}
	if len(members) == 0 {
		return &Leaderboard{LeagueID: leagueID, Individuals: []IndividualStanding{}, Teams: []TeamStanding{}}, nil
	}

	memberIDs := make([]uint, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.ID)
	}

	// One aggregation pass per source; no re-querying mid-calculation.
	type entryAgg struct {
		MemberID uint
		Points   int64
		SumRR    float64
	}
	entryQuery := s.db.Model(&models.EffortEntry{}).
		Select("member_id, COUNT(*) as points, SUM(rr_value) as sum_rr").
		Where("member_id IN ? AND status = ?", memberIDs, models.EntryStatusApproved)
	if window != nil && window.From != "" {
		entryQuery = entryQuery.Where("entry_date >= ?", window.From)
	}
	if window != nil && window.To != "" {
		entryQuery = entryQuery.Where("entry_date <= ?", window.To)
	}
	var entryAggs []entryAgg
	if err := entryQuery.Group("member_id").Scan(&entryAggs).Error; err != nil {
		return nil, storageError("aggregate entries", err)
	}

	type challengeAgg struct {
		MemberID uint
		Points   int64
	}
	var challengeAggs []challengeAgg
	if err := s.db.Model(&models.ChallengeSubmission{}).
		Select("challenge_submissions.member_id, SUM(COALESCE(challenge_submissions.awarded_points, challenges.total_points)) as points").
		Joins("JOIN challenges ON challenges.id = challenge_submissions.challenge_id").
		Where("challenge_submissions.member_id IN ? AND challenge_submissions.status = ?", memberIDs, models.EntryStatusApproved).
		Group("challenge_submissions.member_id").
		Scan(&challengeAggs).Error; err != nil {
		return nil, storageError("aggregate challenge points", err)
	}

	entryByMember := make(map[uint]entryAgg, len(entryAggs))
	for _, a := range entryAggs {
		entryByMember[a.MemberID] = a
	}
	challengeByMember := make(map[uint]int64, len(challengeAggs))
	for _, a := range challengeAggs {
		challengeByMember[a.MemberID] = a.Points
	}

	individuals := make([]IndividualStanding, 0, len(members))
	for _, m := range members {
		agg := entryByMember[m.ID]
		points := int(agg.Points) + int(challengeByMember[m.ID])
		avgRR := 0.0
		if agg.Points > 0 {
			avgRR = agg.SumRR / float64(agg.Points)
		}
		name := ""
		if m.User != nil {
			name = m.User.DisplayName
			if name == "" {
				name = m.User.Username
			}
		}
		individuals = append(individuals, IndividualStanding{
			MemberID:    m.ID,
			DisplayName: name,
			TeamID:      m.TeamID,
			Points:      points,
			AverageRR:   avgRR,
		})
	}

	// Points first, then average RR; member id keeps reruns stable.
	sort.SliceStable(individuals, func(i, j int) bool {
		if individuals[i].Points != individuals[j].Points {
			return individuals[i].Points > individuals[j].Points
		}
		if individuals[i].AverageRR != individuals[j].AverageRR {
			return individuals[i].AverageRR > individuals[j].AverageRR
		}
		return individuals[i].MemberID < individuals[j].MemberID
	})
	for i := range individuals {
		individuals[i].Rank = i + 1
	}

	teams, err := s.rankTeams(leagueID, league.NormalizeTeamScores, members, individuals)
	if err != nil {
		return nil, err
	}

	return &Leaderboard{
		LeagueID:    leagueID,
		Normalized:  league.NormalizeTeamScores && teamSizesVary(teams),
		Individuals: individuals,
		Teams:       teams,
	}, nil
}

func (s *LeaderboardService) rankTeams(leagueID uint, normalize bool, members []models.Member, individuals []IndividualStanding) ([]TeamStanding, error) {
	var teamRows []models.Team
	if err := s.db.Where("league_id = ? AND is_active = ?", leagueID, true).Find(&teamRows).Error; err != nil {
		return nil, storageError("load teams", err)
	}

	standings := make(map[uint]*TeamStanding, len(teamRows))
	order := make([]uint, 0, len(teamRows))
	for _, t := range teamRows {
		standings[t.ID] = &TeamStanding{TeamID: t.ID, Name: t.Name}
		order = append(order, t.ID)
	}

	rrSums := make(map[uint]float64)
	rrCounts := make(map[uint]int)
	for _, ind := range individuals {
		if ind.TeamID == nil {
			continue
		}
		st, ok := standings[*ind.TeamID]
		if !ok {
			continue
		}
		st.MemberCount++
		st.Points += ind.Points
		if ind.AverageRR > 0 {
			rrSums[*ind.TeamID] += ind.AverageRR
			rrCounts[*ind.TeamID]++
		}
	}
	for id, st := range standings {
		if rrCounts[id] > 0 {
			st.AverageRR = rrSums[id] / float64(rrCounts[id])
		}
	}

	maxSize := 0
	for _, st := range standings {
		if st.MemberCount > maxSize {
			maxSize = st.MemberCount
		}
	}

	teams := make([]TeamStanding, 0, len(order))
	for _, id := range order {
		st := standings[id]
		st.NormalizedPoints = st.Points
		if normalize && st.MemberCount > 0 && maxSize > 0 {
			st.NormalizedPoints = int(math.Round(float64(st.Points) * float64(maxSize) / float64(st.MemberCount)))
		}
		teams = append(teams, *st)
	}

	applyNormalized := normalize && teamSizesVary(teams)
	sort.SliceStable(teams, func(i, j int) bool {
		pi, pj := teams[i].Points, teams[j].Points
		if applyNormalized {
			pi, pj = teams[i].NormalizedPoints, teams[j].NormalizedPoints
		}
		if pi != pj {
			return pi > pj
		}
		if teams[i].AverageRR != teams[j].AverageRR {
			return teams[i].AverageRR > teams[j].AverageRR
		}
		return teams[i].TeamID < teams[j].TeamID
	})
	for i := range teams {
		teams[i].Rank = i + 1
	}
	return teams, nil
}

// teamSizesVary reports whether normalization would change anything.
// Equal-sized teams make it a no-op, which callers may skip entirely.
func teamSizesVary(teams []TeamStanding) bool {
	seen := -1
	for _, t := range teams {
		if t.MemberCount == 0 {
			continue
		}
		if seen == -1 {
			seen = t.MemberCount
			continue
		}
		if t.MemberCount != seen {
			return true
		}
	}
	return false
}

// MemberStats is the profile-view aggregate for one member. Streaks
// are computed over approved entry dates; this is the single canonical
// streak computation for the whole service.
type MemberStats struct {
	MemberID      uint    `json:"member_id"`
	TotalPoints   int     `json:"total_points"`
	EntryPoints   int     `json:"entry_points"`
	BonusPoints   int     `json:"bonus_points"`
	AverageRR     float64 `json:"average_rr"`
	CurrentStreak int     `json:"current_streak"`
	BestStreak    int     `json:"best_streak"`
}

// GetMemberStats aggregates one member's totals and streaks. Today is
// the member-local date used to anchor the current streak.
func (s *LeaderboardService) GetMemberStats(memberID uint, now time.Time) (*MemberStats, error) {
	var member models.Member
	if err := s.db.First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("not_member", "member %d not found", memberID)
		}
		return nil, storageError("load member", err)
	}

	var entries []models.EffortEntry
	if err := s.db.Where("member_id = ? AND status = ?", memberID, models.EntryStatusApproved).
		Order("entry_date ASC").
		Find(&entries).Error; err != nil {
		return nil, storageError("load entries", err)
	}

	sumRR := 0.0
	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		sumRR += e.RRValue
		dates = append(dates, e.EntryDate)
	}

	var bonus int64
	if err := s.db.Model(&models.ChallengeSubmission{}).
		Select("COALESCE(SUM(COALESCE(challenge_submissions.awarded_points, challenges.total_points)), 0)").
		Joins("JOIN challenges ON challenges.id = challenge_submissions.challenge_id").
		Where("challenge_submissions.member_id = ? AND challenge_submissions.status = ?", memberID, models.EntryStatusApproved).
		Scan(&bonus).Error; err != nil {
		return nil, storageError("aggregate challenge points", err)
	}

	stats := &MemberStats{
		MemberID:    memberID,
		EntryPoints: len(entries),
		BonusPoints: int(bonus),
		TotalPoints: len(entries) + int(bonus),
	}
	if len(entries) > 0 {
		stats.AverageRR = sumRR / float64(len(entries))
	}

	today := LocalToday(member.Timezone, member.UTCOffsetMinutes, member.LegacyUTCOffset, now)
	stats.CurrentStreak, stats.BestStreak = computeStreaks(dates, today)
	return stats, nil
}

// computeStreaks walks sorted, deduplicated approved dates. The
// current streak counts back from today (or yesterday, so an
// un-reviewed today does not break it).
func computeStreaks(sortedDates []string, today string) (current, best int) {
	if len(sortedDates) == 0 {
		return 0, 0
	}
	uniq := sortedDates[:1]
	for _, d := range sortedDates[1:] {
		if d != uniq[len(uniq)-1] {
			uniq = append(uniq, d)
		}
	}

	run := 1
	best = 1
	for i := 1; i < len(uniq); i++ {
		if isNextDay(uniq[i-1], uniq[i]) {
			run++
		} else {
			run = 1
		}
		if run > best {
			best = run
		}
	}

	last := uniq[len(uniq)-1]
	if last == today || isNextDay(last, today) {
		current = run
	}
	return current, best
}

func isNextDay(a, b string) bool {
	ta, errA := ParseDate(a)
	tb, errB := ParseDate(b)
	if errA != nil || errB != nil {
		return false
	}
	return ta.AddDate(0, 0, 1).Equal(tb)
}
