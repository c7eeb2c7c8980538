// services/challenge_service.go - Challenge Submission Lifecycle
package services

import (
	"errors"
	"time"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/models"
	"gorm.io/gorm"
)

type ChallengeService struct {
	db *gorm.DB
}

func NewChallengeService(db *gorm.DB) *ChallengeService {
	return &ChallengeService{db: db}
}

// DeriveChallengeStatus computes a challenge's effective status from
// its stored status and date window. Stored status is never trusted
// verbatim: anything published derives from where today falls in
// [start, end]. Reviewers see "submission_closed" after the end date
// where regular members see "closed".
func DeriveChallengeStatus(stored models.ChallengeStatus, startDate, endDate, today string, reviewer bool) models.ChallengeStatus {
	if stored == models.ChallengeStatusDraft {
		return models.ChallengeStatusDraft
	}
	switch {
	case today < startDate:
		return models.ChallengeStatusScheduled
	case today > endDate:
		if reviewer {
			return models.ChallengeStatusSubmissionClosed
		}
		return models.ChallengeStatusClosed
	default:
		return models.ChallengeStatusActive
	}
}

// SubmitProofInput carries one challenge proof upload.
type SubmitProofInput struct {
	ChallengeID uint
	MemberID    uint
	ProofRef    string
	Now         time.Time
}

// SubmitChallengeProof records or overwrites a member's proof for a
// challenge. Submissions are an upsert keyed on (challenge, member):
// a rejected row is overwritten in place, a pending or approved row is
// a conflict. The resubmission path survives the close date; fresh
// submissions are cut off strictly at the end date.
func (s *ChallengeService) SubmitChallengeProof(in SubmitProofInput) (*models.ChallengeSubmission, error) {
	if in.ProofRef == "" {
		return nil, validationError("missing_proof", "challenge submissions require proof")
	}

	var challenge models.Challenge
	if err := s.db.First(&challenge, in.ChallengeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("challenge_not_found", "challenge %d not found", in.ChallengeID)
		}
		return nil, storageError("load challenge", err)
	}

	var member models.Member
	if err := s.db.First(&member, in.MemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("not_member", "member %d not found", in.MemberID)
		}
		return nil, storageError("load member", err)
	}
	if member.LeagueID != challenge.LeagueID {
		return nil, authorizationError("not_member", "member does not belong to the challenge's league")
	}

	today := LocalToday(member.Timezone, member.UTCOffsetMinutes, member.LegacyUTCOffset, in.Now)
	effective := DeriveChallengeStatus(challenge.Status, challenge.StartDate, challenge.EndDate, today, false)

	var teamID *uint
	var subTeamID *uint
	switch challenge.Type {
	case models.ChallengeTypeTeam:
		if member.TeamID == nil {
			return nil, authorizationError("team_required", "member must belong to a team for this challenge")
		}
		var team models.Team
		if err := s.db.First(&team, *member.TeamID).Error; err != nil {
			return nil, storageError("load team", err)
		}
		if team.LeagueID != challenge.LeagueID {
			return nil, authorizationError("team_required", "member's team is not linked to this league")
		}
		teamID = member.TeamID
	case models.ChallengeTypeSubTeam:
		teamID = member.TeamID
		var assignment models.SubTeamAssignment
		err := s.db.Where("challenge_id = ? AND member_id = ?", challenge.ID, member.ID).First(&assignment).Error
		if err == nil {
			subTeamID = &assignment.SubTeamID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, storageError("load sub-team assignment", err)
		}
		// Missing assignment still allows submission with the
		// sub-team field left empty.
	}

	var result *models.ChallengeSubmission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.ChallengeSubmission
		found := true
		err := lockForUpdate(tx).
			Where("challenge_id = ? AND member_id = ?", challenge.ID, member.ID).
			First(&existing).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return storageError("load submission", err)
			}
			found = false
		}

		// Strict cutoff, independent of the status derivation: no
		// fresh submission once the end date has passed.
		if !found && today > challenge.EndDate {
			return validationError("challenge_ended", "challenge ended on %s", challenge.EndDate)
		}

		switch effective {
		case models.ChallengeStatusActive:
			// accepted below
		case models.ChallengeStatusClosed, models.ChallengeStatusSubmissionClosed:
			if !found || existing.Status != models.EntryStatusRejected {
				return validationError("challenge_ended", "challenge ended on %s", challenge.EndDate)
			}
		default:
			return validationError("challenge_not_active", "challenge is %s", effective)
		}

		if found {
			if existing.Status != models.EntryStatusRejected {
				return conflictError("already_submitted", "a %s submission already exists for this challenge", existing.Status)
			}
			updates := map[string]interface{}{
				"proof_ref":      in.ProofRef,
				"team_id":        teamID,
				"sub_team_id":    subTeamID,
				"status":         models.EntryStatusPending,
				"awarded_points": nil,
				"updated_at":     in.Now,
			}
			if err := tx.Model(&models.ChallengeSubmission{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
				return storageError("overwrite submission", err)
			}
			var reloaded models.ChallengeSubmission
			if err := tx.First(&reloaded, existing.ID).Error; err != nil {
				return storageError("reload submission", err)
			}
			result = &reloaded
			return nil
		}

		submission := models.ChallengeSubmission{
			ChallengeID: challenge.ID,
			MemberID:    member.ID,
			TeamID:      teamID,
			SubTeamID:   subTeamID,
			ProofRef:    in.ProofRef,
			Status:      models.EntryStatusPending,
		}
		if err := tx.Create(&submission).Error; err != nil {
			return storageError("insert submission", err)
		}
		result = &submission
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReviewChallengeSubmission applies a reviewer decision. An approval
// may carry an awarded-points override; nil means the challenge's full
// point value.
func (s *ChallengeService) ReviewChallengeSubmission(challengeID, memberID uint, decision ReviewDecision, awardedPoints *int, now time.Time) (*models.ChallengeSubmission, error) {
	var status models.EntryStatus
	switch decision {
	case DecisionApprove:
		status = models.EntryStatusApproved
	case DecisionReject:
		status = models.EntryStatusRejected
	default:
		return nil, validationError("invalid_decision", "decision must be approve or reject")
	}
	if awardedPoints != nil && *awardedPoints < 0 {
		return nil, validationError("invalid_points", "awarded points must not be negative")
	}

	var submission models.ChallengeSubmission
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).
			Where("challenge_id = ? AND member_id = ?", challengeID, memberID).
			First(&submission).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("submission_not_found", "no submission for challenge %d by member %d", challengeID, memberID)
			}
			return storageError("load submission", err)
		}
		updates := map[string]interface{}{
			"status":     status,
			"updated_at": now,
		}
		if status == models.EntryStatusApproved {
			updates["awarded_points"] = awardedPoints
		}
		if err := tx.Model(&submission).Updates(updates).Error; err != nil {
			return storageError("update submission", err)
		}
		submission.Status = status
		if status == models.EntryStatusApproved {
			submission.AwardedPoints = awardedPoints
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// ChallengesForLeague lists a league's challenges with their effective
// status derived for the caller's tier.
func (s *ChallengeService) ChallengesForLeague(leagueID uint, today string, reviewer bool) ([]models.Challenge, error) {
	var challenges []models.Challenge
	if err := s.db.Where("league_id = ?", leagueID).Order("start_date DESC").Find(&challenges).Error; err != nil {
		return nil, storageError("list challenges", err)
	}
	for i := range challenges {
		challenges[i].Status = DeriveChallengeStatus(challenges[i].Status, challenges[i].StartDate, challenges[i].EndDate, today, reviewer)
	}
	return challenges, nil
}
