// services/entry_service.go - Daily Effort Entry Lifecycle
package services

import (
	"errors"
	"time"

	"github.com/adminmfl/MFL-v2-Revamped-sub003/models"
	"gorm.io/gorm"
)

type EntryService struct {
	db *gorm.DB
}

func NewEntryService(db *gorm.DB) *EntryService {
	return &EntryService{db: db}
}

// SubmitEntryInput carries one raw daily submission. Now is the
// injected clock used to derive the member's local "today".
type SubmitEntryInput struct {
	MemberID     uint
	Date         string
	Kind         models.EntryKind
	ActivityType string
	Metrics      Metrics
	ProofRef     string
	ResubmitOfID *uint
	Now          time.Time
}

// SubmitDailyEntry validates the submission window, computes the effort
// score, and persists the entry as pending. The one-non-rejected-row
// per (member, date) invariant is re-verified inside the transaction
// under a row lock, and additionally enforced by a partial unique index
// at the store.
//
// Two distinct write paths exist on purpose:
//   - replace: every existing row for the date is rejected and the
//     submission names no original; the most recent row is overwritten.
//   - resubmission: ResubmitOfID names a rejected original; a new row
//     is inserted carrying the back-reference.
func (s *EntryService) SubmitDailyEntry(in SubmitEntryInput) (*models.EffortEntry, error) {
	if in.Kind != models.EntryKindWorkout && in.Kind != models.EntryKindRest {
		return nil, validationError("invalid_kind", "entry kind must be workout or rest")
	}
	if _, err := ParseDate(in.Date); err != nil {
		return nil, validationError("invalid_date", "entry date must be formatted YYYY-MM-DD")
	}

	var member models.Member
	if err := s.db.First(&member, in.MemberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("not_member", "member %d not found", in.MemberID)
		}
		return nil, storageError("load member", err)
	}
	if !member.IsActive {
		return nil, authorizationError("not_member", "membership is inactive")
	}

	today := LocalToday(member.Timezone, member.UTCOffsetMinutes, member.LegacyUTCOffset, in.Now)

	var original *models.EffortEntry
	if in.ResubmitOfID != nil {
		var orig models.EffortEntry
		if err := s.db.First(&orig, *in.ResubmitOfID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFoundError("original_not_found", "entry %d not found", *in.ResubmitOfID)
			}
			return nil, storageError("load original entry", err)
		}
		if orig.MemberID != in.MemberID {
			return nil, authorizationError("not_your_entry", "entry %d belongs to another member", orig.ID)
		}
		if orig.Status != models.EntryStatusRejected {
			return nil, conflictError("original_not_rejected", "only rejected entries can be resubmitted")
		}
		// Resubmissions are pinned to the original's date, not today.
		if in.Date != orig.EntryDate {
			return nil, validationError("invalid_date", "resubmission date must match the original entry date %s", orig.EntryDate)
		}
		original = &orig
	} else if in.Date != today {
		return nil, validationError("invalid_date", "entries may only be submitted for today (%s)", today)
	}

	// Score before any persistence. Age defaults to the standard tier
	// when no date of birth is on file.
	age := 0
	if member.DateOfBirth != nil {
		entryDay, _ := ParseDate(in.Date)
		age = AgeOn(*member.DateOfBirth, entryDay)
	}
	rr := ComputeRR(in.Kind, in.ActivityType, in.Metrics, age)
	if in.Kind == models.EntryKindWorkout && rr < MinAcceptedRR {
		return nil, validationError("score_too_low", "activity effort score %.2f is below the accepted minimum of %.1f", rr, MinAcceptedRR)
	}

	var result *models.EffortEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing []models.EffortEntry
		if err := lockForUpdate(tx).
			Where("member_id = ? AND entry_date = ?", in.MemberID, in.Date).
			Order("created_at ASC").
			Find(&existing).Error; err != nil {
			return storageError("load existing entries", err)
		}

		proof := in.ProofRef

		if original != nil {
			// Chain closure: once any resubmission of this original
			// was approved, nothing more may be uploaded against it.
			var approvedChain int64
			if err := tx.Model(&models.EffortEntry{}).
				Where("resubmit_of_id = ? AND status = ?", original.ID, models.EntryStatusApproved).
				Count(&approvedChain).Error; err != nil {
				return storageError("check resubmission chain", err)
			}
			if approvedChain > 0 {
				return conflictError("resubmission_approved", "an approved resubmission already exists for entry %d", original.ID)
			}
			for _, e := range existing {
				if e.Status != models.EntryStatusRejected {
					return conflictError("duplicate_entry", "a %s entry already exists for %s", e.Status, in.Date)
				}
			}
			if in.Kind == models.EntryKindWorkout && proof == "" {
				return validationError("missing_proof", "workout entries require proof")
			}

			entry := models.EffortEntry{
				MemberID:        in.MemberID,
				EntryDate:       in.Date,
				Kind:            in.Kind,
				ActivityType:    in.ActivityType,
				DurationMinutes: in.Metrics.DurationMinutes,
				DistanceKM:      in.Metrics.DistanceKM,
				StepCount:       in.Metrics.Steps,
				HoleCount:       in.Metrics.Holes,
				RRValue:         rr,
				ProofRef:        proof,
				Status:          models.EntryStatusPending,
				ResubmitOfID:    &original.ID,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return storageError("insert resubmission", err)
			}
			result = &entry
			return nil
		}

		if len(existing) > 0 {
			for _, e := range existing {
				if e.Status != models.EntryStatusRejected {
					return conflictError("duplicate_entry", "a %s entry already exists for %s", e.Status, in.Date)
				}
			}
			// Replace path: overwrite the most recent rejected row in
			// place, reusing its proof when none was supplied.
			last := existing[len(existing)-1]
			if proof == "" {
				proof = last.ProofRef
			}
			if in.Kind == models.EntryKindWorkout && proof == "" {
				return validationError("missing_proof", "workout entries require proof")
			}
			updates := map[string]interface{}{
				"kind":             in.Kind,
				"activity_type":    in.ActivityType,
				"duration_minutes": in.Metrics.DurationMinutes,
				"distance_km":      in.Metrics.DistanceKM,
				"step_count":       in.Metrics.Steps,
				"hole_count":       in.Metrics.Holes,
				"rr_value":         rr,
				"proof_ref":        proof,
				"status":           models.EntryStatusPending,
				"updated_at":       in.Now,
			}
			if err := tx.Model(&models.EffortEntry{}).Where("id = ?", last.ID).Updates(updates).Error; err != nil {
				return storageError("replace entry", err)
			}
			var replaced models.EffortEntry
			if err := tx.First(&replaced, last.ID).Error; err != nil {
				return storageError("reload entry", err)
			}
			result = &replaced
			return nil
		}

		if in.Kind == models.EntryKindWorkout && proof == "" {
			return validationError("missing_proof", "workout entries require proof")
		}
		entry := models.EffortEntry{
			MemberID:        in.MemberID,
			EntryDate:       in.Date,
			Kind:            in.Kind,
			ActivityType:    in.ActivityType,
			DurationMinutes: in.Metrics.DurationMinutes,
			DistanceKM:      in.Metrics.DistanceKM,
			StepCount:       in.Metrics.Steps,
			HoleCount:       in.Metrics.Holes,
			RRValue:         rr,
			ProofRef:        proof,
			Status:          models.EntryStatusPending,
		}
		if err := tx.Create(&entry).Error; err != nil {
			return storageError("insert entry", err)
		}
		result = &entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionReject  ReviewDecision = "reject"
)

// ReviewDailyEntry applies a reviewer decision to a pending entry.
// Approved is terminal for the date; rejected entries remain for audit
// and may be resubmitted against.
func (s *EntryService) ReviewDailyEntry(entryID uint, decision ReviewDecision, now time.Time) (*models.EffortEntry, error) {
	var status models.EntryStatus
	switch decision {
	case DecisionApprove:
		status = models.EntryStatusApproved
	case DecisionReject:
		status = models.EntryStatusRejected
	default:
		return nil, validationError("invalid_decision", "decision must be approve or reject")
	}

	var entry models.EffortEntry
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&entry, entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("entry_not_found", "entry %d not found", entryID)
			}
			return storageError("load entry", err)
		}
		if entry.Status != models.EntryStatusPending {
			return conflictError("already_reviewed", "entry %d is already %s", entryID, entry.Status)
		}
		if err := tx.Model(&entry).Updates(map[string]interface{}{
			"status":     status,
			"updated_at": now,
		}).Error; err != nil {
			return storageError("update entry status", err)
		}
		entry.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// EntriesForMember lists a member's entries, newest first.
func (s *EntryService) EntriesForMember(memberID uint, limit int) ([]models.EffortEntry, error) {
	var entries []models.EffortEntry
	q := s.db.Where("member_id = ?", memberID).Order("entry_date DESC, created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&entries).Error; err != nil {
		return nil, storageError("list entries", err)
	}
	return entries, nil
}
