// Package services – idempotency key derivation.
//
// This file maps (task definition, user, supplied proof) to the deterministic
// dedup key (external_id, event_date) that the TaskEvent unique constraint
// enforces. The precedence order matters: the first matching rule wins, and a
// missing prerequisite fails the whole operation before any write.
package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zigletlabs/go-rewards-backend/internal/domain"
	"github.com/zigletlabs/go-rewards-backend/internal/repo"
)

// Proof carries the caller-supplied evidence for a completion attempt.
// All fields are optional; which ones are consulted depends on the task.
type Proof struct {
	// TweetID is the candidate artifact for artifact-based social tasks.
	TweetID string `json:"tweet_id,omitempty"`
	// SubmissionID identifies a content submission; generated when absent.
	SubmissionID string `json:"submission_id,omitempty"`
}

// dedupKey is the derived (external_id, event_date) pair. EventDate is ""
// for keys with no calendar component.
type dedupKey struct {
	ExternalID string
	EventDate  string
}

// The daily-login task is recognized by slug: it is the only task whose
// eligibility is proven by a same-day login record.
const slugDailyLogin = "daily-login"

// deriveKey resolves the dedup key for one completion attempt, reading
// collaborator-owned rows (social accounts, login records) through tx so the
// checks see the same snapshot the writes will commit against.
//
// Precedence (first match wins):
//  1. social task without an artifact requirement → (userID, "") — one per
//     user, forever ("follow bundle").
//  2. social task with an artifact → (verified artifact id, "") — globally
//     unique, the artifact backs at most one reward by any user.
//  3. daily-login → (userID, today), gated on an unclaimed login record.
//  4. any task with a daily limit → (userID, today).
//  5. submission tasks → (submission id, ""), generated when not supplied.
//  6. fallback one-time tasks → (userID, "").
//
// The returned *domain.UserLogin is non-nil only on the daily-login path; the
// caller must flip its claimed flag inside the same transaction.
func (s *TaskService) deriveKey(ctx context.Context, tx *gorm.DB, task *domain.Task, user *domain.User, proof Proof, today string) (dedupKey, *domain.UserLogin, error) {
	switch {
	case task.Type == domain.TaskTypeSocialCheck && task.Platform != "":
		acc, err := repo.GetSocialAccount(ctx, tx, user.ID, task.Platform)
		if errors.Is(err, repo.ErrNotFound) {
			return dedupKey{}, nil, ErrAccountNotLinked
		}
		if err != nil {
			return dedupKey{}, nil, err
		}
		if taskWantsArtifact(task, proof) {
			rules, err := task.DecodeMetadata()
			if err != nil {
				return dedupKey{}, nil, err
			}
			artifactID, err := s.Verifier.VerifyTweet(ctx, acc.PlatformUserID, rules, proof.TweetID)
			if err != nil {
				return dedupKey{}, nil, err
			}
			return dedupKey{ExternalID: artifactID}, nil, nil
		}
		// One-time follow bundle: one event per user, forever.
		return dedupKey{ExternalID: user.ID}, nil, nil

	case task.Slug == slugDailyLogin:
		rec, err := repo.GetUserLogin(ctx, tx, user.ID, today)
		if errors.Is(err, repo.ErrNotFound) {
			return dedupKey{}, nil, ErrNoLoginToday
		}
		if err != nil {
			return dedupKey{}, nil, err
		}
		if rec.Claimed {
			return dedupKey{}, nil, ErrLoginAlreadyClaimed
		}
		return dedupKey{ExternalID: user.ID, EventDate: today}, rec, nil

	case task.DailyLimit > 0:
		return dedupKey{ExternalID: user.ID, EventDate: today}, nil, nil

	case task.Type == domain.TaskTypeSubmission:
		id := proof.SubmissionID
		if id == "" {
			id = "sub_" + uuid.NewString()
		}
		return dedupKey{ExternalID: id}, nil, nil

	default:
		return dedupKey{ExternalID: user.ID}, nil, nil
	}
}

// taskWantsArtifact reports whether the social task is keyed by an external
// artifact rather than by the user: either the catalog declares artifact
// rules (hashtags/mention), or the caller supplied a candidate tweet.
func taskWantsArtifact(task *domain.Task, proof Proof) bool {
	if proof.TweetID != "" {
		return true
	}
	rules, err := task.DecodeMetadata()
	if err != nil {
		return false
	}
	return len(rules.RequiredHashtags) > 0 || rules.RequiredMention != ""
}
