// Package services – TaskService
//
// This file implements TaskService, the reward idempotency engine's entry
// point. A completion attempt runs lock → key derivation → one transaction
// (event, completion, login flip, reward) → lock release. The per-(user,task)
// lock only avoids wasted transactional work and turns races into "retry"
// responses; the TaskEvent dedup constraint is the actual correctness
// guarantee and holds even when the lock is bypassed or expired.
//
// Benign outcomes (duplicate, locked, ineligible) are values on
// CompletionResult, never errors; callers branch on Reason, not on error
// text.
//
// Observability: Complete is OpenTelemetry-instrumented; spans include task
// and user identifiers plus the outcome.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rs/zerolog/log"

	"github.com/zigletlabs/go-rewards-backend/internal/domain"
	"github.com/zigletlabs/go-rewards-backend/internal/lock"
	"github.com/zigletlabs/go-rewards-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Reason classifies the benign non-success outcomes of a completion attempt.
type Reason string

const (
	// ReasonDuplicate: the dedup key already has an event; the caller (or a
	// racing request) was rewarded before.
	ReasonDuplicate Reason = "duplicate"
	// ReasonLocked: another attempt for the same (user, task) pair holds the
	// lock; the caller should retry later.
	ReasonLocked Reason = "locked"
	// ReasonIneligible: a prerequisite is missing (unlinked account, no login
	// record today, inactive task, no qualifying artifact).
	ReasonIneligible Reason = "ineligible"
)

// CompletionResult is the single result surface for a completion attempt.
// Success carries the reward that was dispatched; otherwise Reason says why
// nothing was written.
type CompletionResult struct {
	Success      bool   `json:"success"`
	RewardType   string `json:"reward_type,omitempty"`
	RewardAmount int64  `json:"reward_amount,omitempty"`
	EventID      string `json:"event_id,omitempty"`
	Reason       Reason `json:"reason,omitempty"`
	Detail       string `json:"detail,omitempty"`
}

// TaskView is a catalog entry decorated with the caller's completion state.
type TaskView struct {
	domain.Task
	IsCompleted bool `json:"is_completed"`
}

// TaskService coordinates idempotent task completion and reward dispatch.
type TaskService struct {
	// DB is the GORM handle used for all transactional work.
	DB *gorm.DB
	// Locks is the side-channel lock store serializing attempts per pair.
	Locks lock.Store
	// Verifier resolves artifact ids for artifact-based social tasks.
	Verifier ArtifactVerifier

	// LockTTL bounds how long a crashed attempt can hold a pair. Values <= 0
	// default to 30s: long enough for one transaction, short enough that a
	// missed release self-heals quickly.
	LockTTL time.Duration

	// Now is injectable for date-rollover tests; defaults to time.Now.
	Now func() time.Time
}

// NewTaskService constructs a TaskService with default lock TTL and clock.
func NewTaskService(db *gorm.DB, locks lock.Store, verifier ArtifactVerifier) *TaskService {
	return &TaskService{
		DB:       db,
		Locks:    locks,
		Verifier: verifier,
		LockTTL:  30 * time.Second,
		Now:      time.Now,
	}
}

// Complete records one task completion for userID, exactly once per dedup
// key, and dispatches the task's reward in the same transaction.
//
// Outcomes:
//   - success: one TaskEvent + TaskCompletion + reward row committed.
//   - duplicate: the dedup key already exists; everything rolled back.
//   - locked: another attempt holds the (user, task) lock; nothing written.
//   - ineligible: a prerequisite check failed; nothing written.
//
// Any other failure rolls the transaction back in full and is returned as an
// error; partial writes are never observable.
func (s *TaskService) Complete(ctx context.Context, userID, taskID string, proof Proof) (*CompletionResult, error) {
	tr := otel.Tracer("services/TaskService")
	ctx, span := tr.Start(ctx, "Complete",
		trace.WithAttributes(
			attribute.String("task.id", taskID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	ttl := s.LockTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	key := lock.TaskKey(userID, taskID)
	held, err := s.Locks.Acquire(ctx, key, ttl)
	if err != nil {
		return nil, fmt.Errorf("acquire completion lock: %w", err)
	}
	if !held {
		span.SetAttributes(attribute.String("completion.outcome", string(ReasonLocked)))
		completionsTotal.WithLabelValues(string(ReasonLocked)).Inc()
		return &CompletionResult{Reason: ReasonLocked, Detail: "task processing in progress, retry later"}, nil
	}
	defer func() {
		// Unconditional release on every path; a failed release self-heals
		// via the TTL.
		if rerr := s.Locks.Release(ctx, key); rerr != nil {
			log.Warn().Err(rerr).Str("lock_key", key).Msg("lock release failed")
		}
	}()

	var result *CompletionResult
	txErr := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		task, err := repo.GetTask(ctx, tx, taskID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrTaskNotFound
		}
		if err != nil {
			return err
		}
		if !task.IsActive {
			return ErrTaskInactive
		}

		user, err := repo.GetUser(ctx, tx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		if err != nil {
			return err
		}

		today := s.now().UTC().Format("2006-01-02")
		key, login, err := s.deriveKey(ctx, tx, task, user, proof, today)
		if err != nil {
			return err
		}

		// The event insert is the serialization point: a unique violation
		// here is an expected outcome, not a fault.
		event, err := repo.CreateTaskEvent(ctx, tx, user.ID, task.ID, task.Type, key.ExternalID, key.EventDate, encodeProof(proof))
		if err != nil {
			return err
		}

		completion, err := repo.CreateTaskCompletion(ctx, tx, user.ID, task.ID, encodeProof(proof))
		if err != nil {
			return err
		}

		if login != nil {
			if err := repo.MarkUserLoginClaimed(ctx, tx, login.ID); err != nil {
				// The record was claimed between the read and the flip; the
				// transaction rolls back and the attempt reads as claimed.
				if errors.Is(err, repo.ErrNotFound) {
					return ErrLoginAlreadyClaimed
				}
				return err
			}
		}

		if err := dispatchReward(ctx, tx, task, user.ID, completion.ID, event.ID); err != nil {
			return err
		}

		result = &CompletionResult{
			Success:      true,
			RewardType:   task.RewardType,
			RewardAmount: task.RewardAmount,
			EventID:      event.ID,
		}
		return nil
	})

	switch {
	case txErr == nil:
		span.SetAttributes(attribute.String("completion.outcome", "success"))
		completionsTotal.WithLabelValues("success").Inc()
		return result, nil

	case errors.Is(txErr, repo.ErrDuplicate), errors.Is(txErr, ErrLoginAlreadyClaimed):
		span.SetAttributes(attribute.String("completion.outcome", string(ReasonDuplicate)))
		completionsTotal.WithLabelValues(string(ReasonDuplicate)).Inc()
		return &CompletionResult{Reason: ReasonDuplicate, Detail: "task already completed or limit reached"}, nil

	case isIneligible(txErr):
		span.SetAttributes(attribute.String("completion.outcome", string(ReasonIneligible)))
		completionsTotal.WithLabelValues(string(ReasonIneligible)).Inc()
		return &CompletionResult{Reason: ReasonIneligible, Detail: txErr.Error()}, nil

	default:
		span.SetAttributes(attribute.String("completion.outcome", "error"))
		completionsTotal.WithLabelValues("error").Inc()
		return nil, txErr
	}
}

// List returns all active tasks decorated with the user's completion flags.
func (s *TaskService) List(ctx context.Context, userID string) ([]TaskView, error) {
	tasks, err := repo.ListActiveTasks(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	done, err := repo.CompletedTaskIDs(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}

	out := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		_, completed := done[t.ID]
		out = append(out, TaskView{Task: t, IsCompleted: completed})
	}
	return out, nil
}

// dispatchReward creates exactly one reward row for the event, inside the
// caller's transaction: a ledger credit for points tasks, a pending claim for
// faucet tasks.
func dispatchReward(ctx context.Context, tx *gorm.DB, task *domain.Task, userID, completionID, eventID string) error {
	switch task.RewardType {
	case domain.RewardTypePoints:
		_, err := repo.CreatePointsEntry(ctx, tx, userID, "task_reward:"+task.Slug, task.RewardAmount, completionID, eventID)
		return err
	case domain.RewardTypeFaucet:
		_, err := repo.CreateFaucetClaim(ctx, tx, userID, completionID, task.RewardAmount, eventID)
		return err
	default:
		return fmt.Errorf("unknown reward type %q for task %s", task.RewardType, task.Slug)
	}
}

// now returns the injected clock or the wall clock.
func (s *TaskService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// encodeProof serializes the proof for the event/completion metadata columns.
// An empty proof is stored as the empty string.
func encodeProof(p Proof) string {
	if p == (Proof{}) {
		return ""
	}
	b, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(b)
}
