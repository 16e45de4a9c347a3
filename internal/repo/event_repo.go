// Package repo — TaskEvent repository. The composite unique index on
// (task_id, external_id, event_date) is the engine's idempotency backstop;
// CreateTaskEvent maps violations of it to ErrDuplicate so callers can treat
// "already completed" as an expected outcome rather than a fault.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zigletlabs/go-rewards-backend/internal/domain"
)

// ErrDuplicate indicates that a task event already exists for the given
// (task_id, external_id, event_date) dedup triple.
var ErrDuplicate = errors.New("duplicate")

// CreateTaskEvent inserts the canonical event row and returns ErrDuplicate on
// a dedup-key unique violation. Any other insert failure is returned as-is.
func CreateTaskEvent(ctx context.Context, db *gorm.DB, userID, taskID, eventType, externalID, eventDate, metadata string) (*domain.TaskEvent, error) {
	ev := &domain.TaskEvent{
		ID:         uuid.NewString(),
		UserID:     userID,
		TaskID:     taskID,
		EventType:  eventType,
		ExternalID: externalID,
		EventDate:  eventDate,
		OccurredAt: time.Now().UTC(),
		Metadata:   metadata,
	}
	if err := db.WithContext(ctx).Create(ev).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return ev, nil
}

// CreateTaskCompletion inserts the derived completion row. Must only be
// called in the same transaction as CreateTaskEvent.
func CreateTaskCompletion(ctx context.Context, db *gorm.DB, userID, taskID, completionData string) (*domain.TaskCompletion, error) {
	c := &domain.TaskCompletion{
		ID:             uuid.NewString(),
		UserID:         userID,
		TaskID:         taskID,
		CompletedAt:    time.Now().UTC(),
		CompletionData: completionData,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// CompletedTaskIDs returns the set of task IDs the user has at least one
// completion for. Used for cheap "is this task done" views.
func CompletedTaskIDs(ctx context.Context, db *gorm.DB, userID string) (map[string]struct{}, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.TaskCompletion{}).
		Where("user_id = ?", userID).
		Distinct().
		Pluck("task_id", &ids).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out, nil
}

// isUniqueViolation detects unique-constraint errors across the two
// configured drivers.
//
// glebarez/sqlite often returns plain-text errors for UNIQUE violations;
// postgres reports "duplicate key value violates unique constraint".
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}
