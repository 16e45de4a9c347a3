// Package repo — points ledger repository. Entries are append-only; the
// balance exposed to the billing view is the per-user sum.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zigletlabs/go-rewards-backend/internal/domain"
)

// CreatePointsEntry appends a ledger entry. eventID may be empty for entries
// not originating from a task event (e.g. manual adjustments); when set it is
// uniquely constrained so one event can never credit twice.
func CreatePointsEntry(ctx context.Context, db *gorm.DB, userID, reason string, amount int64, referenceID, eventID string) (*domain.PointsLedgerEntry, error) {
	e := &domain.PointsLedgerEntry{
		ID:          uuid.NewString(),
		UserID:      userID,
		Reason:      reason,
		Amount:      amount,
		ReferenceID: referenceID,
		CreatedAt:   time.Now().UTC(),
	}
	if eventID != "" {
		e.EventID = &eventID
	}
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return e, nil
}

// SumPoints returns the user's current balance as the sum of all ledger
// amounts. A user with no entries has balance 0.
func SumPoints(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.PointsLedgerEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// ListPointsEntries returns a page of ledger entries for a user, newest
// first, for the billing/balance view.
func ListPointsEntries(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.PointsLedgerEntry, error) {
	var out []domain.PointsLedgerEntry
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
