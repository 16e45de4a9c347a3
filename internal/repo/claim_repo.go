// Package repo — faucet claim repository. Claims are created pending with a
// placeholder tx hash and transitioned exactly once to confirmed or failed by
// the claim processor.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zigletlabs/go-rewards-backend/internal/domain"
)

// CreateFaucetClaim inserts a pending claim with a PENDING_<uuid> placeholder
// hash. eventID links the claim 1:1 to its task event.
func CreateFaucetClaim(ctx context.Context, db *gorm.DB, userID, completionID string, amount int64, eventID string) (*domain.FaucetClaim, error) {
	c := &domain.FaucetClaim{
		ID:               uuid.NewString(),
		UserID:           userID,
		TaskCompletionID: completionID,
		Amount:           amount,
		TxHash:           "PENDING_" + uuid.NewString(),
		Status:           domain.ClaimStatusPending,
		ClaimedAt:        time.Now().UTC(),
	}
	if eventID != "" {
		c.EventID = &eventID
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return c, nil
}

// ListFaucetClaims returns up to limit claims in the given status, oldest
// first so the processor drains the backlog in arrival order.
func ListFaucetClaims(ctx context.Context, db *gorm.DB, status string, limit int) ([]domain.FaucetClaim, error) {
	var out []domain.FaucetClaim
	q := db.WithContext(ctx).
		Where("status = ?", status).
		Order("claimed_at asc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// UpdateFaucetClaimOutcome transitions a claim out of pending, recording the
// terminal status and transaction hash. It refuses to touch rows that have
// already left pending, returning ErrNotFound so double transitions surface.
func UpdateFaucetClaimOutcome(ctx context.Context, db *gorm.DB, id, status, txHash string) error {
	res := db.WithContext(ctx).
		Model(&domain.FaucetClaim{}).
		Where("id = ? AND status = ?", id, domain.ClaimStatusPending).
		Updates(map[string]any{"status": status, "tx_hash": txHash, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountFaucetClaims returns the number of claims in the given status.
func CountFaucetClaims(ctx context.Context, db *gorm.DB, status string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.FaucetClaim{}).
		Where("status = ?", status).
		Count(&total).Error
	return total, err
}
