// Package repo — daily login records. Rows are written by the authentication
// flow (one per user per calendar day); the engine reads them to gate the
// daily-login task and flips Claimed inside the completion transaction.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/zigletlabs/go-rewards-backend/internal/domain"
)

// GetUserLogin returns the login record for (userID, loginDate), or
// ErrNotFound when the user did not authenticate that day.
func GetUserLogin(ctx context.Context, db *gorm.DB, userID, loginDate string) (*domain.UserLogin, error) {
	var rec domain.UserLogin
	err := db.WithContext(ctx).
		Where("user_id = ? AND login_date = ?", userID, loginDate).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateUserLogin records a login for the day. The auth collaborator calls
// this once per day; ErrDuplicate is returned for a repeat login so callers
// can ignore it.
func CreateUserLogin(ctx context.Context, db *gorm.DB, userID, loginDate string) (*domain.UserLogin, error) {
	rec := &domain.UserLogin{
		ID:        uuid.NewString(),
		UserID:    userID,
		LoginDate: loginDate,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// MarkUserLoginClaimed flips the claimed flag for an unclaimed record.
// Returns ErrNotFound when the record is missing or already claimed, so a
// lost race is visible to the transaction that attempted the flip.
func MarkUserLoginClaimed(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.UserLogin{}).
		Where("id = ? AND claimed = ?", id, false).
		Update("claimed", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
