// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Task model
// and the users/social-account/login rows owned by external collaborators.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a row is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/zigletlabs/go-rewards-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// GetTask fetches a task definition by ID, or ErrNotFound if missing.
func GetTask(ctx context.Context, db *gorm.DB, id string) (*domain.Task, error) {
	var t domain.Task
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTaskBySlug fetches a task definition by its unique slug.
func GetTaskBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Task, error) {
	var t domain.Task
	if err := db.WithContext(ctx).Where("slug = ?", slug).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ListActiveTasks returns all active tasks ordered by reward type then slug,
// matching the catalog ordering the frontend expects.
func ListActiveTasks(ctx context.Context, db *gorm.DB) ([]domain.Task, error) {
	var out []domain.Task
	err := db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("reward_type asc, slug asc").
		Find(&out).Error
	return out, err
}

// GetUser fetches a user by ID, or ErrNotFound if missing.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetSocialAccount returns the linked account for (userID, platform), or
// ErrNotFound when the user has not linked that platform.
func GetSocialAccount(ctx context.Context, db *gorm.DB, userID, platform string) (*domain.SocialAccount, error) {
	var a domain.SocialAccount
	err := db.WithContext(ctx).
		Where("user_id = ? AND platform = ?", userID, platform).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}
