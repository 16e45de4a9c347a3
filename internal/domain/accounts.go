// Package domain — collaborator-owned rows the engine reads but does not
// create: users, linked social accounts, and daily login records.
package domain

import "time"

// User is the minimal identity row owned by the authentication collaborator.
type User struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	WalletAddress string    `json:"wallet_address" gorm:"type:varchar(128);not null;uniqueIndex"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// SocialAccount links a user to a verified platform identity. Owned by the
// social-linking collaborator; the engine only checks its presence as a
// prerequisite for social tasks.
type SocialAccount struct {
	ID             string    `json:"id"               gorm:"type:char(36);primaryKey"`
	UserID         string    `json:"user_id"          gorm:"type:char(36);not null;uniqueIndex:ux_social_user_platform,priority:1"`
	Platform       string    `json:"platform"         gorm:"type:varchar(32);not null;uniqueIndex:ux_social_user_platform,priority:2;uniqueIndex:ux_social_platform_uid,priority:1"`
	PlatformUserID string    `json:"platform_user_id" gorm:"type:varchar(64);not null;uniqueIndex:ux_social_platform_uid,priority:2"`
	Username       string    `json:"username"         gorm:"type:varchar(64);not null"`
	VerifiedAt     time.Time `json:"verified_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for SocialAccount.
func (SocialAccount) TableName() string { return "social_accounts" }

// UserLogin records that a user authenticated on a given calendar day.
// Written once per (user, day) by the auth flow; the daily-login task path
// reads it to prove eligibility and flips Claimed inside the completion
// transaction.
type UserLogin struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id"    gorm:"type:char(36);not null;index;uniqueIndex:ux_login_user_date,priority:1"`
	LoginDate string    `json:"login_date" gorm:"type:varchar(10);not null;uniqueIndex:ux_login_user_date,priority:2"`
	Claimed   bool      `json:"claimed"    gorm:"not null;default:false"`
	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

// TableName returns the database table name for UserLogin.
func (UserLogin) TableName() string { return "user_logins" }
