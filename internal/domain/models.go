// Package domain defines the persistence models for the reward engine:
// tasks, task events, completions, ledger entries, faucet claims, and the
// collaborator-owned rows the engine reads (users, social accounts, logins).
// These types are mapped with GORM and form the core data layer of the
// rewards backend.
package domain

import (
	"encoding/json"
	"time"
)

// Task types.
const (
	TaskTypeSocialCheck = "social_check"
	TaskTypeSubmission  = "submission"
	TaskTypeOnChain     = "on_chain"
)

// Reward types.
const (
	RewardTypePoints = "points"
	RewardTypeFaucet = "faucet"
)

// Task is a rewardable task definition from the catalog. The engine treats
// Task rows as read-only: they are created and updated by catalog management,
// and immutable for the duration of a completion attempt.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Slug: unique human-readable identifier (e.g. "daily-login").
//   - Type: one of social_check, submission, on_chain.
//   - Platform: social platform the task targets ("twitter"), if any.
//   - RewardType: points (synchronous ledger credit) or faucet (async claim).
//   - RewardAmount: reward size in points or token base units.
//   - DailyLimit: >0 marks the task as once-per-day per user.
//   - IsActive: inactive tasks cannot be completed.
//   - Metadata: opaque JSON blob (required hashtags, mentions, ...).
type Task struct {
	ID           string    `json:"id"            gorm:"type:char(36);primaryKey"`
	Slug         string    `json:"slug"          gorm:"type:varchar(64);not null;uniqueIndex"`
	Type         string    `json:"type"          gorm:"type:varchar(32);not null;check:type IN ('social_check','submission','on_chain')"`
	Platform     string    `json:"platform,omitempty" gorm:"type:varchar(32)"`
	RewardType   string    `json:"reward_type"   gorm:"type:varchar(16);not null;check:reward_type IN ('points','faucet')"`
	RewardAmount int64     `json:"reward_amount" gorm:"not null"`
	DailyLimit   int       `json:"daily_limit"   gorm:"not null;default:0"`
	IsActive     bool      `json:"is_active"     gorm:"not null;default:true"`
	Metadata     string    `json:"metadata,omitempty" gorm:"type:text"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for Task.
func (Task) TableName() string { return "tasks" }

// TaskMetadata is the decoded shape of Task.Metadata for social tasks.
type TaskMetadata struct {
	RequiredHashtags []string `json:"required_hashtags,omitempty"`
	RequiredMention  string   `json:"required_mention,omitempty"`
}

// DecodeMetadata parses the task's metadata JSON. An empty metadata column
// yields the zero value without error.
func (t Task) DecodeMetadata() (TaskMetadata, error) {
	var m TaskMetadata
	if t.Metadata == "" {
		return m, nil
	}
	err := json.Unmarshal([]byte(t.Metadata), &m)
	return m, err
}

// TaskEvent is the source of truth for rewardable occurrences. The composite
// unique index on (task_id, external_id, event_date) is the engine's final
// idempotency backstop: it must hold even when the per-pair lock is bypassed
// or expired.
//
// EventDate is a calendar day string (YYYY-MM-DD). Dateless keys store the
// empty string rather than NULL so the composite index compares
// deterministically on both SQLite and Postgres.
type TaskEvent struct {
	ID         string    `json:"id"          gorm:"type:char(36);primaryKey"`
	UserID     string    `json:"user_id"     gorm:"type:char(36);not null;index"`
	TaskID     string    `json:"task_id"     gorm:"type:char(36);not null;index;uniqueIndex:ux_event_dedup,priority:1"`
	EventType  string    `json:"event_type"  gorm:"type:varchar(50);not null"`
	ExternalID string    `json:"external_id" gorm:"type:text;not null;uniqueIndex:ux_event_dedup,priority:2"`
	EventDate  string    `json:"event_date"  gorm:"type:varchar(10);not null;default:'';uniqueIndex:ux_event_dedup,priority:3"`
	OccurredAt time.Time `json:"occurred_at"`
	Metadata   string    `json:"metadata,omitempty" gorm:"type:text"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID"`
	Task Task `json:"-" gorm:"foreignKey:TaskID;references:ID"`
}

// TableName returns the database table name for TaskEvent.
func (TaskEvent) TableName() string { return "task_events" }

// TaskCompletion is the derived "is this task done" view, written in the same
// transaction as its TaskEvent and never independently. There is deliberately
// no unique constraint on (user_id, task_id): daily tasks repeat, and
// TaskEvent's dedup triple is the only correctness backstop.
type TaskCompletion struct {
	ID             string    `json:"id"           gorm:"type:char(36);primaryKey"`
	UserID         string    `json:"user_id"      gorm:"type:char(36);not null;index:idx_user_completions"`
	TaskID         string    `json:"task_id"      gorm:"type:char(36);not null;index"`
	CompletedAt    time.Time `json:"completed_at"`
	CompletionData string    `json:"completion_data,omitempty" gorm:"type:text"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID"`
	Task Task `json:"-" gorm:"foreignKey:TaskID;references:ID"`
}

// TableName returns the database table name for TaskCompletion.
func (TaskCompletion) TableName() string { return "task_completions" }
