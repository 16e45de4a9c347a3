// Package domain — reward records produced by the dispatcher.
package domain

import "time"

// Faucet claim states. Confirmed and failed are terminal.
const (
	ClaimStatusPending   = "pending"
	ClaimStatusConfirmed = "confirmed"
	ClaimStatusFailed    = "failed"
)

// PointsLedgerEntry is an append-only credit (or debit) on a user's points
// balance. Entries are never mutated; the balance is the sum of Amount per
// user. EventID links the entry 1:1 to the TaskEvent that earned it and is
// uniquely constrained so a single event can never credit twice.
type PointsLedgerEntry struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	UserID      string    `json:"user_id"      gorm:"type:char(36);not null;index"`
	Reason      string    `json:"reason"       gorm:"type:varchar(128);not null"`
	Amount      int64     `json:"amount"       gorm:"not null"`
	ReferenceID string    `json:"reference_id,omitempty" gorm:"type:char(36)"`
	EventID     *string   `json:"event_id,omitempty"     gorm:"type:char(36);uniqueIndex"`
	CreatedAt   time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID"`
}

// TableName returns the database table name for PointsLedgerEntry.
func (PointsLedgerEntry) TableName() string { return "points_ledger" }

// FaucetClaim is a pending token disbursement awaiting external execution.
// Rows are append-only except for the pending → confirmed|failed transition
// performed by the claim processor. TxHash holds a PENDING_<uuid> placeholder
// until a real transaction hash is recorded; it is unique either way.
type FaucetClaim struct {
	ID               string    `json:"id"                 gorm:"type:char(36);primaryKey"`
	UserID           string    `json:"user_id"            gorm:"type:char(36);not null;index"`
	TaskCompletionID string    `json:"task_completion_id" gorm:"type:char(36);not null"`
	Amount           int64     `json:"amount"             gorm:"not null"`
	TxHash           string    `json:"tx_hash"            gorm:"type:varchar(128);not null;uniqueIndex"`
	Status           string    `json:"status"             gorm:"type:varchar(16);not null;default:'pending';index;check:status IN ('pending','confirmed','failed')"`
	EventID          *string   `json:"event_id,omitempty" gorm:"type:char(36);uniqueIndex"`
	ClaimedAt        time.Time `json:"claimed_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	User           User           `json:"-" gorm:"foreignKey:UserID;references:ID"`
	TaskCompletion TaskCompletion `json:"-" gorm:"foreignKey:TaskCompletionID;references:ID"`
}

// TableName returns the database table name for FaucetClaim.
func (FaucetClaim) TableName() string { return "faucet_claims" }
