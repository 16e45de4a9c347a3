// Package services – FaucetService
//
// This file implements the faucet claim processor: a lock-guarded batch job
// that drains pending claims and transitions each to confirmed or failed.
// The global lock bounds overlap between runs; the per-claim state machine
// (pending → confirmed | failed, terminal) prevents double disbursement even
// if the lock is lost mid-batch.
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"gorm.io/gorm"

	"github.com/rs/zerolog/log"

	"github.com/zigletlabs/go-rewards-backend/internal/domain"
	"github.com/zigletlabs/go-rewards-backend/internal/lock"
	"github.com/zigletlabs/go-rewards-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Disburser executes one faucet disbursement and returns the real transaction
// hash. Implementations talk to the external signing infrastructure; the
// engine only records the outcome.
type Disburser interface {
	Disburse(ctx context.Context, claim *domain.FaucetClaim) (txHash string, err error)
}

// MockDisburser fabricates a transaction hash without touching a chain.
// It stands in for the external signer in development and tests.
type MockDisburser struct{}

// Disburse returns a random 0x-prefixed 64-hex-digit hash.
func (MockDisburser) Disburse(_ context.Context, _ *domain.FaucetClaim) (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return "0x" + hex.EncodeToString(b[:]), nil
}

// ProcessReport summarizes one processor run.
type ProcessReport struct {
	// Locked is true when another run held the global lock and this
	// invocation was a no-op.
	Locked    bool `json:"locked"`
	Processed int  `json:"processed"`
	Confirmed int  `json:"confirmed"`
	Failed    int  `json:"failed"`
}

// FaucetService drains pending faucet claims in bounded batches.
type FaucetService struct {
	DB        *gorm.DB
	Locks     lock.Store
	Disburser Disburser

	// BatchSize bounds claims per run; values <= 0 default to 10.
	BatchSize int
	// LockTTL bounds how long a stalled batch blocks the next run; values
	// <= 0 default to 60s.
	LockTTL time.Duration
}

// NewFaucetService constructs a FaucetService with default batch bounds.
func NewFaucetService(db *gorm.DB, locks lock.Store, d Disburser) *FaucetService {
	return &FaucetService{DB: db, Locks: locks, Disburser: d, BatchSize: 10, LockTTL: 60 * time.Second}
}

// ProcessPending runs one batch. If the global processing lock is held the
// run is a no-op; otherwise up to BatchSize pending claims are disbursed
// independently — one claim's failure marks that claim failed and the batch
// continues. The lock is released on every path.
func (s *FaucetService) ProcessPending(ctx context.Context) (*ProcessReport, error) {
	tr := otel.Tracer("services/FaucetService")
	ctx, span := tr.Start(ctx, "ProcessPending")
	defer span.End()

	ttl := s.LockTTL
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	batch := s.BatchSize
	if batch <= 0 {
		batch = 10
	}

	held, err := s.Locks.Acquire(ctx, lock.FaucetProcessKey, ttl)
	if err != nil {
		return nil, err
	}
	if !held {
		log.Debug().Msg("faucet processing already in progress")
		return &ProcessReport{Locked: true}, nil
	}
	defer func() {
		if rerr := s.Locks.Release(ctx, lock.FaucetProcessKey); rerr != nil {
			log.Warn().Err(rerr).Msg("faucet lock release failed")
		}
	}()

	claims, err := repo.ListFaucetClaims(ctx, s.DB, domain.ClaimStatusPending, batch)
	if err != nil {
		return nil, err
	}
	log.Info().Int("pending", len(claims)).Msg("processing faucet claims")

	report := &ProcessReport{}
	for i := range claims {
		claim := &claims[i]
		s.processOne(ctx, claim, report)
	}

	span.SetAttributes(
		attribute.Int("faucet.processed", report.Processed),
		attribute.Int("faucet.failed", report.Failed),
	)
	return report, nil
}

// ListClaims returns up to limit claims in the given status, oldest first.
// Unknown statuses return an empty slice rather than an error.
func (s *FaucetService) ListClaims(ctx context.Context, status string, limit int) ([]domain.FaucetClaim, error) {
	return repo.ListFaucetClaims(ctx, s.DB, status, limit)
}

// processOne disburses a single claim and records its terminal state.
// Failures are contained to the claim: it is marked failed (keeping the
// placeholder hash) and requires operator intervention, never a retry.
func (s *FaucetService) processOne(ctx context.Context, claim *domain.FaucetClaim, report *ProcessReport) {
	txHash, err := s.Disburser.Disburse(ctx, claim)
	if err != nil {
		log.Error().Err(err).Str("claim_id", claim.ID).Msg("faucet disbursement failed")
		if uerr := repo.UpdateFaucetClaimOutcome(ctx, s.DB, claim.ID, domain.ClaimStatusFailed, claim.TxHash); uerr != nil {
			log.Error().Err(uerr).Str("claim_id", claim.ID).Msg("failed to mark claim failed")
			return
		}
		claimsProcessedTotal.WithLabelValues(domain.ClaimStatusFailed).Inc()
		report.Processed++
		report.Failed++
		return
	}

	if uerr := repo.UpdateFaucetClaimOutcome(ctx, s.DB, claim.ID, domain.ClaimStatusConfirmed, txHash); uerr != nil {
		// The claim stays pending and is retried next run; the tx hash is
		// logged so operators can reconcile a double disbursement.
		log.Error().Err(uerr).Str("claim_id", claim.ID).Str("tx_hash", txHash).Msg("failed to confirm claim")
		return
	}
	log.Info().Str("claim_id", claim.ID).Str("tx_hash", txHash).Msg("claim confirmed")
	claimsProcessedTotal.WithLabelValues(domain.ClaimStatusConfirmed).Inc()
	report.Processed++
	report.Confirmed++
}
