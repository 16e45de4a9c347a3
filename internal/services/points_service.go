// Package services – PointsService
//
// Read surface over the append-only points ledger for the billing/balance
// view. All mutation happens through the reward dispatcher inside the
// completion transaction; this service only sums and pages.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/zigletlabs/go-rewards-backend/internal/domain"
	"github.com/zigletlabs/go-rewards-backend/internal/repo"
)

// PointsService exposes ledger reads.
type PointsService struct {
	DB *gorm.DB
}

// Balance returns the user's summed ledger amount. Users with no entries
// have balance 0.
func (s *PointsService) Balance(ctx context.Context, userID string) (int64, error) {
	return repo.SumPoints(ctx, s.DB, userID)
}

// History returns a page of ledger entries for the user, newest first.
// Invalid paging values fall back to defaults.
func (s *PointsService) History(ctx context.Context, userID string, page, pageSize int) ([]domain.PointsLedgerEntry, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return repo.ListPointsEntries(ctx, s.DB, userID, (page-1)*pageSize, pageSize)
}
