// Points HTTP handlers.
//
// Read-only endpoints over the points ledger:
//   - GET /points/balance  (summed balance)
//   - GET /points/history  (paginated ledger entries, newest first)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zigletlabs/go-rewards-backend/internal/domain"
	"github.com/zigletlabs/go-rewards-backend/internal/utils"
)

// BalanceResponse reports the caller's current points balance.
type BalanceResponse struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
}

// HistoryResponse wraps a page of ledger entries.
type HistoryResponse struct {
	Entries  []domain.PointsLedgerEntry `json:"entries"`
	Page     int                        `json:"page"`
	PageSize int                        `json:"page_size"`
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// GetBalance returns the caller's summed points balance. Users with no ledger
// entries read as balance 0.
func (h *Handlers) GetBalance(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing user identity")
		return
	}

	bal, err := h.pointsSvc.Balance(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, BalanceResponse{UserID: uid, Balance: bal})
}

// GetHistory returns a page of the caller's ledger entries, newest first.
func (h *Handlers) GetHistory(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing user identity")
		return
	}
	page, pageSize := clampPagination(c)

	entries, err := h.pointsSvc.History(c.Request.Context(), uid, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if entries == nil {
		entries = []domain.PointsLedgerEntry{}
	}
	ok(c, http.StatusOK, HistoryResponse{Entries: entries, Page: page, PageSize: pageSize})
}
