// Faucet HTTP handlers.
//
// Operational endpoints for the faucet claim pipeline:
//   - GET  /faucet/claims   (inspect claims by status)
//   - POST /faucet/process  (trigger one processing batch)
//
// Processing normally runs on the background scheduler; the POST endpoint
// exists for operators and tests. Triggering it while a run is in flight is
// safe: the global lock turns the overlap into a no-op.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zigletlabs/go-rewards-backend/internal/domain"
	"github.com/zigletlabs/go-rewards-backend/internal/utils"
)

// ListClaimsResponse wraps claims in a single status.
type ListClaimsResponse struct {
	Status string               `json:"status"`
	Claims []domain.FaucetClaim `json:"claims"`
}

// ListClaims returns faucet claims filtered by status (default pending),
// oldest first.
func (h *Handlers) ListClaims(c *gin.Context) {
	status := strings.ToLower(strings.TrimSpace(c.DefaultQuery("status", domain.ClaimStatusPending)))
	switch status {
	case domain.ClaimStatusPending, domain.ClaimStatusConfirmed, domain.ClaimStatusFailed:
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "status must be pending, confirmed or failed")
		return
	}
	limit := utils.AtoiDefault(c.Query("limit"), 50)
	if limit < 1 {
		limit = 1
	}
	if limit > 500 {
		limit = 500
	}

	claims, err := h.faucetSvc.ListClaims(c.Request.Context(), status, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	if claims == nil {
		claims = []domain.FaucetClaim{}
	}
	ok(c, http.StatusOK, ListClaimsResponse{Status: status, Claims: claims})
}

// ProcessClaims triggers one claim processing batch and reports the outcome.
// Returns 202 when another run already holds the processing lock.
func (h *Handlers) ProcessClaims(c *gin.Context) {
	report, err := h.faucetSvc.ProcessPending(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeProcessFailed, err.Error())
		return
	}
	if report.Locked {
		ok(c, http.StatusAccepted, report)
		return
	}
	ok(c, http.StatusOK, report)
}
