// Task HTTP handlers.
//
// This file exposes REST endpoints for the task catalog and task completion:
//   - GET    /tasks                (list, decorated with completion flags)
//   - POST   /tasks/{id}/complete  (idempotent completion attempt)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate completion outcomes into HTTP responses. The benign outcomes
// (duplicate, locked, ineligible) surface as structured JSON with dedicated
// status codes so clients can branch without parsing messages.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zigletlabs/go-rewards-backend/internal/domain"
	"github.com/zigletlabs/go-rewards-backend/internal/services"
	"github.com/zigletlabs/go-rewards-backend/internal/sysutil"
)

//
// Service contracts (context-aware)
//

// TaskService defines catalog and completion operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type TaskService interface {
	// List returns active tasks decorated with the user's completion flags.
	List(ctx context.Context, userID string) ([]services.TaskView, error)
	// Complete runs one idempotent completion attempt.
	Complete(ctx context.Context, userID, taskID string, proof services.Proof) (*services.CompletionResult, error)
}

// FaucetService defines claim inspection and processing operations.
type FaucetService interface {
	// ProcessPending runs one batch of the claim processor.
	ProcessPending(ctx context.Context) (*services.ProcessReport, error)
	// ListClaims returns up to limit claims in the given status, oldest first.
	ListClaims(ctx context.Context, status string, limit int) ([]domain.FaucetClaim, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for tasks, points, and faucet claims.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	taskSvc   TaskService
	pointsSvc *services.PointsService
	faucetSvc FaucetService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(taskSvc TaskService, pointsSvc *services.PointsService, faucetSvc FaucetService) *Handlers {
	return &Handlers{taskSvc: taskSvc, pointsSvc: pointsSvc, faucetSvc: faucetSvc}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to the "X-User-ID" header. An empty
// result means the request is unauthenticated.
func userID(c *gin.Context) string {
	fromCtx := ""
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok {
			fromCtx = s
		}
	}
	header := ""
	if c != nil && c.Request != nil {
		header = c.GetHeader("X-User-ID")
	}
	return strings.TrimSpace(sysutil.FirstNonEmpty(fromCtx, header))
}

//
// DTOs
//

// CompleteTaskRequest is the JSON payload for a completion attempt. All
// fields are optional; which ones matter depends on the task.
type CompleteTaskRequest struct {
	// TweetID is the candidate artifact for artifact-based social tasks.
	TweetID string `json:"tweet_id"`
	// SubmissionID identifies a content submission.
	SubmissionID string `json:"submission_id"`
}

// ListTasksResponse wraps the decorated task catalog.
type ListTasksResponse struct {
	Tasks []services.TaskView `json:"tasks"`
}

//
// Handlers
//

// ListTasks returns all active tasks with the caller's completion flags.
func (h *Handlers) ListTasks(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing user identity")
		return
	}

	tasks, err := h.taskSvc.List(c.Request.Context(), uid)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListTasksResponse{Tasks: tasks})
}

// CompleteTask runs one idempotent completion attempt for the caller.
//
// Status mapping:
//   - 200: reward dispatched (exactly once for this dedup key)
//   - 409 task_duplicate: the key was already rewarded; safe to treat as done
//   - 409 task_locked: another attempt is in flight; retry later
//   - 422 task_ineligible: a prerequisite is missing
//   - 404: unknown task or unprovisioned user
func (h *Handlers) CompleteTask(c *gin.Context) {
	uid := userID(c)
	if uid == "" {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "missing user identity")
		return
	}
	taskID := strings.TrimSpace(c.Param("id"))
	if taskID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "task id required")
		return
	}

	// The body is optional: tasks without proof requirements accept an empty
	// POST.
	var req CompleteTaskRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}

	res, err := h.taskSvc.Complete(c.Request.Context(), uid, taskID, services.Proof{
		TweetID:      strings.TrimSpace(req.TweetID),
		SubmissionID: strings.TrimSpace(req.SubmissionID),
	})
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "task not found")
		return
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeCompleteFailed, err.Error())
		return
	}

	if res.Success {
		ok(c, http.StatusOK, res)
		return
	}
	switch res.Reason {
	case services.ReasonDuplicate:
		ok(c, http.StatusConflict, res)
	case services.ReasonLocked:
		ok(c, http.StatusConflict, res)
	case services.ReasonIneligible:
		ok(c, http.StatusUnprocessableEntity, res)
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "unrecognized completion outcome")
	}
}
