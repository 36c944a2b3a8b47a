package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appauthz "sentra/internal/application/authz"
	"sentra/internal/interfaces/http/middleware"
	"sentra/internal/shared/logger"
	"sentra/internal/shared/utils"
)

type SessionHandler struct {
	sessionService *appauthz.SessionService
	logger         logger.Interface
}

func NewSessionHandler(sessionService *appauthz.SessionService, logger logger.Interface) *SessionHandler {
	return &SessionHandler{
		sessionService: sessionService,
		logger:         logger,
	}
}

type SwitchBranchRequest struct {
	BranchID uint `json:"branch_id" binding:"required"`
}

// SwitchBranch moves the caller's session to another branch they have
// access to.
func (h *SessionHandler) SwitchBranch(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	var req SwitchBranchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for switch branch", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.sessionService.SwitchBranch(c.Request.Context(), userID, req.BranchID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Active branch switched", gin.H{"branch_id": req.BranchID})
}

// GetActiveBranch returns the caller's current branch scope; zero means no
// branch is selected.
func (h *SessionHandler) GetActiveBranch(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	branchID, err := h.sessionService.ActiveBranch(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", gin.H{"branch_id": branchID})
}

func (h *SessionHandler) ClearActiveBranch(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	if err := h.sessionService.ClearActiveBranch(c.Request.Context(), userID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}
