package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appauthz "sentra/internal/application/authz"
	"sentra/internal/shared/logger"
	"sentra/internal/shared/utils"
)

type BranchAccessHandler struct {
	accessService *appauthz.BranchAccessService
	logger        logger.Interface
}

func NewBranchAccessHandler(accessService *appauthz.BranchAccessService, logger logger.Interface) *BranchAccessHandler {
	return &BranchAccessHandler{
		accessService: accessService,
		logger:        logger,
	}
}

type AddBranchAccessRequest struct {
	BranchID    uint   `json:"branch_id" binding:"required"`
	AccessLevel string `json:"access_level" binding:"omitempty,oneof=full readonly"`
	IsDefault   bool   `json:"is_default"`
}

func (h *BranchAccessHandler) AddAccess(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "user_id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req AddBranchAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for add branch access", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	access, err := h.accessService.AddAccess(c.Request.Context(), userID, req.BranchID, req.AccessLevel, req.IsDefault)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toBranchAccessResponse(access), "Branch access granted")
}

// RemoveAccess drops a user's branch access. When removing the default
// branch while others remain, the replacement_branch_id query parameter
// names the next default.
func (h *BranchAccessHandler) RemoveAccess(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "user_id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	branchID, err := utils.ParseUintParam(c, "branch_id", "branch")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var replacement uint
	if raw := c.Query("replacement_branch_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid replacement branch ID")
			return
		}
		replacement = uint(parsed)
	}

	if err := h.accessService.RemoveAccess(c.Request.Context(), userID, branchID, replacement); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *BranchAccessHandler) SetDefault(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "user_id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	branchID, err := utils.ParseUintParam(c, "branch_id", "branch")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.accessService.SetDefault(c.Request.Context(), userID, branchID); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Default branch updated", nil)
}

func (h *BranchAccessHandler) ListAccess(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "user_id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	rows, err := h.accessService.ListAccess(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toBranchAccessResponses(rows))
}

func (h *BranchAccessHandler) ListBranches(c *gin.Context) {
	branches, err := h.accessService.ListBranches(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toBranchResponses(branches))
}
