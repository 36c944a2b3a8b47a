package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appauthz "sentra/internal/application/authz"
	"sentra/internal/shared/logger"
	"sentra/internal/shared/utils"
)

type AssignmentHandler struct {
	assignmentService *appauthz.AssignmentService
	logger            logger.Interface
}

func NewAssignmentHandler(assignmentService *appauthz.AssignmentService, logger logger.Interface) *AssignmentHandler {
	return &AssignmentHandler{
		assignmentService: assignmentService,
		logger:            logger,
	}
}

type CreateAssignmentRequest struct {
	UserID       uint   `json:"user_id" binding:"required"`
	RoleID       uint   `json:"role_id" binding:"required"`
	ScopeType    string `json:"scope_type" binding:"required,oneof=global branch department"`
	BranchID     uint   `json:"branch_id"`
	DepartmentID uint   `json:"department_id"`
	IsPrimary    bool   `json:"is_primary"`
}

func (h *AssignmentHandler) CreateAssignment(c *gin.Context) {
	var req CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create assignment", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	assignment, err := h.assignmentService.Assign(c.Request.Context(), appauthz.AssignInput{
		UserID:       req.UserID,
		RoleID:       req.RoleID,
		ScopeType:    req.ScopeType,
		BranchID:     req.BranchID,
		DepartmentID: req.DepartmentID,
		IsPrimary:    req.IsPrimary,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toAssignmentResponse(assignment), "Role assigned successfully")
}

func (h *AssignmentHandler) DeleteAssignment(c *gin.Context) {
	id, err := utils.ParseUintParam(c, "id", "assignment")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.assignmentService.Revoke(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *AssignmentHandler) SetPrimary(c *gin.Context) {
	id, err := utils.ParseUintParam(c, "id", "assignment")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.assignmentService.SetPrimary(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Primary assignment updated", nil)
}

func (h *AssignmentHandler) ListUserAssignments(c *gin.Context) {
	userID, err := utils.ParseUintParam(c, "user_id", "user")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	assignments, err := h.assignmentService.ListForUser(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toAssignmentResponses(assignments))
}
