package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appauthz "sentra/internal/application/authz"
	"sentra/internal/shared/logger"
	"sentra/internal/shared/utils"
)

type DepartmentHandler struct {
	departmentService *appauthz.DepartmentService
	logger            logger.Interface
}

func NewDepartmentHandler(departmentService *appauthz.DepartmentService, logger logger.Interface) *DepartmentHandler {
	return &DepartmentHandler{
		departmentService: departmentService,
		logger:            logger,
	}
}

type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Code        string `json:"code" binding:"required,max=20"`
	Description string `json:"description"`
}

func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req CreateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create department", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	department, err := h.departmentService.CreateDepartment(c.Request.Context(), req.Name, req.Code, req.Description)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toDepartmentResponse(department), "Department created successfully")
}

func (h *DepartmentHandler) GetDepartment(c *gin.Context) {
	id, err := utils.ParseUintParam(c, "id", "department")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	department, err := h.departmentService.GetDepartment(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toDepartmentResponse(department))
}

func (h *DepartmentHandler) ListDepartments(c *gin.Context) {
	departments, err := h.departmentService.ListDepartments(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toDepartmentResponses(departments))
}
