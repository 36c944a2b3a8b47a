package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appauthz "sentra/internal/application/authz"
	"sentra/internal/shared/logger"
	"sentra/internal/shared/utils"
)

type RoleHandler struct {
	roleService *appauthz.RoleService
	logger      logger.Interface
}

func NewRoleHandler(roleService *appauthz.RoleService, logger logger.Interface) *RoleHandler {
	return &RoleHandler{
		roleService: roleService,
		logger:      logger,
	}
}

type CreateRoleRequest struct {
	Name           string `json:"name" binding:"required,max=50"`
	Slug           string `json:"slug" binding:"required,max=50,role_slug"`
	Description    string `json:"description"`
	HierarchyLevel int    `json:"hierarchy_level" binding:"min=0"`
}

func (h *RoleHandler) CreateRole(c *gin.Context) {
	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create role", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	role, err := h.roleService.CreateRole(c.Request.Context(), appauthz.CreateRoleInput{
		Name:           req.Name,
		Slug:           req.Slug,
		Description:    req.Description,
		HierarchyLevel: req.HierarchyLevel,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toRoleResponse(role), "Role created successfully")
}

func (h *RoleHandler) GetRole(c *gin.Context) {
	id, err := utils.ParseUintParam(c, "id", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	role, err := h.roleService.GetRole(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toRoleResponse(role))
}

func (h *RoleHandler) ListRoles(c *gin.Context) {
	roles, err := h.roleService.ListRoles(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toRoleResponses(roles))
}

func (h *RoleHandler) DeleteRole(c *gin.Context) {
	id, err := utils.ParseUintParam(c, "id", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.roleService.DeleteRole(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.NoContentResponse(c)
}

func (h *RoleHandler) ListRolePermissions(c *gin.Context) {
	id, err := utils.ParseUintParam(c, "id", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	permissions, err := h.roleService.ListRolePermissions(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toPermissionResponses(permissions))
}

func (h *RoleHandler) GrantPermission(c *gin.Context) {
	roleID, err := utils.ParseUintParam(c, "id", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	permissionID, err := utils.ParseUintParam(c, "permission_id", "permission")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	granted, err := h.roleService.GrantPermission(c.Request.Context(), roleID, permissionID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	message := "Permission already granted"
	if granted {
		message = "Permission granted"
	}
	utils.SuccessResponse(c, http.StatusOK, message, gin.H{"granted": granted})
}

func (h *RoleHandler) RevokePermission(c *gin.Context) {
	roleID, err := utils.ParseUintParam(c, "id", "role")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	permissionID, err := utils.ParseUintParam(c, "permission_id", "permission")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	removed, err := h.roleService.RevokePermission(c.Request.Context(), roleID, permissionID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	message := "Permission was not granted"
	if removed {
		message = "Permission revoked"
	}
	utils.SuccessResponse(c, http.StatusOK, message, gin.H{"revoked": removed})
}
