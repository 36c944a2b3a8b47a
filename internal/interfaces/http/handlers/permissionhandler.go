package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	appauthz "sentra/internal/application/authz"
	"sentra/internal/interfaces/http/middleware"
	"sentra/internal/shared/logger"
	"sentra/internal/shared/utils"
)

type PermissionHandler struct {
	permissionService *appauthz.PermissionService
	effective         *appauthz.EffectivePermissionService
	sessionService    *appauthz.SessionService
	logger            logger.Interface
}

func NewPermissionHandler(
	permissionService *appauthz.PermissionService,
	effective *appauthz.EffectivePermissionService,
	sessionService *appauthz.SessionService,
	logger logger.Interface,
) *PermissionHandler {
	return &PermissionHandler{
		permissionService: permissionService,
		effective:         effective,
		sessionService:    sessionService,
		logger:            logger,
	}
}

// ListCatalog returns the permission catalog, optionally filtered by the
// "module" query parameter.
func (h *PermissionHandler) ListCatalog(c *gin.Context) {
	permissions, err := h.permissionService.ListCatalog(c.Request.Context(), c.Query("module"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toPermissionResponses(permissions))
}

// MyPermissionsResponse is the effective-permission view served to clients
// so they can shape their UI without issuing per-action checks.
type MyPermissionsResponse struct {
	UserID          uint      `json:"user_id"`
	Roles           []string  `json:"roles"`
	PrimaryRole     string    `json:"primary_role,omitempty"`
	IsAdmin         bool      `json:"is_admin"`
	Permissions     []string  `json:"permissions"`
	BranchIDs       []uint    `json:"branch_ids"`
	AllBranches     bool      `json:"all_branches"`
	DefaultBranchID uint      `json:"default_branch_id,omitempty"`
	ActiveBranchID  uint      `json:"active_branch_id,omitempty"`
	ResolvedAt      time.Time `json:"resolved_at"`
}

// GetMyPermissions returns the caller's resolved snapshot plus the active
// branch scope of the session.
func (h *PermissionHandler) GetMyPermissions(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return
	}

	snapshot, err := h.effective.GetSnapshot(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	activeBranch, err := h.sessionService.ActiveBranch(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	codes := snapshot.PermissionCodes()
	sort.Strings(codes)

	utils.SuccessResponse(c, http.StatusOK, "", MyPermissionsResponse{
		UserID:          snapshot.UserID,
		Roles:           snapshot.RoleSlugs,
		PrimaryRole:     snapshot.PrimaryRoleSlug,
		IsAdmin:         snapshot.IsAdmin(),
		Permissions:     codes,
		BranchIDs:       snapshot.BranchIDs,
		AllBranches:     snapshot.AllBranches,
		DefaultBranchID: snapshot.DefaultBranchID,
		ActiveBranchID:  activeBranch,
		ResolvedAt:      snapshot.ResolvedAt,
	})
}
