package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appauthz "sentra/internal/application/authz"
	"sentra/internal/shared/logger"
	"sentra/internal/shared/utils"
)

type PermissionMiddleware struct {
	effective *appauthz.EffectivePermissionService
	logger    logger.Interface
}

func NewPermissionMiddleware(effective *appauthz.EffectivePermissionService, logger logger.Interface) *PermissionMiddleware {
	return &PermissionMiddleware{
		effective: effective,
		logger:    logger,
	}
}

// RequirePermission denies the request unless the authenticated user may
// perform action on module. Check failures deny with a 500 rather than
// letting the request through.
func (m *PermissionMiddleware) RequirePermission(module, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		allowed, err := m.effective.CheckCode(c.Request.Context(), userID, module, action)
		if err != nil {
			m.logger.Errorw("permission check failed", "error", err, "user_id", userID, "module", module, "action", action)
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}

		if !allowed {
			m.logger.Warnw("permission denied", "user_id", userID, "module", module, "action", action)
			utils.ErrorResponse(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin denies the request unless the user holds the administrator
// role through any active assignment.
func (m *PermissionMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := UserID(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
			c.Abort()
			return
		}

		snapshot, err := m.effective.GetSnapshot(c.Request.Context(), userID)
		if err != nil {
			m.logger.Errorw("failed to resolve snapshot", "error", err, "user_id", userID)
			utils.ErrorResponse(c, http.StatusInternalServerError, "permission check failed")
			c.Abort()
			return
		}

		if !snapshot.IsAdmin() {
			utils.ErrorResponse(c, http.StatusForbidden, "administrator role required")
			c.Abort()
			return
		}

		c.Next()
	}
}
