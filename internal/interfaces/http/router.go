// Package http wires the HTTP surface: middleware chain, route table and
// request validation.
package http

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	appauthz "sentra/internal/application/authz"
	"sentra/internal/infrastructure/auth"
	"sentra/internal/interfaces/http/handlers"
	"sentra/internal/interfaces/http/middleware"
	"sentra/internal/shared/config"
	"sentra/internal/shared/logger"
	"sentra/internal/shared/utils"
)

var roleSlugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Deps carries everything the router needs; main assembles it once.
type Deps struct {
	ServerConfig *config.ServerConfig
	JWTService   *auth.JWTService

	RoleService       *appauthz.RoleService
	PermissionService *appauthz.PermissionService
	AssignmentService *appauthz.AssignmentService
	AccessService     *appauthz.BranchAccessService
	DepartmentService *appauthz.DepartmentService
	Effective         *appauthz.EffectivePermissionService
	SessionService    *appauthz.SessionService

	Logger logger.Interface
}

type Router struct {
	engine *gin.Engine
	deps   Deps
}

func NewRouter(deps Deps) *Router {
	if deps.ServerConfig.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	registerValidators()

	return &Router{
		engine: gin.New(),
		deps:   deps,
	}
}

func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("role_slug", func(fl validator.FieldLevel) bool {
		return roleSlugPattern.MatchString(fl.Field().String())
	})
}

// Setup installs the middleware chain and route table and returns the engine.
func (r *Router) Setup() *gin.Engine {
	log := r.deps.Logger

	r.engine.Use(middleware.Recovery())
	r.engine.Use(middleware.CustomLogger(log))
	r.engine.Use(middleware.CORS(r.deps.ServerConfig.AllowedOrigins))

	r.engine.GET("/healthz", func(c *gin.Context) {
		utils.SuccessResponse(c, http.StatusOK, "", gin.H{"status": "ok"})
	})

	authMW := middleware.NewAuthMiddleware(r.deps.JWTService, log)
	permMW := middleware.NewPermissionMiddleware(r.deps.Effective, log)

	roleHandler := handlers.NewRoleHandler(r.deps.RoleService, log)
	permissionHandler := handlers.NewPermissionHandler(r.deps.PermissionService, r.deps.Effective, r.deps.SessionService, log)
	assignmentHandler := handlers.NewAssignmentHandler(r.deps.AssignmentService, log)
	accessHandler := handlers.NewBranchAccessHandler(r.deps.AccessService, log)
	sessionHandler := handlers.NewSessionHandler(r.deps.SessionService, log)
	departmentHandler := handlers.NewDepartmentHandler(r.deps.DepartmentService, log)

	api := r.engine.Group("/api/v1")
	api.Use(authMW.RequireAuth())

	// Self-service surface: any authenticated user.
	api.GET("/permissions/me", permissionHandler.GetMyPermissions)
	api.GET("/session/active-branch", sessionHandler.GetActiveBranch)
	api.PATCH("/session/active-branch", sessionHandler.SwitchBranch)
	api.DELETE("/session/active-branch", sessionHandler.ClearActiveBranch)
	api.GET("/branches", accessHandler.ListBranches)
	api.GET("/departments", departmentHandler.ListDepartments)

	// Catalog browsing requires user administration visibility.
	api.GET("/permissions", permMW.RequirePermission("users", "view"), permissionHandler.ListCatalog)

	roles := api.Group("/roles")
	{
		roles.GET("", permMW.RequirePermission("users", "view"), roleHandler.ListRoles)
		roles.GET("/:id", permMW.RequirePermission("users", "view"), roleHandler.GetRole)
		roles.GET("/:id/permissions", permMW.RequirePermission("users", "view"), roleHandler.ListRolePermissions)
		roles.POST("", permMW.RequireAdmin(), roleHandler.CreateRole)
		roles.DELETE("/:id", permMW.RequireAdmin(), roleHandler.DeleteRole)
		roles.POST("/:id/permissions/:permission_id", permMW.RequireAdmin(), roleHandler.GrantPermission)
		roles.DELETE("/:id/permissions/:permission_id", permMW.RequireAdmin(), roleHandler.RevokePermission)
	}

	assignments := api.Group("/assignments")
	{
		assignments.POST("", permMW.RequirePermission("users", "edit"), assignmentHandler.CreateAssignment)
		assignments.DELETE("/:id", permMW.RequirePermission("users", "edit"), assignmentHandler.DeleteAssignment)
		assignments.PATCH("/:id/primary", permMW.RequirePermission("users", "edit"), assignmentHandler.SetPrimary)
	}

	users := api.Group("/users/:user_id")
	{
		users.GET("/assignments", permMW.RequirePermission("users", "view"), assignmentHandler.ListUserAssignments)
		users.GET("/branch-access", permMW.RequirePermission("users", "view"), accessHandler.ListAccess)
		users.POST("/branch-access", permMW.RequirePermission("users", "edit"), accessHandler.AddAccess)
		users.DELETE("/branch-access/:branch_id", permMW.RequirePermission("users", "edit"), accessHandler.RemoveAccess)
		users.PATCH("/branch-access/:branch_id/default", permMW.RequirePermission("users", "edit"), accessHandler.SetDefault)
	}

	departments := api.Group("/departments")
	{
		departments.GET("/:id", permMW.RequirePermission("settings", "view"), departmentHandler.GetDepartment)
		departments.POST("", permMW.RequirePermission("settings", "create"), departmentHandler.CreateDepartment)
	}

	return r.engine
}
