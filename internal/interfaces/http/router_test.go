package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appauthz "sentra/internal/application/authz"
	"sentra/internal/infrastructure/auth"
	"sentra/internal/infrastructure/cache"
	"sentra/internal/infrastructure/persistence/models"
	"sentra/internal/infrastructure/persistence/seeds"
	"sentra/internal/infrastructure/repository"
	"sentra/internal/shared/config"
	shareddb "sentra/internal/shared/db"
	"sentra/internal/shared/logger"
)

const (
	adminUserID    = uint(1)
	managerUserID  = uint(2)
	employeeUserID = uint(3)
)

type routerEnv struct {
	engine *gin.Engine
	jwt    *auth.JWTService
	db     *gorm.DB
}

func newRouterEnv(t *testing.T) *routerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.UserModel{},
		&models.BranchModel{},
		&models.DepartmentModel{},
		&models.RoleModel{},
		&models.PermissionModel{},
		&models.RolePermissionModel{},
		&models.UserRoleAssignmentModel{},
		&models.UserBranchAccessModel{},
	))

	log := logger.NewLogger()
	require.NoError(t, seeds.SeedAuthz(db, log))

	for id, email := range map[uint]string{
		adminUserID:    "admin@example.com",
		managerUserID:  "manager@example.com",
		employeeUserID: "employee@example.com",
	} {
		require.NoError(t, db.Create(&models.UserModel{ID: id, Email: email, Name: email, Status: "active"}).Error)
	}
	require.NoError(t, db.Create(&models.BranchModel{ID: 1, Name: "Main", Code: "MAIN", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.BranchModel{ID: 2, Name: "North", Code: "NORTH", IsActive: true}).Error)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	snapshots := cache.NewRedisSnapshotCache(client, 5*time.Minute, 0, log)
	scopeStore := cache.NewRedisActiveScopeStore(client, log)
	txManager := shareddb.NewTransactionManager(db)

	roleRepo := repository.NewRoleRepository(db, log)
	permissionRepo := repository.NewPermissionRepository(db, log)
	assignmentRepo := repository.NewAssignmentRepository(db, log)
	branchAccessRepo := repository.NewBranchAccessRepository(db, log)
	branchRepo := repository.NewBranchRepository(db, log)
	departmentRepo := repository.NewDepartmentRepository(db, log)
	userRepo := repository.NewUserRepository(db, log)

	effective := appauthz.NewEffectivePermissionService(assignmentRepo, roleRepo, branchAccessRepo, snapshots, log)
	assignmentService := appauthz.NewAssignmentService(assignmentRepo, roleRepo, userRepo, branchRepo, departmentRepo, txManager, snapshots, log)

	seedAssignment := func(userID uint, slug string) {
		var role models.RoleModel
		require.NoError(t, db.Where("slug = ?", slug).First(&role).Error)
		_, err := assignmentService.Assign(t.Context(), appauthz.AssignInput{
			UserID: userID, RoleID: role.ID, ScopeType: "global", IsPrimary: true,
		})
		require.NoError(t, err)
	}
	seedAssignment(adminUserID, "admin")
	seedAssignment(managerUserID, "manager")
	seedAssignment(employeeUserID, "employee")

	jwtService := auth.NewJWTService("test-secret", 15)

	router := NewRouter(Deps{
		ServerConfig:      &config.ServerConfig{Mode: "test"},
		JWTService:        jwtService,
		RoleService:       appauthz.NewRoleService(roleRepo, permissionRepo, assignmentRepo, snapshots, log),
		PermissionService: appauthz.NewPermissionService(permissionRepo, log),
		AssignmentService: assignmentService,
		AccessService:     appauthz.NewBranchAccessService(branchAccessRepo, branchRepo, userRepo, scopeStore, txManager, snapshots, log),
		DepartmentService: appauthz.NewDepartmentService(departmentRepo, log),
		Effective:         effective,
		SessionService:    appauthz.NewSessionService(scopeStore, branchRepo, effective, log),
		Logger:            log,
	})

	return &routerEnv{engine: router.Setup(), jwt: jwtService, db: db}
}

func (e *routerEnv) request(t *testing.T, method, path string, userID uint, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		token, err := e.jwt.Generate(userID)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.engine.ServeHTTP(rec, req)
	return rec
}

func TestRouter_HealthzNeedsNoAuth(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.request(t, http.MethodGet, "/healthz", 0, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_MissingTokenRejected(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.request(t, http.MethodGet, "/api/v1/permissions/me", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_GarbageTokenRejected(t *testing.T) {
	env := newRouterEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/permissions/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	env.engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_MyPermissions(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.request(t, http.MethodGet, "/api/v1/permissions/me", employeeUserID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			UserID      uint     `json:"user_id"`
			Roles       []string `json:"roles"`
			PrimaryRole string   `json:"primary_role"`
			IsAdmin     bool     `json:"is_admin"`
			Permissions []string `json:"permissions"`
			AllBranches bool     `json:"all_branches"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, employeeUserID, body.Data.UserID)
	assert.Equal(t, []string{"employee"}, body.Data.Roles)
	assert.Equal(t, "employee", body.Data.PrimaryRole)
	assert.False(t, body.Data.IsAdmin)
	assert.Contains(t, body.Data.Permissions, "inventory:view")
	assert.NotContains(t, body.Data.Permissions, "reports:view")
	assert.True(t, body.Data.AllBranches)
}

func TestRouter_RoleCreationIsAdminOnly(t *testing.T) {
	env := newRouterEnv(t)
	payload := gin.H{"name": "Auditor", "slug": "auditor", "hierarchy_level": 3}

	rec := env.request(t, http.MethodPost, "/api/v1/roles", employeeUserID, payload)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.request(t, http.MethodPost, "/api/v1/roles", adminUserID, payload)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = env.request(t, http.MethodPost, "/api/v1/roles", adminUserID, payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_RoleSlugValidation(t *testing.T) {
	env := newRouterEnv(t)

	rec := env.request(t, http.MethodPost, "/api/v1/roles", adminUserID,
		gin.H{"name": "Bad Slug", "slug": "Bad Slug!", "hierarchy_level": 3})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_CatalogRequiresUsersView(t *testing.T) {
	env := newRouterEnv(t)

	// Employee lacks users:view; manager holds it.
	rec := env.request(t, http.MethodGet, "/api/v1/permissions", employeeUserID, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/v1/permissions", managerUserID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SwitchBranchContainment(t *testing.T) {
	env := newRouterEnv(t)

	// Restrict the employee to branch 1, then try to switch to branch 2.
	rec := env.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/users/%d/branch-access", employeeUserID), adminUserID,
		gin.H{"branch_id": 1, "access_level": "full"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.request(t, http.MethodPatch, "/api/v1/session/active-branch", employeeUserID,
		gin.H{"branch_id": 2})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.request(t, http.MethodPatch, "/api/v1/session/active-branch", employeeUserID,
		gin.H{"branch_id": 1})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/v1/session/active-branch", employeeUserID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			BranchID uint `json:"branch_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, uint(1), body.Data.BranchID)
}

func TestRouter_GrantChangesPropagate(t *testing.T) {
	env := newRouterEnv(t)

	// Employee cannot see reports until the role gains reports:view.
	rec := env.request(t, http.MethodGet, "/api/v1/permissions/me", employeeUserID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "reports:view")

	var role models.RoleModel
	require.NoError(t, env.db.Where("slug = ?", "employee").First(&role).Error)
	var perm models.PermissionModel
	require.NoError(t, env.db.Where("module = ? AND action = ?", "reports", "view").First(&perm).Error)

	rec = env.request(t, http.MethodPost,
		fmt.Sprintf("/api/v1/roles/%d/permissions/%d", role.ID, perm.ID), adminUserID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.request(t, http.MethodGet, "/api/v1/permissions/me", employeeUserID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "reports:view")
}
