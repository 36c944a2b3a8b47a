package authz

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sentra/internal/domain/authz"
	vo "sentra/internal/domain/authz/value_objects"
	"sentra/internal/infrastructure/cache"
	"sentra/internal/infrastructure/persistence/models"
	"sentra/internal/infrastructure/persistence/seeds"
	"sentra/internal/infrastructure/repository"
	shareddb "sentra/internal/shared/db"
	apperrors "sentra/internal/shared/errors"
	"sentra/internal/shared/logger"
)

type testEnv struct {
	db          *gorm.DB
	redis       *miniredis.Miniredis
	snapshots   cache.SnapshotCache
	scopeStore  cache.ActiveScopeStore
	roles       *RoleService
	permissions *PermissionService
	assignments *AssignmentService
	access      *BranchAccessService
	effective   *EffectivePermissionService
	sessions    *SessionService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

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

	require.NoError(t, db.Create(&models.UserModel{ID: 1, Email: "alice@example.com", Name: "Alice", Status: "active"}).Error)
	require.NoError(t, db.Create(&models.UserModel{ID: 2, Email: "bob@example.com", Name: "Bob", Status: "active"}).Error)
	require.NoError(t, db.Create(&models.BranchModel{ID: 1, Name: "Main", Code: "MAIN", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.BranchModel{ID: 2, Name: "North", Code: "NORTH", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.BranchModel{ID: 3, Name: "South", Code: "SOUTH", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.DepartmentModel{ID: 1, Name: "Sales", Code: "SALES", IsActive: true}).Error)

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

	effective := NewEffectivePermissionService(assignmentRepo, roleRepo, branchAccessRepo, snapshots, log)

	return &testEnv{
		db:          db,
		redis:       mr,
		snapshots:   snapshots,
		scopeStore:  scopeStore,
		roles:       NewRoleService(roleRepo, permissionRepo, assignmentRepo, snapshots, log),
		permissions: NewPermissionService(permissionRepo, log),
		assignments: NewAssignmentService(assignmentRepo, roleRepo, userRepo, branchRepo, departmentRepo, txManager, snapshots, log),
		access:      NewBranchAccessService(branchAccessRepo, branchRepo, userRepo, scopeStore, txManager, snapshots, log),
		effective:   effective,
		sessions:    NewSessionService(scopeStore, branchRepo, effective, log),
	}
}

func (e *testEnv) roleID(t *testing.T, slug string) uint {
	t.Helper()
	var role models.RoleModel
	require.NoError(t, e.db.Where("slug = ?", slug).First(&role).Error)
	return role.ID
}

func (e *testEnv) permissionID(t *testing.T, module, action string) uint {
	t.Helper()
	var perm models.PermissionModel
	require.NoError(t, e.db.Where("module = ? AND action = ?", module, action).First(&perm).Error)
	return perm.ID
}

func (e *testEnv) assign(t *testing.T, userID uint, slug string, primary bool) *authz.Assignment {
	t.Helper()
	a, err := e.assignments.Assign(context.Background(), AssignInput{
		UserID:    userID,
		RoleID:    e.roleID(t, slug),
		ScopeType: "global",
		IsPrimary: primary,
	})
	require.NoError(t, err)
	return a
}

func TestRoleService_CreateRole_ReservedSlug(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.roles.CreateRole(context.Background(), CreateRoleInput{
		Name: "Fake Admin", Slug: "admin", HierarchyLevel: 1,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))
}

func TestRoleService_CreateRole_DuplicateSlug(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.roles.CreateRole(ctx, CreateRoleInput{Name: "Auditor", Slug: "auditor", HierarchyLevel: 3})
	require.NoError(t, err)

	_, err = env.roles.CreateRole(ctx, CreateRoleInput{Name: "Auditor Two", Slug: "auditor", HierarchyLevel: 3})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
}

func TestRoleService_CreateRole_GrantsDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	role, err := env.roles.CreateRole(ctx, CreateRoleInput{Name: "Auditor", Slug: "auditor", HierarchyLevel: 3})
	require.NoError(t, err)

	permissions, err := env.roles.ListRolePermissions(ctx, role.ID())
	require.NoError(t, err)
	require.Len(t, permissions, 1)
	assert.Equal(t, "dashboard:view", permissions[0].Code())
}

func TestRoleService_DeleteRole_SystemRefused(t *testing.T) {
	env := newTestEnv(t)

	err := env.roles.DeleteRole(context.Background(), env.roleID(t, authz.RoleSlugAdmin))
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
}

func TestRoleService_GrantPermission_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	roleID := env.roleID(t, authz.RoleSlugEmployee)
	permID := env.permissionID(t, "reports", "view")

	granted, err := env.roles.GrantPermission(ctx, roleID, permID)
	require.NoError(t, err)
	assert.True(t, granted)

	granted, err = env.roles.GrantPermission(ctx, roleID, permID)
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestRoleService_GrantPermission_InvalidatesHolders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.assign(t, 1, authz.RoleSlugEmployee, true)

	snapshot, err := env.effective.GetSnapshot(ctx, 1)
	require.NoError(t, err)
	assert.False(t, snapshot.Allows(vo.ModuleReports, vo.ActionView))

	_, err = env.roles.GrantPermission(ctx, env.roleID(t, authz.RoleSlugEmployee), env.permissionID(t, "reports", "view"))
	require.NoError(t, err)

	snapshot, err = env.effective.GetSnapshot(ctx, 1)
	require.NoError(t, err)
	assert.True(t, snapshot.Allows(vo.ModuleReports, vo.ActionView))
}

func TestRoleService_RevokePermission_AbsentIsNoOp(t *testing.T) {
	env := newTestEnv(t)

	removed, err := env.roles.RevokePermission(context.Background(),
		env.roleID(t, authz.RoleSlugEmployee), env.permissionID(t, "settings", "delete"))
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestAssignmentService_Assign_DuplicateConflicts(t *testing.T) {
	env := newTestEnv(t)

	env.assign(t, 1, authz.RoleSlugEmployee, true)

	_, err := env.assignments.Assign(context.Background(), AssignInput{
		UserID: 1, RoleID: env.roleID(t, authz.RoleSlugEmployee), ScopeType: "global",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))
}

func TestAssignmentService_Assign_UnknownBranch(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.assignments.Assign(context.Background(), AssignInput{
		UserID: 1, RoleID: env.roleID(t, authz.RoleSlugEmployee), ScopeType: "branch", BranchID: 99,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))
}

func TestAssignmentService_Assign_PrimarySwap(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.assign(t, 1, authz.RoleSlugEmployee, true)

	_, err := env.assignments.Assign(ctx, AssignInput{
		UserID: 1, RoleID: env.roleID(t, authz.RoleSlugManager), ScopeType: "global", IsPrimary: true,
	})
	require.NoError(t, err)

	rows, err := env.assignments.ListForUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	primaries := 0
	for _, row := range rows {
		if row.IsPrimary() {
			primaries++
			assert.NotEqual(t, first.ID(), row.ID())
		}
	}
	assert.Equal(t, 1, primaries)
}

func TestAssignmentService_SetPrimary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first := env.assign(t, 1, authz.RoleSlugManager, true)
	second := env.assign(t, 1, authz.RoleSlugEmployee, false)

	require.NoError(t, env.assignments.SetPrimary(ctx, second.ID()))

	rows, err := env.assignments.ListForUser(ctx, 1)
	require.NoError(t, err)
	for _, row := range rows {
		switch row.ID() {
		case first.ID():
			assert.False(t, row.IsPrimary())
		case second.ID():
			assert.True(t, row.IsPrimary())
		}
	}
}

func TestBranchAccessService_FirstRowBecomesDefault(t *testing.T) {
	env := newTestEnv(t)

	access, err := env.access.AddAccess(context.Background(), 1, 1, "full", false)
	require.NoError(t, err)
	assert.True(t, access.IsDefault())
}

func TestBranchAccessService_DefaultStaysExclusive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.access.AddAccess(ctx, 1, 1, "full", true)
	require.NoError(t, err)
	_, err = env.access.AddAccess(ctx, 1, 2, "full", true)
	require.NoError(t, err)

	rows, err := env.access.ListAccess(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	defaults := 0
	for _, row := range rows {
		if row.IsDefault() {
			defaults++
			assert.Equal(t, uint(2), row.BranchID())
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestBranchAccessService_RemoveDefaultNeedsReplacement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.access.AddAccess(ctx, 1, 1, "full", true)
	require.NoError(t, err)
	_, err = env.access.AddAccess(ctx, 1, 2, "full", false)
	require.NoError(t, err)

	err = env.access.RemoveAccess(ctx, 1, 1, 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsConflictError(err))

	err = env.access.RemoveAccess(ctx, 1, 1, 3)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidationError(err))

	require.NoError(t, env.access.RemoveAccess(ctx, 1, 1, 2))

	rows, err := env.access.ListAccess(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, uint(2), rows[0].BranchID())
	assert.True(t, rows[0].IsDefault())
}

func TestBranchAccessService_RemoveLastRowNeedsNoReplacement(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.access.AddAccess(ctx, 1, 1, "full", true)
	require.NoError(t, err)

	require.NoError(t, env.access.RemoveAccess(ctx, 1, 1, 0))

	rows, err := env.access.ListAccess(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestBranchAccessService_RemoveClearsActiveBranch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.assign(t, 1, authz.RoleSlugEmployee, true)
	_, err := env.access.AddAccess(ctx, 1, 1, "full", true)
	require.NoError(t, err)
	_, err = env.access.AddAccess(ctx, 1, 2, "full", false)
	require.NoError(t, err)

	require.NoError(t, env.sessions.SwitchBranch(ctx, 1, 2))
	require.NoError(t, env.access.RemoveAccess(ctx, 1, 2, 0))

	// The removed branch was the active scope, so the session falls back to
	// the default branch.
	branchID, err := env.sessions.ActiveBranch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), branchID)
}

func TestEffectiveService_AdminBypass(t *testing.T) {
	env := newTestEnv(t)

	env.assign(t, 1, authz.RoleSlugAdmin, true)

	snapshot, err := env.effective.GetSnapshot(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, snapshot.Allows(vo.ModuleSettings, vo.ActionDelete))
	assert.True(t, snapshot.CanAccessBranch(99))
}

func TestEffectiveService_UnionAcrossRoles(t *testing.T) {
	env := newTestEnv(t)

	env.assign(t, 1, authz.RoleSlugEmployee, true)
	env.assign(t, 1, authz.RoleSlugManager, false)

	snapshot, err := env.effective.GetSnapshot(context.Background(), 1)
	require.NoError(t, err)
	// reports:view comes only from the manager role.
	assert.True(t, snapshot.Allows(vo.ModuleReports, vo.ActionView))
	// Neither role grants settings:edit.
	assert.False(t, snapshot.Allows(vo.ModuleSettings, vo.ActionEdit))
	assert.Equal(t, authz.RoleSlugEmployee, snapshot.PrimaryRoleSlug)
}

func TestEffectiveService_NoAssignmentsDeniesAll(t *testing.T) {
	env := newTestEnv(t)

	snapshot, err := env.effective.GetSnapshot(context.Background(), 2)
	require.NoError(t, err)
	for _, module := range vo.AllModules() {
		for _, action := range vo.AllActions() {
			assert.False(t, snapshot.Allows(module, action))
		}
	}
}

func TestEffectiveService_SnapshotIsCached(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.assign(t, 1, authz.RoleSlugEmployee, true)

	_, err := env.effective.GetSnapshot(ctx, 1)
	require.NoError(t, err)

	// A grant change applied behind the cache's back stays invisible until
	// the entry is invalidated or expires.
	link := models.RolePermissionModel{
		RoleID:       env.roleID(t, authz.RoleSlugEmployee),
		PermissionID: env.permissionID(t, "settings", "view"),
	}
	require.NoError(t, env.db.Create(&link).Error)

	snapshot, err := env.effective.GetSnapshot(ctx, 1)
	require.NoError(t, err)
	assert.False(t, snapshot.Allows(vo.ModuleSettings, vo.ActionView))

	require.NoError(t, env.effective.Invalidate(ctx, 1))
	snapshot, err = env.effective.GetSnapshot(ctx, 1)
	require.NoError(t, err)
	assert.True(t, snapshot.Allows(vo.ModuleSettings, vo.ActionView))
}

func TestEffectiveService_CheckCode_UnknownNamesDeny(t *testing.T) {
	env := newTestEnv(t)

	env.assign(t, 1, authz.RoleSlugAdmin, true)

	allowed, err := env.effective.CheckCode(context.Background(), 1, "warehouse", "view")
	require.NoError(t, err)
	assert.False(t, allowed)

	allowed, err = env.effective.CheckCode(context.Background(), 1, "inventory", "transmogrify")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestSessionService_SwitchBranchContainment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.assign(t, 1, authz.RoleSlugEmployee, true)
	_, err := env.access.AddAccess(ctx, 1, 1, "full", true)
	require.NoError(t, err)

	err = env.sessions.SwitchBranch(ctx, 1, 2)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbiddenError(err))

	err = env.sessions.SwitchBranch(ctx, 1, 99)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFoundError(err))

	require.NoError(t, env.sessions.SwitchBranch(ctx, 1, 1))

	branchID, err := env.sessions.ActiveBranch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), branchID)
}

func TestSessionService_ActiveBranchFallsBackToDefault(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.assign(t, 1, authz.RoleSlugEmployee, true)
	_, err := env.access.AddAccess(ctx, 1, 1, "full", true)
	require.NoError(t, err)

	branchID, err := env.sessions.ActiveBranch(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), branchID)
}
