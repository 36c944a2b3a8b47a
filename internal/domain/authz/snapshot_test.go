package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	vo "sentra/internal/domain/authz/value_objects"
)

func snapshotWith(roles []string, primary string, codes ...string) *PermissionSnapshot {
	s := EmptySnapshot(42)
	s.RoleSlugs = roles
	s.PrimaryRoleSlug = primary
	for _, code := range codes {
		s.Permissions[code] = true
	}
	return s
}

func TestAllows_AdminBypassesGrantLookup(t *testing.T) {
	s := snapshotWith([]string{RoleSlugAdmin}, RoleSlugAdmin)

	// No grants at all, every module/action still passes.
	for _, m := range vo.AllModules() {
		for _, a := range vo.AllActions() {
			assert.True(t, s.Allows(m, a), "admin must be allowed %s:%s", m, a)
		}
	}
}

func TestAllows_AdminAsSecondaryRoleStillBypasses(t *testing.T) {
	s := snapshotWith([]string{RoleSlugEmployee, RoleSlugAdmin}, RoleSlugEmployee)

	assert.True(t, s.Allows(vo.ModuleReports, vo.ActionDelete))
}

func TestAllows_ViewerCeiling(t *testing.T) {
	// A viewer role mistakenly granted edit must still be denied edit.
	s := snapshotWith([]string{RoleSlugViewer}, RoleSlugViewer,
		"inventory:view", "inventory:edit")

	assert.True(t, s.Allows(vo.ModuleInventory, vo.ActionView))
	assert.False(t, s.Allows(vo.ModuleInventory, vo.ActionEdit))
	assert.False(t, s.Allows(vo.ModuleInventory, vo.ActionDelete))
}

func TestAllows_ViewerNeedsExplicitViewGrant(t *testing.T) {
	s := snapshotWith([]string{RoleSlugViewer}, RoleSlugViewer, "inventory:view")

	assert.True(t, s.CanView(vo.ModuleInventory))
	// The viewer special case is not a blanket view grant.
	assert.False(t, s.CanView(vo.ModuleReports))
}

func TestAllows_ViewerAsSecondaryRoleGetsUnionSemantics(t *testing.T) {
	s := snapshotWith([]string{RoleSlugEmployee, RoleSlugViewer}, RoleSlugEmployee,
		"inventory:edit")

	assert.True(t, s.Allows(vo.ModuleInventory, vo.ActionEdit))
}

func TestAllows_FailClosedWithoutAssignments(t *testing.T) {
	s := EmptySnapshot(7)

	for _, m := range vo.AllModules() {
		for _, a := range vo.AllActions() {
			assert.False(t, s.Allows(m, a))
		}
	}
}

func TestAllows_NilSnapshotDenies(t *testing.T) {
	var s *PermissionSnapshot
	assert.False(t, s.Allows(vo.ModuleInventory, vo.ActionView))
}

func TestAllows_UnionAcrossRoles(t *testing.T) {
	// R1 grants (inventory, view), R2 grants (inventory, edit): both apply.
	s := snapshotWith([]string{"warehouse-clerk", "quality-auditor"}, "warehouse-clerk",
		"inventory:view", "inventory:edit")

	assert.True(t, s.CanView(vo.ModuleInventory))
	assert.True(t, s.CanEdit(vo.ModuleInventory))
	assert.False(t, s.CanDelete(vo.ModuleInventory))
}

func TestAllows_EmployeeScenario(t *testing.T) {
	s := snapshotWith([]string{RoleSlugEmployee}, RoleSlugEmployee,
		"production:view", "production:create")

	assert.True(t, s.Allows(vo.ModuleProduction, vo.ActionView))
	assert.True(t, s.Allows(vo.ModuleProduction, vo.ActionCreate))
	assert.False(t, s.Allows(vo.ModuleProduction, vo.ActionDelete))
	assert.False(t, s.Allows(vo.ModuleReports, vo.ActionView))
}

func TestConveniencePredicatesMatchAllows(t *testing.T) {
	s := snapshotWith([]string{RoleSlugEmployee}, RoleSlugEmployee,
		"reports:view", "reports:export", "contracts:approve")

	assert.Equal(t, s.Allows(vo.ModuleReports, vo.ActionView), s.CanView(vo.ModuleReports))
	assert.Equal(t, s.Allows(vo.ModuleReports, vo.ActionExport), s.CanExport(vo.ModuleReports))
	assert.Equal(t, s.Allows(vo.ModuleContracts, vo.ActionApprove), s.CanApprove(vo.ModuleContracts))
	assert.Equal(t, s.Allows(vo.ModuleContracts, vo.ActionCreate), s.CanCreate(vo.ModuleContracts))
}

func TestCanAccessBranch(t *testing.T) {
	s := snapshotWith([]string{RoleSlugEmployee}, RoleSlugEmployee)
	s.BranchIDs = []uint{3, 5}

	assert.True(t, s.CanAccessBranch(3))
	assert.True(t, s.CanAccessBranch(5))
	assert.False(t, s.CanAccessBranch(4))
	assert.False(t, s.CanAccessBranch(0))
}

func TestCanAccessBranch_NoRestrictionRowsMeansAllBranches(t *testing.T) {
	s := snapshotWith([]string{RoleSlugEmployee}, RoleSlugEmployee)
	s.AllBranches = true

	assert.True(t, s.CanAccessBranch(99))
}

func TestCanAccessBranch_AdminUnrestricted(t *testing.T) {
	s := snapshotWith([]string{RoleSlugAdmin}, RoleSlugAdmin)
	s.BranchIDs = []uint{1}

	assert.True(t, s.CanAccessBranch(2))
}
