package authz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "sentra/internal/domain/authz/value_objects"
)

func testRole(t *testing.T, id uint, slug string, level int) *Role {
	t.Helper()
	role, err := ReconstructRole(id, slug, slug, "", level, IsSystemRoleSlug(slug), time.Now(), time.Now())
	require.NoError(t, err)
	return role
}

func testAssignment(t *testing.T, id, userID, roleID uint, primary, active bool, createdAt time.Time) *Assignment {
	t.Helper()
	a, err := ReconstructAssignment(id, userID, roleID, vo.ScopeGlobal, 0, 0, primary, active, createdAt)
	require.NoError(t, err)
	return a
}

func TestResolve_FiltersInactiveAssignments(t *testing.T) {
	roles := map[uint]*Role{
		1: testRole(t, 1, RoleSlugEmployee, 4),
	}
	now := time.Now()
	assignments := []*Assignment{
		testAssignment(t, 1, 10, 1, true, false, now),
		testAssignment(t, 2, 10, 1, false, true, now.Add(time.Minute)),
	}

	res := Resolve(assignments, roles)

	require.Len(t, res.Active, 1)
	assert.Equal(t, uint(2), res.Active[0].ID())
	assert.Equal(t, uint(2), res.Primary.ID())
}

func TestResolve_NoAssignmentsIsValidState(t *testing.T) {
	res := Resolve(nil, map[uint]*Role{})

	assert.False(t, res.HasAssignments())
	assert.Nil(t, res.Primary)
	assert.Nil(t, res.PrimaryRole)
}

func TestResolve_MultiplePrimariesPicksLowestHierarchyLevel(t *testing.T) {
	roles := map[uint]*Role{
		1: testRole(t, 1, RoleSlugEmployee, 4),
		2: testRole(t, 2, RoleSlugManager, 2),
	}
	now := time.Now()
	assignments := []*Assignment{
		testAssignment(t, 1, 10, 1, true, true, now),
		testAssignment(t, 2, 10, 2, true, true, now.Add(time.Hour)),
	}

	res := Resolve(assignments, roles)

	require.NotNil(t, res.Primary)
	assert.Equal(t, uint(2), res.Primary.ID())
	assert.Equal(t, RoleSlugManager, res.PrimaryRole.Slug())
}

func TestResolve_HierarchyTieBrokenByEarliestCreated(t *testing.T) {
	roles := map[uint]*Role{
		1: testRole(t, 1, "shift-lead", 3),
		2: testRole(t, 2, "team-lead", 3),
	}
	now := time.Now()
	assignments := []*Assignment{
		testAssignment(t, 5, 10, 2, true, true, now.Add(time.Minute)),
		testAssignment(t, 6, 10, 1, true, true, now),
	}

	res := Resolve(assignments, roles)

	assert.Equal(t, uint(6), res.Primary.ID())
}

func TestResolve_FullTieBrokenByLowestID(t *testing.T) {
	roles := map[uint]*Role{
		1: testRole(t, 1, "shift-lead", 3),
	}
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	assignments := []*Assignment{
		testAssignment(t, 8, 10, 1, true, true, created),
		testAssignment(t, 3, 10, 1, true, true, created),
	}

	res := Resolve(assignments, roles)

	assert.Equal(t, uint(3), res.Primary.ID())
}

func TestResolve_ZeroPrimariesStillPicksDeterministically(t *testing.T) {
	roles := map[uint]*Role{
		1: testRole(t, 1, RoleSlugEmployee, 4),
		2: testRole(t, 2, RoleSlugManager, 2),
	}
	now := time.Now()
	assignments := []*Assignment{
		testAssignment(t, 1, 10, 1, false, true, now),
		testAssignment(t, 2, 10, 2, false, true, now.Add(time.Second)),
	}

	res := Resolve(assignments, roles)

	require.NotNil(t, res.Primary)
	assert.Equal(t, RoleSlugManager, res.PrimaryRole.Slug())
}

func TestResolve_SkipsAssignmentsWithUnknownRole(t *testing.T) {
	roles := map[uint]*Role{
		1: testRole(t, 1, RoleSlugEmployee, 4),
	}
	now := time.Now()
	assignments := []*Assignment{
		testAssignment(t, 1, 10, 99, true, true, now),
		testAssignment(t, 2, 10, 1, false, true, now),
	}

	res := Resolve(assignments, roles)

	require.Len(t, res.Active, 1)
	assert.Equal(t, uint(1), res.Active[0].RoleID())
}
