package authz

import (
	"time"

	vo "sentra/internal/domain/authz/value_objects"
)

// PermissionSnapshot is the resolved effective-permission view for one user:
// the union of every grant from the user's active role assignments, the role
// slugs held, and the branches the user may operate in. It is computed on
// demand, cached with a short TTL, and never persisted.
//
// All decision methods are pure reads over the snapshot. They perform no I/O,
// never return errors, and fail closed: any unknown or missing input denies.
type PermissionSnapshot struct {
	UserID          uint            `json:"user_id"`
	RoleSlugs       []string        `json:"role_slugs"`
	PrimaryRoleSlug string          `json:"primary_role_slug"`
	Permissions     map[string]bool `json:"permissions"`
	BranchIDs       []uint          `json:"branch_ids"`
	// AllBranches is true when the user has no branch restriction rows,
	// which grants access to every branch.
	AllBranches     bool      `json:"all_branches"`
	DefaultBranchID uint      `json:"default_branch_id"`
	ResolvedAt      time.Time `json:"resolved_at"`
}

// EmptySnapshot is the snapshot of a user with no active assignments:
// every permission check denies.
func EmptySnapshot(userID uint) *PermissionSnapshot {
	return &PermissionSnapshot{
		UserID:      userID,
		RoleSlugs:   []string{},
		Permissions: map[string]bool{},
		BranchIDs:   []uint{},
		ResolvedAt:  time.Now(),
	}
}

// HasRole reports whether any active assignment references a role with the
// given slug.
func (s *PermissionSnapshot) HasRole(slug string) bool {
	for _, r := range s.RoleSlugs {
		if r == slug {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user holds the system administrator role
// through any active assignment, primary or not.
func (s *PermissionSnapshot) IsAdmin() bool {
	return s.HasRole(RoleSlugAdmin)
}

// Allows decides whether the user may perform action on module.
//
// Administrators bypass the grant lookup entirely: the check succeeds even
// when no catalog row for (module, action) exists. Users whose primary role
// is the viewer role are capped below their nominal grants: only view
// actions pass, and only when the role union actually grants view on the
// module, so a stray edit grant on a viewer role stays inert. Everyone else
// gets plain union semantics over their active assignments. Absence of a
// matching grant is a denial, never an error.
func (s *PermissionSnapshot) Allows(module vo.Module, action vo.Action) bool {
	if s == nil {
		return false
	}
	if s.IsAdmin() {
		return true
	}
	if s.PrimaryRoleSlug == RoleSlugViewer {
		return action == vo.ActionView && s.Permissions[PermissionCode(module, vo.ActionView)]
	}
	return s.Permissions[PermissionCode(module, action)]
}

func (s *PermissionSnapshot) CanView(module vo.Module) bool {
	return s.Allows(module, vo.ActionView)
}

func (s *PermissionSnapshot) CanCreate(module vo.Module) bool {
	return s.Allows(module, vo.ActionCreate)
}

func (s *PermissionSnapshot) CanEdit(module vo.Module) bool {
	return s.Allows(module, vo.ActionEdit)
}

func (s *PermissionSnapshot) CanDelete(module vo.Module) bool {
	return s.Allows(module, vo.ActionDelete)
}

func (s *PermissionSnapshot) CanApprove(module vo.Module) bool {
	return s.Allows(module, vo.ActionApprove)
}

func (s *PermissionSnapshot) CanExport(module vo.Module) bool {
	return s.Allows(module, vo.ActionExport)
}

// CanAccessBranch reports whether the user may operate in the given branch.
// Administrators and users without restriction rows may access any branch.
func (s *PermissionSnapshot) CanAccessBranch(branchID uint) bool {
	if s == nil || branchID == 0 {
		return false
	}
	if s.IsAdmin() || s.AllBranches {
		return true
	}
	for _, id := range s.BranchIDs {
		if id == branchID {
			return true
		}
	}
	return false
}

// PermissionCodes returns the granted module:action codes in unspecified order.
func (s *PermissionSnapshot) PermissionCodes() []string {
	codes := make([]string, 0, len(s.Permissions))
	for code := range s.Permissions {
		codes = append(codes, code)
	}
	return codes
}
