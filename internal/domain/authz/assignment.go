package authz

import (
	"fmt"
	"time"

	vo "sentra/internal/domain/authz/value_objects"
)

// Assignment links a user to a role at a scope: global, a branch, or a
// department. A user may hold several assignments at once; at most one
// should be primary, but the resolver tolerates dirty data (see Resolve).
type Assignment struct {
	id           uint
	userID       uint
	roleID       uint
	scopeType    vo.ScopeType
	branchID     uint
	departmentID uint
	isPrimary    bool
	isActive     bool
	createdAt    time.Time
}

func NewAssignment(userID, roleID uint, scopeType vo.ScopeType, branchID, departmentID uint, isPrimary bool) (*Assignment, error) {
	if userID == 0 {
		return nil, fmt.Errorf("user ID is required")
	}
	if roleID == 0 {
		return nil, fmt.Errorf("role ID is required")
	}

	switch scopeType {
	case vo.ScopeGlobal:
		if branchID != 0 || departmentID != 0 {
			return nil, fmt.Errorf("global assignments cannot reference a branch or department")
		}
	case vo.ScopeBranch:
		if branchID == 0 {
			return nil, fmt.Errorf("branch ID is required for branch-scoped assignments")
		}
		if departmentID != 0 {
			return nil, fmt.Errorf("branch-scoped assignments cannot reference a department")
		}
	case vo.ScopeDepartment:
		if departmentID == 0 {
			return nil, fmt.Errorf("department ID is required for department-scoped assignments")
		}
		if branchID != 0 {
			return nil, fmt.Errorf("department-scoped assignments cannot reference a branch")
		}
	default:
		return nil, fmt.Errorf("invalid scope type: %s", scopeType)
	}

	return &Assignment{
		userID:       userID,
		roleID:       roleID,
		scopeType:    scopeType,
		branchID:     branchID,
		departmentID: departmentID,
		isPrimary:    isPrimary,
		isActive:     true,
		createdAt:    time.Now(),
	}, nil
}

func ReconstructAssignment(id, userID, roleID uint, scopeType vo.ScopeType, branchID, departmentID uint, isPrimary, isActive bool, createdAt time.Time) (*Assignment, error) {
	if id == 0 {
		return nil, fmt.Errorf("assignment ID cannot be zero")
	}

	return &Assignment{
		id:           id,
		userID:       userID,
		roleID:       roleID,
		scopeType:    scopeType,
		branchID:     branchID,
		departmentID: departmentID,
		isPrimary:    isPrimary,
		isActive:     isActive,
		createdAt:    createdAt,
	}, nil
}

func (a *Assignment) ID() uint {
	return a.id
}

func (a *Assignment) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("assignment ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("assignment ID cannot be zero")
	}
	a.id = id
	return nil
}

func (a *Assignment) UserID() uint {
	return a.userID
}

func (a *Assignment) RoleID() uint {
	return a.roleID
}

func (a *Assignment) ScopeType() vo.ScopeType {
	return a.scopeType
}

// BranchID returns the branch scope, zero when not branch-scoped.
func (a *Assignment) BranchID() uint {
	return a.branchID
}

// DepartmentID returns the department scope, zero when not department-scoped.
func (a *Assignment) DepartmentID() uint {
	return a.departmentID
}

func (a *Assignment) IsPrimary() bool {
	return a.isPrimary
}

func (a *Assignment) IsActive() bool {
	return a.isActive
}

func (a *Assignment) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Assignment) MarkPrimary() {
	a.isPrimary = true
}

func (a *Assignment) ClearPrimary() {
	a.isPrimary = false
}

func (a *Assignment) Deactivate() {
	a.isActive = false
}
