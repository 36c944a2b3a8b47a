package authz

import (
	"context"

	vo "sentra/internal/domain/authz/value_objects"
)

type RoleRepository interface {
	Create(ctx context.Context, role *Role) error
	GetByID(ctx context.Context, id uint) (*Role, error)
	GetBySlug(ctx context.Context, slug string) (*Role, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*Role, error)
	List(ctx context.Context) ([]*Role, error)
	Delete(ctx context.Context, id uint) error
	ExistsBySlug(ctx context.Context, slug string) (bool, error)

	// Grant links are idempotence-checked by the service; HasGrant supports that.
	GrantPermission(ctx context.Context, roleID, permissionID uint) error
	RevokePermission(ctx context.Context, roleID, permissionID uint) (bool, error)
	HasGrant(ctx context.Context, roleID, permissionID uint) (bool, error)
	GetPermissions(ctx context.Context, roleID uint) ([]*Permission, error)
}

type PermissionRepository interface {
	Create(ctx context.Context, permission *Permission) error
	GetByID(ctx context.Context, id uint) (*Permission, error)
	GetByCode(ctx context.Context, module vo.Module, action vo.Action) (*Permission, error)
	// List returns the catalog, optionally filtered by module (empty = all).
	List(ctx context.Context, module vo.Module) ([]*Permission, error)
	ListDefaults(ctx context.Context) ([]*Permission, error)
}

type AssignmentRepository interface {
	Create(ctx context.Context, assignment *Assignment) error
	GetByID(ctx context.Context, id uint) (*Assignment, error)
	Delete(ctx context.Context, id uint) error
	// ListByUser returns every assignment for the user, active or not,
	// ordered by creation time then ID so resolution stays deterministic.
	ListByUser(ctx context.Context, userID uint) ([]*Assignment, error)
	ClearPrimaryForUser(ctx context.Context, userID uint) error
	MarkPrimary(ctx context.Context, id uint) error
	ExistsSame(ctx context.Context, assignment *Assignment) (bool, error)
	// UserIDsByRole lists users holding the role through any assignment;
	// grant changes invalidate each of their cached snapshots.
	UserIDsByRole(ctx context.Context, roleID uint) ([]uint, error)
}

type BranchAccessRepository interface {
	Create(ctx context.Context, access *BranchAccess) error
	GetByUserAndBranch(ctx context.Context, userID, branchID uint) (*BranchAccess, error)
	ListByUser(ctx context.Context, userID uint) ([]*BranchAccess, error)
	DeleteByUserAndBranch(ctx context.Context, userID, branchID uint) error
	ClearDefaultForUser(ctx context.Context, userID uint) error
	MarkDefault(ctx context.Context, userID, branchID uint) error
}

type BranchRepository interface {
	GetByID(ctx context.Context, id uint) (*Branch, error)
	List(ctx context.Context) ([]*Branch, error)
	Exists(ctx context.Context, id uint) (bool, error)
}

type DepartmentRepository interface {
	Create(ctx context.Context, department *Department) error
	GetByID(ctx context.Context, id uint) (*Department, error)
	List(ctx context.Context) ([]*Department, error)
	Exists(ctx context.Context, id uint) (bool, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

type UserRepository interface {
	Exists(ctx context.Context, id uint) (bool, error)
}
