package authz

import (
	"context"
	"fmt"

	"sentra/internal/domain/authz"
	"sentra/internal/infrastructure/cache"
	apperrors "sentra/internal/shared/errors"
	"sentra/internal/shared/logger"
)

// RoleService manages the role store and role-permission grants.
type RoleService struct {
	roleRepo       authz.RoleRepository
	permissionRepo authz.PermissionRepository
	assignmentRepo authz.AssignmentRepository
	cache          cache.SnapshotCache
	logger         logger.Interface
}

func NewRoleService(
	roleRepo authz.RoleRepository,
	permissionRepo authz.PermissionRepository,
	assignmentRepo authz.AssignmentRepository,
	snapshotCache cache.SnapshotCache,
	logger logger.Interface,
) *RoleService {
	return &RoleService{
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
		assignmentRepo: assignmentRepo,
		cache:          snapshotCache,
		logger:         logger,
	}
}

type CreateRoleInput struct {
	Name           string
	Slug           string
	Description    string
	HierarchyLevel int
}

// CreateRole adds a custom role. System role slugs are reserved, and new
// roles start with the catalog's default permissions granted.
func (s *RoleService) CreateRole(ctx context.Context, input CreateRoleInput) (*authz.Role, error) {
	if authz.IsSystemRoleSlug(input.Slug) {
		return nil, apperrors.NewValidationError("role slug is reserved for a system role")
	}

	exists, err := s.roleRepo.ExistsBySlug(ctx, input.Slug)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflictError("role slug already exists", input.Slug)
	}

	role, err := authz.NewRole(input.Name, input.Slug, input.Description, input.HierarchyLevel)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}

	defaults, err := s.permissionRepo.ListDefaults(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load default permissions: %w", err)
	}
	for _, p := range defaults {
		if err := s.roleRepo.GrantPermission(ctx, role.ID(), p.ID()); err != nil {
			return nil, fmt.Errorf("failed to grant default permission %s: %w", p.Code(), err)
		}
	}

	s.logger.Infow("role created with default grants",
		"role_id", role.ID(),
		"slug", role.Slug(),
		"defaults", len(defaults),
	)
	return role, nil
}

// DeleteRole removes a custom role. System roles cannot be deleted.
// Assignments referencing the deleted role are skipped at resolution time,
// so holders lose the role's grants once their snapshots are invalidated.
func (s *RoleService) DeleteRole(ctx context.Context, id uint) error {
	role, err := s.roleRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystem() {
		return apperrors.NewConflictError("system roles cannot be deleted", role.Slug())
	}

	holders, err := s.assignmentRepo.UserIDsByRole(ctx, id)
	if err != nil {
		return err
	}

	if err := s.roleRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.cache.InvalidateMany(ctx, holders); err != nil {
		return fmt.Errorf("role deleted but snapshot invalidation failed: %w", err)
	}

	s.logger.Infow("role deleted", "role_id", id, "slug", role.Slug(), "holders", len(holders))
	return nil
}

func (s *RoleService) GetRole(ctx context.Context, id uint) (*authz.Role, error) {
	return s.roleRepo.GetByID(ctx, id)
}

func (s *RoleService) ListRoles(ctx context.Context) ([]*authz.Role, error) {
	return s.roleRepo.List(ctx)
}

func (s *RoleService) ListRolePermissions(ctx context.Context, roleID uint) ([]*authz.Permission, error) {
	if _, err := s.roleRepo.GetByID(ctx, roleID); err != nil {
		return nil, err
	}
	return s.roleRepo.GetPermissions(ctx, roleID)
}

// GrantPermission links a permission to a role. Granting an already-granted
// permission is a no-op; the returned bool reports whether a new grant was
// made. Every holder's snapshot is invalidated on change.
func (s *RoleService) GrantPermission(ctx context.Context, roleID, permissionID uint) (bool, error) {
	if _, err := s.roleRepo.GetByID(ctx, roleID); err != nil {
		return false, err
	}
	if _, err := s.permissionRepo.GetByID(ctx, permissionID); err != nil {
		return false, err
	}

	has, err := s.roleRepo.HasGrant(ctx, roleID, permissionID)
	if err != nil {
		return false, err
	}
	if has {
		return false, nil
	}

	if err := s.roleRepo.GrantPermission(ctx, roleID, permissionID); err != nil {
		return false, err
	}

	if err := s.invalidateRoleHolders(ctx, roleID); err != nil {
		return false, err
	}
	return true, nil
}

// RevokePermission unlinks a permission from a role. Revoking an absent
// grant is a no-op; the returned bool reports whether a grant was removed.
func (s *RoleService) RevokePermission(ctx context.Context, roleID, permissionID uint) (bool, error) {
	if _, err := s.roleRepo.GetByID(ctx, roleID); err != nil {
		return false, err
	}

	removed, err := s.roleRepo.RevokePermission(ctx, roleID, permissionID)
	if err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}

	if err := s.invalidateRoleHolders(ctx, roleID); err != nil {
		return false, err
	}
	return true, nil
}

func (s *RoleService) invalidateRoleHolders(ctx context.Context, roleID uint) error {
	holders, err := s.assignmentRepo.UserIDsByRole(ctx, roleID)
	if err != nil {
		return fmt.Errorf("failed to list role holders for invalidation: %w", err)
	}
	if err := s.cache.InvalidateMany(ctx, holders); err != nil {
		return fmt.Errorf("grant changed but snapshot invalidation failed: %w", err)
	}
	return nil
}
