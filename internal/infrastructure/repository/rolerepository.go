package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sentra/internal/domain/authz"
	vo "sentra/internal/domain/authz/value_objects"
	"sentra/internal/infrastructure/persistence/models"
	shareddb "sentra/internal/shared/db"
	apperrors "sentra/internal/shared/errors"
	"sentra/internal/shared/logger"
)

// RoleRepositoryImpl implements the authz.RoleRepository interface
type RoleRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewRoleRepository creates a new role repository instance
func NewRoleRepository(db *gorm.DB, logger logger.Interface) authz.RoleRepository {
	return &RoleRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *RoleRepositoryImpl) tx(ctx context.Context) *gorm.DB {
	return shareddb.GetTxFromContext(ctx, r.db)
}

func (r *RoleRepositoryImpl) Create(ctx context.Context, role *authz.Role) error {
	model := &models.RoleModel{
		Name:           role.Name(),
		Slug:           role.Slug(),
		Description:    role.Description(),
		HierarchyLevel: role.HierarchyLevel(),
		IsSystem:       role.IsSystem(),
		CreatedAt:      role.CreatedAt(),
		UpdatedAt:      role.UpdatedAt(),
	}

	if err := r.tx(ctx).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("role slug already exists", role.Slug())
		}
		r.logger.Errorw("failed to create role", "slug", role.Slug(), "error", err)
		return fmt.Errorf("failed to create role: %w", err)
	}

	if err := role.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set role ID: %w", err)
	}

	r.logger.Infow("role created", "id", model.ID, "slug", model.Slug)
	return nil
}

func (r *RoleRepositoryImpl) GetByID(ctx context.Context, id uint) (*authz.Role, error) {
	var model models.RoleModel
	if err := r.tx(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("role not found")
		}
		return nil, fmt.Errorf("failed to get role: %w", err)
	}

	return reconstructRole(&model)
}

func (r *RoleRepositoryImpl) GetBySlug(ctx context.Context, slug string) (*authz.Role, error) {
	var model models.RoleModel
	if err := r.tx(ctx).Where("slug = ?", slug).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("role not found", slug)
		}
		return nil, fmt.Errorf("failed to get role by slug: %w", err)
	}

	return reconstructRole(&model)
}

func (r *RoleRepositoryImpl) GetByIDs(ctx context.Context, ids []uint) ([]*authz.Role, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []models.RoleModel
	if err := r.tx(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get roles: %w", err)
	}

	roles := make([]*authz.Role, 0, len(rows))
	for i := range rows {
		role, err := reconstructRole(&rows[i])
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func (r *RoleRepositoryImpl) List(ctx context.Context) ([]*authz.Role, error) {
	var rows []models.RoleModel
	if err := r.tx(ctx).Order("hierarchy_level ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	roles := make([]*authz.Role, 0, len(rows))
	for i := range rows {
		role, err := reconstructRole(&rows[i])
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}

func (r *RoleRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.tx(ctx).Delete(&models.RoleModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete role", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete role: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("role not found")
	}

	r.logger.Infow("role deleted", "id", id)
	return nil
}

func (r *RoleRepositoryImpl) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.tx(ctx).Model(&models.RoleModel{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check role slug: %w", err)
	}
	return count > 0, nil
}

func (r *RoleRepositoryImpl) GrantPermission(ctx context.Context, roleID, permissionID uint) error {
	link := &models.RolePermissionModel{
		RoleID:       roleID,
		PermissionID: permissionID,
	}

	if err := r.tx(ctx).Create(link).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			// Grant already present; idempotence is handled by the service.
			return nil
		}
		r.logger.Errorw("failed to grant permission", "role_id", roleID, "permission_id", permissionID, "error", err)
		return fmt.Errorf("failed to grant permission: %w", err)
	}

	r.logger.Infow("permission granted", "role_id", roleID, "permission_id", permissionID)
	return nil
}

// RevokePermission removes a grant and reports whether a row existed.
func (r *RoleRepositoryImpl) RevokePermission(ctx context.Context, roleID, permissionID uint) (bool, error) {
	result := r.tx(ctx).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Delete(&models.RolePermissionModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to revoke permission", "role_id", roleID, "permission_id", permissionID, "error", result.Error)
		return false, fmt.Errorf("failed to revoke permission: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		r.logger.Infow("permission revoked", "role_id", roleID, "permission_id", permissionID)
	}
	return result.RowsAffected > 0, nil
}

func (r *RoleRepositoryImpl) HasGrant(ctx context.Context, roleID, permissionID uint) (bool, error) {
	var count int64
	err := r.tx(ctx).Model(&models.RolePermissionModel{}).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check grant: %w", err)
	}
	return count > 0, nil
}

func (r *RoleRepositoryImpl) GetPermissions(ctx context.Context, roleID uint) ([]*authz.Permission, error) {
	var rows []models.PermissionModel
	err := r.tx(ctx).
		Joins("JOIN role_permissions ON role_permissions.permission_id = permissions.id").
		Where("role_permissions.role_id = ?", roleID).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get role permissions: %w", err)
	}

	permissions := make([]*authz.Permission, 0, len(rows))
	for i := range rows {
		perm, err := reconstructPermission(&rows[i])
		if err != nil {
			return nil, err
		}
		permissions = append(permissions, perm)
	}
	return permissions, nil
}

func reconstructRole(model *models.RoleModel) (*authz.Role, error) {
	role, err := authz.ReconstructRole(
		model.ID,
		model.Name,
		model.Slug,
		model.Description,
		model.HierarchyLevel,
		model.IsSystem,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct role %d: %w", model.ID, err)
	}
	return role, nil
}

func reconstructPermission(model *models.PermissionModel) (*authz.Permission, error) {
	module, err := vo.NewModule(model.Module)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct permission %d: %w", model.ID, err)
	}
	action, err := vo.NewAction(model.Action)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct permission %d: %w", model.ID, err)
	}

	perm, err := authz.ReconstructPermission(
		model.ID,
		module,
		action,
		model.DisplayName,
		model.IsDefault,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct permission %d: %w", model.ID, err)
	}
	return perm, nil
}
