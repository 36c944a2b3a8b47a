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

// PermissionRepositoryImpl implements the authz.PermissionRepository interface
type PermissionRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewPermissionRepository creates a new permission repository instance
func NewPermissionRepository(db *gorm.DB, logger logger.Interface) authz.PermissionRepository {
	return &PermissionRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *PermissionRepositoryImpl) tx(ctx context.Context) *gorm.DB {
	return shareddb.GetTxFromContext(ctx, r.db)
}

func (r *PermissionRepositoryImpl) Create(ctx context.Context, permission *authz.Permission) error {
	model := &models.PermissionModel{
		Module:      permission.Module().String(),
		Action:      permission.Action().String(),
		DisplayName: permission.DisplayName(),
		IsDefault:   permission.IsDefault(),
		CreatedAt:   permission.CreatedAt(),
		UpdatedAt:   permission.UpdatedAt(),
	}

	if err := r.tx(ctx).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("permission already exists", permission.Code())
		}
		r.logger.Errorw("failed to create permission", "code", permission.Code(), "error", err)
		return fmt.Errorf("failed to create permission: %w", err)
	}

	if err := permission.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set permission ID: %w", err)
	}

	r.logger.Infow("permission created", "id", model.ID, "code", permission.Code())
	return nil
}

func (r *PermissionRepositoryImpl) GetByID(ctx context.Context, id uint) (*authz.Permission, error) {
	var model models.PermissionModel
	if err := r.tx(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("permission not found")
		}
		return nil, fmt.Errorf("failed to get permission: %w", err)
	}

	return reconstructPermission(&model)
}

func (r *PermissionRepositoryImpl) GetByCode(ctx context.Context, module vo.Module, action vo.Action) (*authz.Permission, error) {
	var model models.PermissionModel
	err := r.tx(ctx).
		Where("module = ? AND action = ?", module.String(), action.String()).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("permission not found", authz.PermissionCode(module, action))
		}
		return nil, fmt.Errorf("failed to get permission by code: %w", err)
	}

	return reconstructPermission(&model)
}

// List returns the catalog ordered by module then action. An empty module
// filter returns everything.
func (r *PermissionRepositoryImpl) List(ctx context.Context, module vo.Module) ([]*authz.Permission, error) {
	query := r.tx(ctx).Model(&models.PermissionModel{})
	if module != "" {
		query = query.Where("module = ?", module.String())
	}

	var rows []models.PermissionModel
	if err := query.Order("module ASC, action ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
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

func (r *PermissionRepositoryImpl) ListDefaults(ctx context.Context) ([]*authz.Permission, error) {
	var rows []models.PermissionModel
	err := r.tx(ctx).
		Where("is_default = ?", true).
		Order("module ASC, action ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list default permissions: %w", err)
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
