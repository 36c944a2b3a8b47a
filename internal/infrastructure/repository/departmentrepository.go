package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"sentra/internal/domain/authz"
	"sentra/internal/infrastructure/persistence/models"
	shareddb "sentra/internal/shared/db"
	apperrors "sentra/internal/shared/errors"
	"sentra/internal/shared/logger"
)

// DepartmentRepositoryImpl implements the authz.DepartmentRepository interface
type DepartmentRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewDepartmentRepository creates a new department repository instance
func NewDepartmentRepository(db *gorm.DB, logger logger.Interface) authz.DepartmentRepository {
	return &DepartmentRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *DepartmentRepositoryImpl) tx(ctx context.Context) *gorm.DB {
	return shareddb.GetTxFromContext(ctx, r.db)
}

func (r *DepartmentRepositoryImpl) Create(ctx context.Context, department *authz.Department) error {
	model := &models.DepartmentModel{
		Name:        department.Name(),
		Code:        department.Code(),
		Description: department.Description(),
		IsActive:    department.IsActive(),
		CreatedAt:   department.CreatedAt(),
		UpdatedAt:   department.UpdatedAt(),
	}

	if err := r.tx(ctx).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("department code already exists", department.Code())
		}
		r.logger.Errorw("failed to create department", "code", department.Code(), "error", err)
		return fmt.Errorf("failed to create department: %w", err)
	}

	if err := department.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set department ID: %w", err)
	}

	r.logger.Infow("department created", "id", model.ID, "code", model.Code)
	return nil
}

func (r *DepartmentRepositoryImpl) GetByID(ctx context.Context, id uint) (*authz.Department, error) {
	var model models.DepartmentModel
	if err := r.tx(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("department not found")
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}

	return reconstructDepartment(&model)
}

func (r *DepartmentRepositoryImpl) List(ctx context.Context) ([]*authz.Department, error) {
	var rows []models.DepartmentModel
	if err := r.tx(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	departments := make([]*authz.Department, 0, len(rows))
	for i := range rows {
		department, err := reconstructDepartment(&rows[i])
		if err != nil {
			return nil, err
		}
		departments = append(departments, department)
	}
	return departments, nil
}

func (r *DepartmentRepositoryImpl) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.tx(ctx).Model(&models.DepartmentModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check department existence: %w", err)
	}
	return count > 0, nil
}

func (r *DepartmentRepositoryImpl) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.tx(ctx).Model(&models.DepartmentModel{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check department code: %w", err)
	}
	return count > 0, nil
}

func reconstructDepartment(model *models.DepartmentModel) (*authz.Department, error) {
	department, err := authz.ReconstructDepartment(
		model.ID,
		model.Name,
		model.Code,
		model.Description,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct department %d: %w", model.ID, err)
	}
	return department, nil
}
