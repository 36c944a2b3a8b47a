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

// BranchRepositoryImpl implements the authz.BranchRepository interface
type BranchRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewBranchRepository creates a new branch repository instance
func NewBranchRepository(db *gorm.DB, logger logger.Interface) authz.BranchRepository {
	return &BranchRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *BranchRepositoryImpl) tx(ctx context.Context) *gorm.DB {
	return shareddb.GetTxFromContext(ctx, r.db)
}

func (r *BranchRepositoryImpl) GetByID(ctx context.Context, id uint) (*authz.Branch, error) {
	var model models.BranchModel
	if err := r.tx(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("branch not found")
		}
		return nil, fmt.Errorf("failed to get branch: %w", err)
	}

	return reconstructBranch(&model)
}

func (r *BranchRepositoryImpl) List(ctx context.Context) ([]*authz.Branch, error) {
	var rows []models.BranchModel
	if err := r.tx(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list branches: %w", err)
	}

	branches := make([]*authz.Branch, 0, len(rows))
	for i := range rows {
		branch, err := reconstructBranch(&rows[i])
		if err != nil {
			return nil, err
		}
		branches = append(branches, branch)
	}
	return branches, nil
}

func (r *BranchRepositoryImpl) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.tx(ctx).Model(&models.BranchModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check branch existence: %w", err)
	}
	return count > 0, nil
}

func reconstructBranch(model *models.BranchModel) (*authz.Branch, error) {
	branch, err := authz.ReconstructBranch(
		model.ID,
		model.Name,
		model.Code,
		model.IsActive,
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct branch %d: %w", model.ID, err)
	}
	return branch, nil
}
