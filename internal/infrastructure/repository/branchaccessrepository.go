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

// BranchAccessRepositoryImpl implements the authz.BranchAccessRepository interface
type BranchAccessRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewBranchAccessRepository creates a new branch access repository instance
func NewBranchAccessRepository(db *gorm.DB, logger logger.Interface) authz.BranchAccessRepository {
	return &BranchAccessRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *BranchAccessRepositoryImpl) tx(ctx context.Context) *gorm.DB {
	return shareddb.GetTxFromContext(ctx, r.db)
}

func (r *BranchAccessRepositoryImpl) Create(ctx context.Context, access *authz.BranchAccess) error {
	model := &models.UserBranchAccessModel{
		UserID:      access.UserID(),
		BranchID:    access.BranchID(),
		AccessLevel: access.AccessLevel().String(),
		IsDefault:   access.IsDefault(),
		CreatedAt:   access.CreatedAt(),
	}

	if err := r.tx(ctx).Create(model).Error; err != nil {
		if apperrors.IsDuplicateError(err) {
			return apperrors.NewConflictError("branch access already exists")
		}
		r.logger.Errorw("failed to create branch access",
			"user_id", access.UserID(),
			"branch_id", access.BranchID(),
			"error", err,
		)
		return fmt.Errorf("failed to create branch access: %w", err)
	}

	if err := access.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set branch access ID: %w", err)
	}

	r.logger.Infow("branch access created",
		"id", model.ID,
		"user_id", model.UserID,
		"branch_id", model.BranchID,
		"is_default", model.IsDefault,
	)
	return nil
}

func (r *BranchAccessRepositoryImpl) GetByUserAndBranch(ctx context.Context, userID, branchID uint) (*authz.BranchAccess, error) {
	var model models.UserBranchAccessModel
	err := r.tx(ctx).
		Where("user_id = ? AND branch_id = ?", userID, branchID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("branch access not found")
		}
		return nil, fmt.Errorf("failed to get branch access: %w", err)
	}

	return reconstructBranchAccess(&model)
}

func (r *BranchAccessRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*authz.BranchAccess, error) {
	var rows []models.UserBranchAccessModel
	err := r.tx(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list branch access: %w", err)
	}

	accesses := make([]*authz.BranchAccess, 0, len(rows))
	for i := range rows {
		access, err := reconstructBranchAccess(&rows[i])
		if err != nil {
			return nil, err
		}
		accesses = append(accesses, access)
	}
	return accesses, nil
}

func (r *BranchAccessRepositoryImpl) DeleteByUserAndBranch(ctx context.Context, userID, branchID uint) error {
	result := r.tx(ctx).
		Where("user_id = ? AND branch_id = ?", userID, branchID).
		Delete(&models.UserBranchAccessModel{})
	if result.Error != nil {
		r.logger.Errorw("failed to delete branch access",
			"user_id", userID,
			"branch_id", branchID,
			"error", result.Error,
		)
		return fmt.Errorf("failed to delete branch access: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("branch access not found")
	}

	r.logger.Infow("branch access deleted", "user_id", userID, "branch_id", branchID)
	return nil
}

func (r *BranchAccessRepositoryImpl) ClearDefaultForUser(ctx context.Context, userID uint) error {
	err := r.tx(ctx).Model(&models.UserBranchAccessModel{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
	if err != nil {
		r.logger.Errorw("failed to clear default branch access", "user_id", userID, "error", err)
		return fmt.Errorf("failed to clear default branch access: %w", err)
	}
	return nil
}

func (r *BranchAccessRepositoryImpl) MarkDefault(ctx context.Context, userID, branchID uint) error {
	result := r.tx(ctx).Model(&models.UserBranchAccessModel{}).
		Where("user_id = ? AND branch_id = ?", userID, branchID).
		Update("is_default", true)
	if result.Error != nil {
		r.logger.Errorw("failed to mark default branch access",
			"user_id", userID,
			"branch_id", branchID,
			"error", result.Error,
		)
		return fmt.Errorf("failed to mark default branch access: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("branch access not found")
	}
	return nil
}

func reconstructBranchAccess(model *models.UserBranchAccessModel) (*authz.BranchAccess, error) {
	accessLevel, err := vo.NewAccessLevel(model.AccessLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct branch access %d: %w", model.ID, err)
	}

	access, err := authz.ReconstructBranchAccess(
		model.ID,
		model.UserID,
		model.BranchID,
		accessLevel,
		model.IsDefault,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct branch access %d: %w", model.ID, err)
	}
	return access, nil
}
