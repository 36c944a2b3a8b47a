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

// AssignmentRepositoryImpl implements the authz.AssignmentRepository interface
type AssignmentRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewAssignmentRepository creates a new assignment repository instance
func NewAssignmentRepository(db *gorm.DB, logger logger.Interface) authz.AssignmentRepository {
	return &AssignmentRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *AssignmentRepositoryImpl) tx(ctx context.Context) *gorm.DB {
	return shareddb.GetTxFromContext(ctx, r.db)
}

func (r *AssignmentRepositoryImpl) Create(ctx context.Context, assignment *authz.Assignment) error {
	model := &models.UserRoleAssignmentModel{
		UserID:       assignment.UserID(),
		RoleID:       assignment.RoleID(),
		ScopeType:    assignment.ScopeType().String(),
		BranchID:     assignment.BranchID(),
		DepartmentID: assignment.DepartmentID(),
		IsPrimary:    assignment.IsPrimary(),
		IsActive:     assignment.IsActive(),
		CreatedAt:    assignment.CreatedAt(),
	}

	if err := r.tx(ctx).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create assignment",
			"user_id", assignment.UserID(),
			"role_id", assignment.RoleID(),
			"error", err,
		)
		return fmt.Errorf("failed to create assignment: %w", err)
	}

	if err := assignment.SetID(model.ID); err != nil {
		return fmt.Errorf("failed to set assignment ID: %w", err)
	}

	r.logger.Infow("assignment created",
		"id", model.ID,
		"user_id", model.UserID,
		"role_id", model.RoleID,
		"scope_type", model.ScopeType,
	)
	return nil
}

func (r *AssignmentRepositoryImpl) GetByID(ctx context.Context, id uint) (*authz.Assignment, error) {
	var model models.UserRoleAssignmentModel
	if err := r.tx(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("assignment not found")
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}

	return reconstructAssignment(&model)
}

func (r *AssignmentRepositoryImpl) Delete(ctx context.Context, id uint) error {
	result := r.tx(ctx).Delete(&models.UserRoleAssignmentModel{}, id)
	if result.Error != nil {
		r.logger.Errorw("failed to delete assignment", "id", id, "error", result.Error)
		return fmt.Errorf("failed to delete assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("assignment not found")
	}

	r.logger.Infow("assignment deleted", "id", id)
	return nil
}

// ListByUser returns every assignment row for the user in creation order.
// The resolver filters inactive rows itself, so no is_active filter here.
func (r *AssignmentRepositoryImpl) ListByUser(ctx context.Context, userID uint) ([]*authz.Assignment, error) {
	var rows []models.UserRoleAssignmentModel
	err := r.tx(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}

	assignments := make([]*authz.Assignment, 0, len(rows))
	for i := range rows {
		assignment, err := reconstructAssignment(&rows[i])
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, assignment)
	}
	return assignments, nil
}

func (r *AssignmentRepositoryImpl) ClearPrimaryForUser(ctx context.Context, userID uint) error {
	err := r.tx(ctx).Model(&models.UserRoleAssignmentModel{}).
		Where("user_id = ? AND is_primary = ?", userID, true).
		Update("is_primary", false).Error
	if err != nil {
		r.logger.Errorw("failed to clear primary assignments", "user_id", userID, "error", err)
		return fmt.Errorf("failed to clear primary assignments: %w", err)
	}
	return nil
}

func (r *AssignmentRepositoryImpl) MarkPrimary(ctx context.Context, id uint) error {
	result := r.tx(ctx).Model(&models.UserRoleAssignmentModel{}).
		Where("id = ?", id).
		Update("is_primary", true)
	if result.Error != nil {
		r.logger.Errorw("failed to mark primary assignment", "id", id, "error", result.Error)
		return fmt.Errorf("failed to mark primary assignment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("assignment not found")
	}
	return nil
}

// ExistsSame reports whether an identical (user, role, scope) assignment
// already exists, primary flag and active state aside.
func (r *AssignmentRepositoryImpl) ExistsSame(ctx context.Context, assignment *authz.Assignment) (bool, error) {
	var count int64
	err := r.tx(ctx).Model(&models.UserRoleAssignmentModel{}).
		Where("user_id = ? AND role_id = ? AND scope_type = ? AND branch_id = ? AND department_id = ?",
			assignment.UserID(),
			assignment.RoleID(),
			assignment.ScopeType().String(),
			assignment.BranchID(),
			assignment.DepartmentID(),
		).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check assignment existence: %w", err)
	}
	return count > 0, nil
}

func (r *AssignmentRepositoryImpl) UserIDsByRole(ctx context.Context, roleID uint) ([]uint, error) {
	var userIDs []uint
	err := r.tx(ctx).Model(&models.UserRoleAssignmentModel{}).
		Where("role_id = ?", roleID).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return userIDs, nil
}

func reconstructAssignment(model *models.UserRoleAssignmentModel) (*authz.Assignment, error) {
	scopeType, err := vo.NewScopeType(model.ScopeType)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct assignment %d: %w", model.ID, err)
	}

	assignment, err := authz.ReconstructAssignment(
		model.ID,
		model.UserID,
		model.RoleID,
		scopeType,
		model.BranchID,
		model.DepartmentID,
		model.IsPrimary,
		model.IsActive,
		model.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct assignment %d: %w", model.ID, err)
	}
	return assignment, nil
}
