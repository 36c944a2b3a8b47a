package authz

import (
	"context"

	"sentra/internal/domain/authz"
	vo "sentra/internal/domain/authz/value_objects"
	"sentra/internal/infrastructure/cache"
	shareddb "sentra/internal/shared/db"
	apperrors "sentra/internal/shared/errors"
	"sentra/internal/shared/logger"
)

// AssignmentService manages scoped user-role assignments.
type AssignmentService struct {
	assignmentRepo authz.AssignmentRepository
	roleRepo       authz.RoleRepository
	userRepo       authz.UserRepository
	branchRepo     authz.BranchRepository
	departmentRepo authz.DepartmentRepository
	txManager      *shareddb.TransactionManager
	cache          cache.SnapshotCache
	logger         logger.Interface
}

func NewAssignmentService(
	assignmentRepo authz.AssignmentRepository,
	roleRepo authz.RoleRepository,
	userRepo authz.UserRepository,
	branchRepo authz.BranchRepository,
	departmentRepo authz.DepartmentRepository,
	txManager *shareddb.TransactionManager,
	snapshotCache cache.SnapshotCache,
	logger logger.Interface,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		roleRepo:       roleRepo,
		userRepo:       userRepo,
		branchRepo:     branchRepo,
		departmentRepo: departmentRepo,
		txManager:      txManager,
		cache:          snapshotCache,
		logger:         logger,
	}
}

type AssignInput struct {
	UserID       uint
	RoleID       uint
	ScopeType    string
	BranchID     uint
	DepartmentID uint
	IsPrimary    bool
}

// Assign gives a user a role at a scope. Scope referents must exist, and an
// identical assignment is a conflict. Marking the new assignment primary
// demotes any existing primary in the same transaction.
func (s *AssignmentService) Assign(ctx context.Context, input AssignInput) (*authz.Assignment, error) {
	scopeType, err := vo.NewScopeType(input.ScopeType)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	exists, err := s.userRepo.Exists(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("user not found")
	}

	if _, err := s.roleRepo.GetByID(ctx, input.RoleID); err != nil {
		return nil, err
	}

	switch scopeType {
	case vo.ScopeBranch:
		exists, err := s.branchRepo.Exists(ctx, input.BranchID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.NewNotFoundError("branch not found")
		}
	case vo.ScopeDepartment:
		exists, err := s.departmentRepo.Exists(ctx, input.DepartmentID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.NewNotFoundError("department not found")
		}
	}

	assignment, err := authz.NewAssignment(
		input.UserID,
		input.RoleID,
		scopeType,
		input.BranchID,
		input.DepartmentID,
		input.IsPrimary,
	)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	same, err := s.assignmentRepo.ExistsSame(ctx, assignment)
	if err != nil {
		return nil, err
	}
	if same {
		return nil, apperrors.NewConflictError("user already holds this role at this scope")
	}

	if input.IsPrimary {
		err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
			if err := s.assignmentRepo.ClearPrimaryForUser(txCtx, input.UserID); err != nil {
				return err
			}
			return s.assignmentRepo.Create(txCtx, assignment)
		})
	} else {
		err = s.assignmentRepo.Create(ctx, assignment)
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, input.UserID); err != nil {
		return nil, err
	}
	return assignment, nil
}

// Revoke deletes an assignment and invalidates the holder's snapshot.
func (s *AssignmentService) Revoke(ctx context.Context, id uint) error {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.assignmentRepo.Delete(ctx, id); err != nil {
		return err
	}

	return s.cache.Invalidate(ctx, assignment.UserID())
}

// SetPrimary promotes one assignment to primary, demoting any other primary
// the user holds. The swap is atomic.
func (s *AssignmentService) SetPrimary(ctx context.Context, id uint) error {
	assignment, err := s.assignmentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !assignment.IsActive() {
		return apperrors.NewConflictError("inactive assignments cannot be primary")
	}

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.assignmentRepo.ClearPrimaryForUser(txCtx, assignment.UserID()); err != nil {
			return err
		}
		return s.assignmentRepo.MarkPrimary(txCtx, id)
	})
	if err != nil {
		return err
	}

	return s.cache.Invalidate(ctx, assignment.UserID())
}

func (s *AssignmentService) ListForUser(ctx context.Context, userID uint) ([]*authz.Assignment, error) {
	return s.assignmentRepo.ListByUser(ctx, userID)
}
