package authz

import (
	"context"

	"sentra/internal/domain/authz"
	"sentra/internal/infrastructure/cache"
	apperrors "sentra/internal/shared/errors"
	"sentra/internal/shared/logger"
)

// SessionService tracks which branch each user is currently operating in.
type SessionService struct {
	scopeStore cache.ActiveScopeStore
	branchRepo authz.BranchRepository
	effective  *EffectivePermissionService
	logger     logger.Interface
}

func NewSessionService(
	scopeStore cache.ActiveScopeStore,
	branchRepo authz.BranchRepository,
	effective *EffectivePermissionService,
	logger logger.Interface,
) *SessionService {
	return &SessionService{
		scopeStore: scopeStore,
		branchRepo: branchRepo,
		effective:  effective,
		logger:     logger,
	}
}

// SwitchBranch moves the user's active scope to another branch. The branch
// must exist and the user must have access to it.
func (s *SessionService) SwitchBranch(ctx context.Context, userID, branchID uint) error {
	exists, err := s.branchRepo.Exists(ctx, branchID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewNotFoundError("branch not found")
	}

	snapshot, err := s.effective.GetSnapshot(ctx, userID)
	if err != nil {
		return err
	}
	if !snapshot.CanAccessBranch(branchID) {
		return apperrors.NewForbiddenError("no access to this branch")
	}

	if err := s.scopeStore.SetActiveBranch(ctx, userID, branchID); err != nil {
		return err
	}

	s.logger.Infow("active branch switched", "user_id", userID, "branch_id", branchID)
	return nil
}

// ActiveBranch returns the user's current branch scope. A stale selection
// pointing at a branch the user can no longer access is cleared and the
// default branch, if any, takes its place. Zero means no branch selected.
func (s *SessionService) ActiveBranch(ctx context.Context, userID uint) (uint, error) {
	snapshot, err := s.effective.GetSnapshot(ctx, userID)
	if err != nil {
		return 0, err
	}

	branchID, err := s.scopeStore.GetActiveBranch(ctx, userID)
	if err != nil {
		return 0, err
	}
	if branchID != 0 {
		if snapshot.CanAccessBranch(branchID) {
			return branchID, nil
		}
		if err := s.scopeStore.ClearActiveBranch(ctx, userID); err != nil {
			s.logger.Warnw("failed to clear stale active branch", "user_id", userID, "error", err)
		}
	}

	return snapshot.DefaultBranchID, nil
}

// ClearActiveBranch drops the user's branch selection.
func (s *SessionService) ClearActiveBranch(ctx context.Context, userID uint) error {
	return s.scopeStore.ClearActiveBranch(ctx, userID)
}
