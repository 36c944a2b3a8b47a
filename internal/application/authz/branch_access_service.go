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

// BranchAccessService manages which branches a user may operate in and which
// of them is the default. A user with any access rows must have exactly one
// default; a user with no rows is unrestricted.
type BranchAccessService struct {
	branchAccessRepo authz.BranchAccessRepository
	branchRepo       authz.BranchRepository
	userRepo         authz.UserRepository
	scopeStore       cache.ActiveScopeStore
	txManager        *shareddb.TransactionManager
	cache            cache.SnapshotCache
	logger           logger.Interface
}

func NewBranchAccessService(
	branchAccessRepo authz.BranchAccessRepository,
	branchRepo authz.BranchRepository,
	userRepo authz.UserRepository,
	scopeStore cache.ActiveScopeStore,
	txManager *shareddb.TransactionManager,
	snapshotCache cache.SnapshotCache,
	logger logger.Interface,
) *BranchAccessService {
	return &BranchAccessService{
		branchAccessRepo: branchAccessRepo,
		branchRepo:       branchRepo,
		userRepo:         userRepo,
		scopeStore:       scopeStore,
		txManager:        txManager,
		cache:            snapshotCache,
		logger:           logger,
	}
}

// AddAccess registers a branch for the user. The user's first access row
// becomes the default regardless of the flag; a later row marked default
// demotes the previous default atomically.
func (s *BranchAccessService) AddAccess(ctx context.Context, userID, branchID uint, accessLevel string, isDefault bool) (*authz.BranchAccess, error) {
	level, err := vo.NewAccessLevel(accessLevel)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	exists, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("user not found")
	}

	exists, err = s.branchRepo.Exists(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("branch not found")
	}

	existing, err := s.branchAccessRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		isDefault = true
	}

	access, err := authz.NewBranchAccess(userID, branchID, level, isDefault)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if isDefault {
		err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
			if err := s.branchAccessRepo.ClearDefaultForUser(txCtx, userID); err != nil {
				return err
			}
			return s.branchAccessRepo.Create(txCtx, access)
		})
	} else {
		err = s.branchAccessRepo.Create(ctx, access)
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, userID); err != nil {
		return nil, err
	}
	return access, nil
}

// RemoveAccess drops a user's access to a branch. Removing the default while
// other rows remain requires naming a replacement default from those rows;
// the removal and promotion happen atomically. A removed branch that was the
// user's active session scope is also cleared.
func (s *BranchAccessService) RemoveAccess(ctx context.Context, userID, branchID, replacementBranchID uint) error {
	access, err := s.branchAccessRepo.GetByUserAndBranch(ctx, userID, branchID)
	if err != nil {
		return err
	}

	rows, err := s.branchAccessRepo.ListByUser(ctx, userID)
	if err != nil {
		return err
	}

	remaining := make(map[uint]bool, len(rows))
	for _, row := range rows {
		if row.BranchID() != branchID {
			remaining[row.BranchID()] = true
		}
	}

	if access.IsDefault() && len(remaining) > 0 {
		if replacementBranchID == 0 {
			return apperrors.NewConflictError("removing the default branch requires a replacement default")
		}
		if !remaining[replacementBranchID] {
			return apperrors.NewValidationError("replacement branch is not in the user's access list")
		}

		err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
			if err := s.branchAccessRepo.DeleteByUserAndBranch(txCtx, userID, branchID); err != nil {
				return err
			}
			return s.branchAccessRepo.MarkDefault(txCtx, userID, replacementBranchID)
		})
	} else {
		err = s.branchAccessRepo.DeleteByUserAndBranch(ctx, userID, branchID)
	}
	if err != nil {
		return err
	}

	activeBranch, err := s.scopeStore.GetActiveBranch(ctx, userID)
	if err != nil {
		s.logger.Warnw("failed to read active branch after access removal", "user_id", userID, "error", err)
	} else if activeBranch == branchID {
		if err := s.scopeStore.ClearActiveBranch(ctx, userID); err != nil {
			s.logger.Warnw("failed to clear active branch after access removal", "user_id", userID, "error", err)
		}
	}

	return s.cache.Invalidate(ctx, userID)
}

// SetDefault moves the user's default to another branch they already have
// access to. The demote/promote pair is atomic.
func (s *BranchAccessService) SetDefault(ctx context.Context, userID, branchID uint) error {
	if _, err := s.branchAccessRepo.GetByUserAndBranch(ctx, userID, branchID); err != nil {
		return err
	}

	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.branchAccessRepo.ClearDefaultForUser(txCtx, userID); err != nil {
			return err
		}
		return s.branchAccessRepo.MarkDefault(txCtx, userID, branchID)
	})
	if err != nil {
		return err
	}

	return s.cache.Invalidate(ctx, userID)
}

func (s *BranchAccessService) ListAccess(ctx context.Context, userID uint) ([]*authz.BranchAccess, error) {
	return s.branchAccessRepo.ListByUser(ctx, userID)
}

func (s *BranchAccessService) ListBranches(ctx context.Context) ([]*authz.Branch, error) {
	return s.branchRepo.List(ctx)
}
