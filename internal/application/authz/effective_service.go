package authz

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"sentra/internal/domain/authz"
	vo "sentra/internal/domain/authz/value_objects"
	"sentra/internal/infrastructure/cache"
	"sentra/internal/shared/logger"
)

// EffectivePermissionService resolves users' effective permissions into
// cached snapshots and answers permission checks against them.
type EffectivePermissionService struct {
	assignmentRepo   authz.AssignmentRepository
	roleRepo         authz.RoleRepository
	branchAccessRepo authz.BranchAccessRepository
	cache            cache.SnapshotCache
	group            singleflight.Group
	logger           logger.Interface
}

func NewEffectivePermissionService(
	assignmentRepo authz.AssignmentRepository,
	roleRepo authz.RoleRepository,
	branchAccessRepo authz.BranchAccessRepository,
	snapshotCache cache.SnapshotCache,
	logger logger.Interface,
) *EffectivePermissionService {
	return &EffectivePermissionService{
		assignmentRepo:   assignmentRepo,
		roleRepo:         roleRepo,
		branchAccessRepo: branchAccessRepo,
		cache:            snapshotCache,
		logger:           logger,
	}
}

// GetSnapshot returns the user's effective-permission snapshot, serving from
// cache when possible. Concurrent misses for the same user collapse into one
// database resolution via singleflight. Cache failures degrade to a direct
// resolution instead of failing the check.
func (s *EffectivePermissionService) GetSnapshot(ctx context.Context, userID uint) (*authz.PermissionSnapshot, error) {
	cached, err := s.cache.Get(ctx, userID)
	if err != nil {
		s.logger.Warnw("snapshot cache read failed, resolving directly", "user_id", userID, "error", err)
	} else if cached != nil {
		return cached, nil
	}

	result, err, _ := s.group.Do(strconv.FormatUint(uint64(userID), 10), func() (interface{}, error) {
		// Another caller may have populated the cache while we waited.
		if cached, err := s.cache.Get(ctx, userID); err == nil && cached != nil {
			return cached, nil
		}

		snapshot, err := s.resolve(ctx, userID)
		if err != nil {
			return nil, err
		}

		if err := s.cache.Set(ctx, snapshot); err != nil {
			s.logger.Warnw("snapshot cache write failed", "user_id", userID, "error", err)
		}
		return snapshot, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*authz.PermissionSnapshot), nil
}

// Check decides whether the user may perform action on module. Resolution
// errors surface; a resolved snapshot never errors, it just denies.
func (s *EffectivePermissionService) Check(ctx context.Context, userID uint, module vo.Module, action vo.Action) (bool, error) {
	snapshot, err := s.GetSnapshot(ctx, userID)
	if err != nil {
		return false, err
	}
	return snapshot.Allows(module, action), nil
}

// CheckCode is Check over raw module/action strings. Unknown names deny
// rather than error so callers stay fail-closed on bad input.
func (s *EffectivePermissionService) CheckCode(ctx context.Context, userID uint, module, action string) (bool, error) {
	m, err := vo.NewModule(module)
	if err != nil {
		return false, nil
	}
	a, err := vo.NewAction(action)
	if err != nil {
		return false, nil
	}
	return s.Check(ctx, userID, m, a)
}

// Invalidate drops the user's cached snapshot so the next check re-resolves.
func (s *EffectivePermissionService) Invalidate(ctx context.Context, userID uint) error {
	return s.cache.Invalidate(ctx, userID)
}

func (s *EffectivePermissionService) resolve(ctx context.Context, userID uint) (*authz.PermissionSnapshot, error) {
	assignments, err := s.assignmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}

	roleIDs := make([]uint, 0, len(assignments))
	seen := make(map[uint]bool, len(assignments))
	for _, a := range assignments {
		if !seen[a.RoleID()] {
			seen[a.RoleID()] = true
			roleIDs = append(roleIDs, a.RoleID())
		}
	}

	roles, err := s.roleRepo.GetByIDs(ctx, roleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load roles: %w", err)
	}
	roleMap := make(map[uint]*authz.Role, len(roles))
	for _, r := range roles {
		roleMap[r.ID()] = r
	}

	resolution := authz.Resolve(assignments, roleMap)

	snapshot := authz.EmptySnapshot(userID)
	if resolution.HasAssignments() {
		snapshot.PrimaryRoleSlug = resolution.PrimaryRole.Slug()

		slugSeen := make(map[string]bool)
		grantSeen := make(map[uint]bool)
		for _, a := range resolution.Active {
			role := roleMap[a.RoleID()]
			if !slugSeen[role.Slug()] {
				slugSeen[role.Slug()] = true
				snapshot.RoleSlugs = append(snapshot.RoleSlugs, role.Slug())
			}

			if grantSeen[a.RoleID()] {
				continue
			}
			grantSeen[a.RoleID()] = true

			permissions, err := s.roleRepo.GetPermissions(ctx, a.RoleID())
			if err != nil {
				return nil, fmt.Errorf("failed to load grants for role %d: %w", a.RoleID(), err)
			}
			for _, p := range permissions {
				snapshot.Permissions[p.Code()] = true
			}
		}
	}

	accessRows, err := s.branchAccessRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load branch access: %w", err)
	}
	if len(accessRows) == 0 {
		snapshot.AllBranches = true
	} else {
		for _, row := range accessRows {
			snapshot.BranchIDs = append(snapshot.BranchIDs, row.BranchID())
			if row.IsDefault() {
				snapshot.DefaultBranchID = row.BranchID()
			}
		}
	}

	snapshot.ResolvedAt = time.Now()

	s.logger.Debugw("permission snapshot resolved",
		"user_id", userID,
		"roles", len(snapshot.RoleSlugs),
		"permissions", len(snapshot.Permissions),
		"all_branches", snapshot.AllBranches,
	)

	return snapshot, nil
}
