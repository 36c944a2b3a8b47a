package authz

import (
	"context"

	"sentra/internal/domain/authz"
	vo "sentra/internal/domain/authz/value_objects"
	apperrors "sentra/internal/shared/errors"
	"sentra/internal/shared/logger"
)

// PermissionService exposes the read-only permission catalog. The catalog is
// seeded at initialization; runtime mutation is limited to role grants.
type PermissionService struct {
	permissionRepo authz.PermissionRepository
	logger         logger.Interface
}

func NewPermissionService(permissionRepo authz.PermissionRepository, logger logger.Interface) *PermissionService {
	return &PermissionService{
		permissionRepo: permissionRepo,
		logger:         logger,
	}
}

// ListCatalog returns the catalog, optionally filtered to one module.
func (s *PermissionService) ListCatalog(ctx context.Context, module string) ([]*authz.Permission, error) {
	var m vo.Module
	if module != "" {
		var err error
		m, err = vo.NewModule(module)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
	}
	return s.permissionRepo.List(ctx, m)
}
