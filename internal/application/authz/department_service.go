package authz

import (
	"context"

	"sentra/internal/domain/authz"
	apperrors "sentra/internal/shared/errors"
	"sentra/internal/shared/logger"
)

// DepartmentService manages the departments referenced by department-scoped
// assignments.
type DepartmentService struct {
	departmentRepo authz.DepartmentRepository
	logger         logger.Interface
}

func NewDepartmentService(departmentRepo authz.DepartmentRepository, logger logger.Interface) *DepartmentService {
	return &DepartmentService{
		departmentRepo: departmentRepo,
		logger:         logger,
	}
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, name, code, description string) (*authz.Department, error) {
	exists, err := s.departmentRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflictError("department code already exists", code)
	}

	department, err := authz.NewDepartment(name, code, description)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if err := s.departmentRepo.Create(ctx, department); err != nil {
		return nil, err
	}
	return department, nil
}

func (s *DepartmentService) GetDepartment(ctx context.Context, id uint) (*authz.Department, error) {
	return s.departmentRepo.GetByID(ctx, id)
}

func (s *DepartmentService) ListDepartments(ctx context.Context) ([]*authz.Department, error) {
	return s.departmentRepo.List(ctx)
}
