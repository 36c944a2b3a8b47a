package authz

import (
	"fmt"
	"time"

	vo "sentra/internal/domain/authz/value_objects"
)

// Permission is one (module, action) pair from the catalog. The pair is
// unique across the catalog.
type Permission struct {
	id          uint
	module      vo.Module
	action      vo.Action
	displayName string
	isDefault   bool
	createdAt   time.Time
	updatedAt   time.Time
}

func NewPermission(module vo.Module, action vo.Action, displayName string, isDefault bool) (*Permission, error) {
	if module == "" {
		return nil, fmt.Errorf("module is required")
	}
	if action == "" {
		return nil, fmt.Errorf("action is required")
	}

	now := time.Now()
	return &Permission{
		module:      module,
		action:      action,
		displayName: displayName,
		isDefault:   isDefault,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructPermission(id uint, module vo.Module, action vo.Action, displayName string, isDefault bool, createdAt, updatedAt time.Time) (*Permission, error) {
	if id == 0 {
		return nil, fmt.Errorf("permission ID cannot be zero")
	}

	return &Permission{
		id:          id,
		module:      module,
		action:      action,
		displayName: displayName,
		isDefault:   isDefault,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (p *Permission) ID() uint {
	return p.id
}

func (p *Permission) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("permission ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("permission ID cannot be zero")
	}
	p.id = id
	return nil
}

func (p *Permission) Module() vo.Module {
	return p.module
}

func (p *Permission) Action() vo.Action {
	return p.action
}

func (p *Permission) DisplayName() string {
	return p.displayName
}

func (p *Permission) IsDefault() bool {
	return p.isDefault
}

func (p *Permission) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Permission) UpdatedAt() time.Time {
	return p.updatedAt
}

// Code renders the canonical module:action form used in snapshots and logs.
func (p *Permission) Code() string {
	return fmt.Sprintf("%s:%s", p.module, p.action)
}

// PermissionCode builds the canonical module:action code without a catalog row.
func PermissionCode(module vo.Module, action vo.Action) string {
	return fmt.Sprintf("%s:%s", module, action)
}
