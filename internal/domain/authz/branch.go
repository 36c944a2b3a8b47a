package authz

import (
	"fmt"
	"time"
)

// Branch is an operating location. Assignments, branch access rows and the
// active-scope session all reference branches by ID.
type Branch struct {
	id        uint
	name      string
	code      string
	isActive  bool
	createdAt time.Time
	updatedAt time.Time
}

func NewBranch(name, code string) (*Branch, error) {
	if name == "" {
		return nil, fmt.Errorf("branch name is required")
	}
	if code == "" {
		return nil, fmt.Errorf("branch code is required")
	}

	now := time.Now()
	return &Branch{
		name:      name,
		code:      code,
		isActive:  true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func ReconstructBranch(id uint, name, code string, isActive bool, createdAt, updatedAt time.Time) (*Branch, error) {
	if id == 0 {
		return nil, fmt.Errorf("branch ID cannot be zero")
	}

	return &Branch{
		id:        id,
		name:      name,
		code:      code,
		isActive:  isActive,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (b *Branch) ID() uint {
	return b.id
}

func (b *Branch) Name() string {
	return b.name
}

func (b *Branch) Code() string {
	return b.code
}

func (b *Branch) IsActive() bool {
	return b.isActive
}

func (b *Branch) CreatedAt() time.Time {
	return b.createdAt
}

func (b *Branch) UpdatedAt() time.Time {
	return b.updatedAt
}
