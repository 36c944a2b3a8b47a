package authz

import (
	"fmt"
	"time"
)

type Department struct {
	id          uint
	name        string
	code        string
	description string
	isActive    bool
	createdAt   time.Time
	updatedAt   time.Time
}

func NewDepartment(name, code, description string) (*Department, error) {
	if name == "" {
		return nil, fmt.Errorf("department name is required")
	}
	if code == "" {
		return nil, fmt.Errorf("department code is required")
	}
	if len(code) > 20 {
		return nil, fmt.Errorf("department code too long (max 20 characters)")
	}

	now := time.Now()
	return &Department{
		name:        name,
		code:        code,
		description: description,
		isActive:    true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

func ReconstructDepartment(id uint, name, code, description string, isActive bool, createdAt, updatedAt time.Time) (*Department, error) {
	if id == 0 {
		return nil, fmt.Errorf("department ID cannot be zero")
	}

	return &Department{
		id:          id,
		name:        name,
		code:        code,
		description: description,
		isActive:    isActive,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}, nil
}

func (d *Department) ID() uint {
	return d.id
}

func (d *Department) SetID(id uint) error {
	if d.id != 0 {
		return fmt.Errorf("department ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("department ID cannot be zero")
	}
	d.id = id
	return nil
}

func (d *Department) Name() string {
	return d.name
}

func (d *Department) Code() string {
	return d.code
}

func (d *Department) Description() string {
	return d.description
}

func (d *Department) IsActive() bool {
	return d.isActive
}

func (d *Department) CreatedAt() time.Time {
	return d.createdAt
}

func (d *Department) UpdatedAt() time.Time {
	return d.updatedAt
}

func (d *Department) Deactivate() {
	if !d.isActive {
		return
	}
	d.isActive = false
	d.updatedAt = time.Now()
}
