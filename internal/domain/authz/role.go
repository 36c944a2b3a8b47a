package authz

import (
	"fmt"
	"regexp"
	"time"
)

// Slugs of the system-default roles seeded at initialization. System roles
// cannot be created or deleted through the management API.
const (
	RoleSlugAdmin    = "admin"
	RoleSlugManager  = "manager"
	RoleSlugEmployee = "employee"
	RoleSlugViewer   = "viewer"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// IsSystemRoleSlug reports whether slug belongs to a seeded system role.
func IsSystemRoleSlug(slug string) bool {
	switch slug {
	case RoleSlugAdmin, RoleSlugManager, RoleSlugEmployee, RoleSlugViewer:
		return true
	}
	return false
}

// Role is a named set of permission grants. Hierarchy level 0 is the most
// privileged; higher numbers are less privileged.
type Role struct {
	id             uint
	name           string
	slug           string
	description    string
	hierarchyLevel int
	isSystem       bool
	createdAt      time.Time
	updatedAt      time.Time
}

func NewRole(name, slug, description string, hierarchyLevel int) (*Role, error) {
	if name == "" {
		return nil, fmt.Errorf("role name is required")
	}
	if len(name) > 50 {
		return nil, fmt.Errorf("role name too long (max 50 characters)")
	}
	if slug == "" {
		return nil, fmt.Errorf("role slug is required")
	}
	if len(slug) > 50 {
		return nil, fmt.Errorf("role slug too long (max 50 characters)")
	}
	if !slugPattern.MatchString(slug) {
		return nil, fmt.Errorf("role slug must contain only lowercase letters, digits and hyphens")
	}
	if hierarchyLevel < 0 {
		return nil, fmt.Errorf("hierarchy level cannot be negative")
	}

	now := time.Now()
	return &Role{
		name:           name,
		slug:           slug,
		description:    description,
		hierarchyLevel: hierarchyLevel,
		isSystem:       false,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructRole(id uint, name, slug, description string, hierarchyLevel int, isSystem bool, createdAt, updatedAt time.Time) (*Role, error) {
	if id == 0 {
		return nil, fmt.Errorf("role ID cannot be zero")
	}

	return &Role{
		id:             id,
		name:           name,
		slug:           slug,
		description:    description,
		hierarchyLevel: hierarchyLevel,
		isSystem:       isSystem,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}, nil
}

func (r *Role) ID() uint {
	return r.id
}

func (r *Role) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("role ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("role ID cannot be zero")
	}
	r.id = id
	return nil
}

func (r *Role) Name() string {
	return r.name
}

func (r *Role) Slug() string {
	return r.slug
}

func (r *Role) Description() string {
	return r.description
}

func (r *Role) HierarchyLevel() int {
	return r.hierarchyLevel
}

func (r *Role) IsSystem() bool {
	return r.isSystem
}

func (r *Role) CreatedAt() time.Time {
	return r.createdAt
}

func (r *Role) UpdatedAt() time.Time {
	return r.updatedAt
}

func (r *Role) UpdateName(name string) error {
	if name == "" {
		return fmt.Errorf("role name cannot be empty")
	}
	if len(name) > 50 {
		return fmt.Errorf("role name too long (max 50 characters)")
	}
	r.name = name
	r.updatedAt = time.Now()
	return nil
}

func (r *Role) UpdateDescription(description string) {
	r.description = description
	r.updatedAt = time.Now()
}
