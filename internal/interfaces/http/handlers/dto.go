package handlers

import (
	"time"

	"sentra/internal/domain/authz"
)

// Response shapes shared across handlers. Domain entities keep their fields
// private, so the boundary maps them explicitly.

type RoleResponse struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description,omitempty"`
	HierarchyLevel int       `json:"hierarchy_level"`
	IsSystem       bool      `json:"is_system"`
	CreatedAt      time.Time `json:"created_at"`
}

func toRoleResponse(role *authz.Role) RoleResponse {
	return RoleResponse{
		ID:             role.ID(),
		Name:           role.Name(),
		Slug:           role.Slug(),
		Description:    role.Description(),
		HierarchyLevel: role.HierarchyLevel(),
		IsSystem:       role.IsSystem(),
		CreatedAt:      role.CreatedAt(),
	}
}

func toRoleResponses(roles []*authz.Role) []RoleResponse {
	out := make([]RoleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, toRoleResponse(role))
	}
	return out
}

type PermissionResponse struct {
	ID          uint   `json:"id"`
	Module      string `json:"module"`
	Action      string `json:"action"`
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	IsDefault   bool   `json:"is_default"`
}

func toPermissionResponse(p *authz.Permission) PermissionResponse {
	return PermissionResponse{
		ID:          p.ID(),
		Module:      p.Module().String(),
		Action:      p.Action().String(),
		Code:        p.Code(),
		DisplayName: p.DisplayName(),
		IsDefault:   p.IsDefault(),
	}
}

func toPermissionResponses(permissions []*authz.Permission) []PermissionResponse {
	out := make([]PermissionResponse, 0, len(permissions))
	for _, p := range permissions {
		out = append(out, toPermissionResponse(p))
	}
	return out
}

type AssignmentResponse struct {
	ID           uint      `json:"id"`
	UserID       uint      `json:"user_id"`
	RoleID       uint      `json:"role_id"`
	ScopeType    string    `json:"scope_type"`
	BranchID     uint      `json:"branch_id,omitempty"`
	DepartmentID uint      `json:"department_id,omitempty"`
	IsPrimary    bool      `json:"is_primary"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func toAssignmentResponse(a *authz.Assignment) AssignmentResponse {
	return AssignmentResponse{
		ID:           a.ID(),
		UserID:       a.UserID(),
		RoleID:       a.RoleID(),
		ScopeType:    a.ScopeType().String(),
		BranchID:     a.BranchID(),
		DepartmentID: a.DepartmentID(),
		IsPrimary:    a.IsPrimary(),
		IsActive:     a.IsActive(),
		CreatedAt:    a.CreatedAt(),
	}
}

func toAssignmentResponses(assignments []*authz.Assignment) []AssignmentResponse {
	out := make([]AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, toAssignmentResponse(a))
	}
	return out
}

type BranchAccessResponse struct {
	ID          uint      `json:"id"`
	UserID      uint      `json:"user_id"`
	BranchID    uint      `json:"branch_id"`
	AccessLevel string    `json:"access_level"`
	IsDefault   bool      `json:"is_default"`
	CreatedAt   time.Time `json:"created_at"`
}

func toBranchAccessResponse(b *authz.BranchAccess) BranchAccessResponse {
	return BranchAccessResponse{
		ID:          b.ID(),
		UserID:      b.UserID(),
		BranchID:    b.BranchID(),
		AccessLevel: b.AccessLevel().String(),
		IsDefault:   b.IsDefault(),
		CreatedAt:   b.CreatedAt(),
	}
}

func toBranchAccessResponses(rows []*authz.BranchAccess) []BranchAccessResponse {
	out := make([]BranchAccessResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, toBranchAccessResponse(row))
	}
	return out
}

type BranchResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Code     string `json:"code"`
	IsActive bool   `json:"is_active"`
}

func toBranchResponses(branches []*authz.Branch) []BranchResponse {
	out := make([]BranchResponse, 0, len(branches))
	for _, b := range branches {
		out = append(out, BranchResponse{
			ID:       b.ID(),
			Name:     b.Name(),
			Code:     b.Code(),
			IsActive: b.IsActive(),
		})
	}
	return out
}

type DepartmentResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}

func toDepartmentResponse(d *authz.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID(),
		Name:        d.Name(),
		Code:        d.Code(),
		Description: d.Description(),
		IsActive:    d.IsActive(),
	}
}

func toDepartmentResponses(departments []*authz.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(departments))
	for _, d := range departments {
		out = append(out, toDepartmentResponse(d))
	}
	return out
}
