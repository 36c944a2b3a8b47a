package models

import (
	"time"

	"sentra/internal/shared/constants"
)

type UserRoleAssignmentModel struct {
	ID           uint   `gorm:"primarykey"`
	UserID       uint   `gorm:"not null;index:idx_assignment_user"`
	RoleID       uint   `gorm:"not null;index:idx_assignment_role"`
	ScopeType    string `gorm:"not null;size:20"`
	BranchID     uint   `gorm:"default:0"`
	DepartmentID uint   `gorm:"default:0"`
	IsPrimary    bool   `gorm:"default:false"`
	IsActive     bool   `gorm:"default:true"`
	CreatedAt    time.Time
}

func (UserRoleAssignmentModel) TableName() string {
	return constants.TableUserRoles
}
