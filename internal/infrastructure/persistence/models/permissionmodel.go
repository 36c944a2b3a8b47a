package models

import (
	"time"

	"sentra/internal/shared/constants"
)

type PermissionModel struct {
	ID          uint      `gorm:"primarykey"`
	Module      string    `gorm:"not null;size:50;uniqueIndex:idx_module_action"`
	Action      string    `gorm:"not null;size:20;uniqueIndex:idx_module_action"`
	DisplayName string    `gorm:"not null;size:100"`
	IsDefault   bool      `gorm:"default:false"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (PermissionModel) TableName() string {
	return constants.TablePermissions
}
