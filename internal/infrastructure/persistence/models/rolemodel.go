package models

import (
	"time"

	"sentra/internal/shared/constants"
)

type RoleModel struct {
	ID             uint      `gorm:"primarykey"`
	Name           string    `gorm:"not null;size:50"`
	Slug           string    `gorm:"uniqueIndex;not null;size:50"`
	Description    string    `gorm:"type:text"`
	HierarchyLevel int       `gorm:"not null;default:4"`
	IsSystem       bool      `gorm:"default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (RoleModel) TableName() string {
	return constants.TableRoles
}
