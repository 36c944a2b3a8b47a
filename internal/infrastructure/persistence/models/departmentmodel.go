package models

import (
	"time"

	"sentra/internal/shared/constants"
)

type DepartmentModel struct {
	ID          uint      `gorm:"primarykey"`
	Name        string    `gorm:"not null;size:100"`
	Code        string    `gorm:"uniqueIndex;not null;size:20"`
	Description string    `gorm:"type:text"`
	IsActive    bool      `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (DepartmentModel) TableName() string {
	return constants.TableDepartments
}
