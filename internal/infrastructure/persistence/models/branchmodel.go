package models

import (
	"time"

	"sentra/internal/shared/constants"
)

type BranchModel struct {
	ID        uint      `gorm:"primarykey"`
	Name      string    `gorm:"not null;size:100"`
	Code      string    `gorm:"uniqueIndex;not null;size:20"`
	IsActive  bool      `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (BranchModel) TableName() string {
	return constants.TableBranches
}
