package models

import (
	"time"

	"sentra/internal/shared/constants"
)

type UserBranchAccessModel struct {
	ID          uint   `gorm:"primarykey"`
	UserID      uint   `gorm:"not null;uniqueIndex:idx_user_branch"`
	BranchID    uint   `gorm:"not null;uniqueIndex:idx_user_branch"`
	AccessLevel string `gorm:"not null;default:full;size:20"`
	IsDefault   bool   `gorm:"default:false"`
	CreatedAt   time.Time
}

func (UserBranchAccessModel) TableName() string {
	return constants.TableUserBranchAccess
}
