package models

import (
	"time"

	"sentra/internal/shared/constants"
)

type UserModel struct {
	ID        uint      `gorm:"primarykey"`
	Email     string    `gorm:"uniqueIndex;not null;size:255"`
	Name      string    `gorm:"not null;size:100"`
	Status    string    `gorm:"not null;default:active;size:20"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (UserModel) TableName() string {
	return constants.TableUsers
}
