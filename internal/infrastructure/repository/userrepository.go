package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"sentra/internal/domain/authz"
	"sentra/internal/infrastructure/persistence/models"
	shareddb "sentra/internal/shared/db"
	"sentra/internal/shared/logger"
)

// UserRepositoryImpl implements the authz.UserRepository interface. Users are
// owned by the identity service; this service only validates references.
type UserRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB, logger logger.Interface) authz.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		logger: logger,
	}
}

func (r *UserRepositoryImpl) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := shareddb.GetTxFromContext(ctx, r.db).
		Model(&models.UserModel{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}
