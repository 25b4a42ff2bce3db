package repository

import (
	"context"
	"errors"
	"time"

	"github.com/LavaJover/shvark-partner-service/internal/domain"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-partner-service/internal/infrastructure/postgres/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DefaultUserRepository struct {
	DB *gorm.DB
}

func NewDefaultUserRepository(db *gorm.DB) *DefaultUserRepository {
	return &DefaultUserRepository{
		DB: db,
	}
}

func (r *DefaultUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	model := mappers.ToGORMUser(user)
	if err := r.DB.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailTaken
		}
		return err
	}
	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *DefaultUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.getUser(ctx, "id = ?", userID)
}

func (r *DefaultUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getUser(ctx, "email = ?", email)
}

func (r *DefaultUserRepository) getUser(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	var model models.UserModel
	err := r.DB.WithContext(ctx).Where(query, args...).Take(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return mappers.ToDomainUser(&model), nil
}

func (r *DefaultUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	result := r.DB.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password_hash": passwordHash,
			"updated_at":    time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
