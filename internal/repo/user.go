package repo

import (
	"context"

	"github.com/Skotchmaster/geotag_api/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	if err := r.DB.WithContext(ctx).Create(u).Error; err != nil {
		return mapUserConflict(err)
	}
	return nil
}

func (r *GormRepo) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}

func (r *GormRepo) UserByAPIKey(ctx context.Context, key string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("api_key = ?", key).First(&user).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &user, nil
}
