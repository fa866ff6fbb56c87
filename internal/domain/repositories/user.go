package repositories

import (
	"context"

	"vidbrief/internal/domain/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUserPlan(ctx context.Context, id int64, plan models.UserPlan) error
	Delete(ctx context.Context, id int64) error
}
