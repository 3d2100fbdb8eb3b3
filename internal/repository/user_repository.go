package repository

import (
	"context"

	"agrimarket/internal/domain/model"
)

type UserRepository interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, u model.User) error
	SetVerified(ctx context.Context, id string) error
}
