package repository

import (
	"context"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
)

type UserRepository interface {
	// CreateIfAbsent stores the user unless a profile already exists and
	// returns whichever profile is stored afterwards.
	CreateIfAbsent(ctx context.Context, user *entity.User) (*entity.User, bool, error)
	GetByID(ctx context.Context, id string) (*entity.User, error)
	UpdateProfile(ctx context.Context, user *entity.User) error
}
