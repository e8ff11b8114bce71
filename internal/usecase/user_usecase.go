package usecase

import (
	"context"
	"strings"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/repository"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/errors"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/logger"
)

type UserUseCase struct {
	userRepo repository.UserRepository
}

func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{
		userRepo: userRepo,
	}
}

type UpdateProfileInput struct {
	Name     string `json:"name" validate:"required,max=80"`
	Address  string `json:"address" validate:"max=200"`
	District string `json:"district" validate:"max=80"`
}

// EnsureProfile creates the caller's profile on first login. Repeated calls
// return the stored profile unchanged.
func (uc *UserUseCase) EnsureProfile(ctx context.Context, session entity.Session) (*entity.User, bool, error) {
	if !session.Valid() {
		return nil, false, errors.Unauthorized("Missing session", nil)
	}

	user, created, err := uc.userRepo.CreateIfAbsent(ctx, &entity.User{
		ID:    session.UID,
		Phone: session.Phone,
	})
	if err != nil {
		logger.Error("EnsureProfile Error: %v", err)
		return nil, false, err
	}
	if created {
		logger.Info("Created profile for user %s", session.UID)
	}
	return user, created, nil
}

func (uc *UserUseCase) GetProfile(ctx context.Context, session entity.Session) (*entity.User, error) {
	if !session.Valid() {
		return nil, errors.Unauthorized("Missing session", nil)
	}
	return uc.userRepo.GetByID(ctx, session.UID)
}

func (uc *UserUseCase) UpdateProfile(ctx context.Context, session entity.Session, input UpdateProfileInput) (*entity.User, error) {
	if !session.Valid() {
		return nil, errors.Unauthorized("Missing session", nil)
	}

	user, err := uc.userRepo.GetByID(ctx, session.UID)
	if err != nil {
		return nil, err
	}

	user.Name = strings.TrimSpace(input.Name)
	user.Address = strings.TrimSpace(input.Address)
	user.District = strings.TrimSpace(input.District)

	if err := uc.userRepo.UpdateProfile(ctx, user); err != nil {
		logger.Error("UpdateProfile Error: %v", err)
		return nil, err
	}
	return user, nil
}
