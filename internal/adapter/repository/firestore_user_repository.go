package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/repository"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/errors"
)

type firestoreUserRepository struct {
	store
}

func NewFirestoreUserRepository(client *firestore.Client, timeout time.Duration) repository.UserRepository {
	return &firestoreUserRepository{
		store: newStore(client, timeout),
	}
}

func (r *firestoreUserRepository) CreateIfAbsent(ctx context.Context, user *entity.User) (*entity.User, bool, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := r.client.Collection(usersCollection).Doc(user.ID).Create(ctx, user)
	if err == nil {
		return user, true, nil
	}
	if status.Code(err) != codes.AlreadyExists {
		return nil, false, errors.FromStore("Failed to create user", err)
	}

	existing, err := r.get(ctx, user.ID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	return r.get(ctx, id)
}

func (r *firestoreUserRepository) get(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.FromStore("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	user.ID = doc.Ref.ID

	return &user, nil
}

// UpdateProfile writes only the owner-editable fields.
func (r *firestoreUserRepository) UpdateProfile(ctx context.Context, user *entity.User) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	user.UpdatedAt = time.Now()
	_, err := r.client.Collection(usersCollection).Doc(user.ID).Update(ctx, []firestore.Update{
		{Path: "name", Value: user.Name},
		{Path: "address", Value: user.Address},
		{Path: "district", Value: user.District},
		{Path: "updatedAt", Value: user.UpdatedAt},
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("User", err)
		}
		return errors.FromStore("Failed to update user", err)
	}
	return nil
}
