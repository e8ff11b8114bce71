package repository

import (
	"context"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
)

type RequestRepository interface {
	// Create stores a new pending request. It fails with INVALID_STATE when the
	// buyer already holds a pending or accepted request for the listing; the
	// check and the write commit atomically.
	Create(ctx context.Context, request *entity.Request) error
	GetByID(ctx context.Context, id string) (*entity.Request, error)
	// FindOpen returns the buyer's pending or accepted request for a listing, or nil.
	FindOpen(ctx context.Context, listingID, buyerID string) (*entity.Request, error)
	// FindLatest returns the buyer's most recent request for a listing in any status, or nil.
	FindLatest(ctx context.Context, listingID, buyerID string) (*entity.Request, error)
	ListByBuyerID(ctx context.Context, buyerID string) ([]*entity.Request, error)
	ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Request, error)

	// Transition moves a request from one status to another only if the stored
	// status still equals from. A lost race yields CONFLICT.
	Transition(ctx context.Context, id string, from, to entity.RequestStatus) (*entity.Request, error)
	// Delete removes a request only if its stored status still equals from.
	Delete(ctx context.Context, id string, from entity.RequestStatus) error
}
