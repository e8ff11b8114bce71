package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/repository"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/errors"
)

// requestGuard points at the latest request a buyer created for a listing.
// Creation reads and rewrites it inside one transaction, which serialises
// concurrent creators for the same pair.
type requestGuard struct {
	RequestID string    `firestore:"requestId"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

type firestoreRequestRepository struct {
	store
}

func NewFirestoreRequestRepository(client *firestore.Client, timeout time.Duration) repository.RequestRepository {
	return &firestoreRequestRepository{
		store: newStore(client, timeout),
	}
}

func setRequestID(r *entity.Request, id string) { r.ID = id }

func (r *firestoreRequestRepository) Create(ctx context.Context, request *entity.Request) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	if request.ID == "" {
		request.ID = uuid.New().String()
	}
	now := time.Now()
	request.Status = entity.RequestPending
	request.CreatedAt = now
	request.UpdatedAt = now

	guardRef := r.client.Collection(requestGuardsCollection).Doc(entity.RequestGuardID(request.ListingID, request.BuyerID))
	requestRef := r.client.Collection(requestsCollection).Doc(request.ID)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		guardDoc, err := tx.Get(guardRef)
		if err != nil && !isNotFound(err) {
			return err
		}

		if err == nil {
			var guard requestGuard
			if err := guardDoc.DataTo(&guard); err != nil {
				return errors.Internal("Failed to parse request guard", err)
			}

			if guard.RequestID != "" {
				prevDoc, err := tx.Get(r.client.Collection(requestsCollection).Doc(guard.RequestID))
				if err != nil && !isNotFound(err) {
					return err
				}
				if err == nil {
					var prev entity.Request
					if err := prevDoc.DataTo(&prev); err != nil {
						return errors.Internal("Failed to parse request data", err)
					}
					if prev.Status.IsOpen() {
						return errors.InvalidState("A " + string(prev.Status) + " request already exists for this listing")
					}
				}
			}
		}

		if err := tx.Set(guardRef, requestGuard{RequestID: request.ID, UpdatedAt: now}); err != nil {
			return err
		}
		return tx.Create(requestRef, request)
	})
	if err != nil {
		return errors.FromStore("Failed to create request", err)
	}
	return nil
}

func (r *firestoreRequestRepository) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	request, _, err := r.get(ctx, id)
	return request, err
}

func (r *firestoreRequestRepository) get(ctx context.Context, id string) (*entity.Request, *firestore.DocumentSnapshot, error) {
	doc, err := r.client.Collection(requestsCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, nil, errors.NotFound("Request", err)
		}
		return nil, nil, errors.FromStore("Failed to get request", err)
	}

	var request entity.Request
	if err := doc.DataTo(&request); err != nil {
		return nil, nil, errors.Internal("Failed to parse request data", err)
	}
	request.ID = doc.Ref.ID

	return &request, doc, nil
}

func (r *firestoreRequestRepository) FindOpen(ctx context.Context, listingID, buyerID string) (*entity.Request, error) {
	requests, err := r.listForPair(ctx, listingID, buyerID)
	if err != nil {
		return nil, err
	}
	for _, req := range requests {
		if req.Status.IsOpen() {
			return req, nil
		}
	}
	return nil, nil
}

func (r *firestoreRequestRepository) FindLatest(ctx context.Context, listingID, buyerID string) (*entity.Request, error) {
	requests, err := r.listForPair(ctx, listingID, buyerID)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, nil
	}
	return requests[0], nil
}

func (r *firestoreRequestRepository) listForPair(ctx context.Context, listingID, buyerID string) ([]*entity.Request, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	iter := r.client.Collection(requestsCollection).
		Where("animalId", "==", listingID).
		Where("buyerId", "==", buyerID).
		Documents(ctx)
	requests, err := decodeAll(iter, setRequestID)
	if err != nil {
		return nil, errors.FromStore("Failed to query requests", err)
	}
	sortRequests(requests)
	return requests, nil
}

func (r *firestoreRequestRepository) ListByBuyerID(ctx context.Context, buyerID string) ([]*entity.Request, error) {
	return r.listBy(ctx, "buyerId", buyerID)
}

func (r *firestoreRequestRepository) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Request, error) {
	return r.listBy(ctx, "sellerId", sellerID)
}

func (r *firestoreRequestRepository) listBy(ctx context.Context, field, uid string) ([]*entity.Request, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	iter := r.client.Collection(requestsCollection).Where(field, "==", uid).Documents(ctx)
	requests, err := decodeAll(iter, setRequestID)
	if err != nil {
		return nil, errors.FromStore("Failed to list requests", err)
	}
	sortRequests(requests)
	return requests, nil
}

func (r *firestoreRequestRepository) Transition(ctx context.Context, id string, from, to entity.RequestStatus) (*entity.Request, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	request, doc, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if request.Status != from {
		return nil, errors.Conflict("Request was updated concurrently", nil)
	}

	now := time.Now()
	_, err = doc.Ref.Update(ctx, []firestore.Update{
		{Path: "status", Value: string(to)},
		{Path: "updatedAt", Value: now},
	}, firestore.LastUpdateTime(doc.UpdateTime))
	if err != nil {
		if isNotFound(err) {
			return nil, errors.Conflict("Request was deleted concurrently", err)
		}
		return nil, errors.FromStore("Failed to update request", err)
	}

	request.Status = to
	request.UpdatedAt = now
	return request, nil
}

func (r *firestoreRequestRepository) Delete(ctx context.Context, id string, from entity.RequestStatus) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	request, doc, err := r.get(ctx, id)
	if err != nil {
		return err
	}
	if request.Status != from {
		return errors.Conflict("Request was updated concurrently", nil)
	}

	if _, err := doc.Ref.Delete(ctx, firestore.LastUpdateTime(doc.UpdateTime)); err != nil {
		if isNotFound(err) {
			return errors.Conflict("Request was deleted concurrently", err)
		}
		return errors.FromStore("Failed to delete request", err)
	}
	return nil
}

func sortRequests(requests []*entity.Request) {
	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}
