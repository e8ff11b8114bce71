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

type firestoreListingRepository struct {
	store
}

func NewFirestoreListingRepository(client *firestore.Client, timeout time.Duration) repository.ListingRepository {
	return &firestoreListingRepository{
		store: newStore(client, timeout),
	}
}

func setListingID(l *entity.Listing, id string) { l.ID = id }

func (r *firestoreListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	if listing.CreatedAt.IsZero() {
		listing.CreatedAt = time.Now()
	}

	if _, err := r.client.Collection(listingsCollection).Doc(listing.ID).Create(ctx, listing); err != nil {
		return errors.FromStore("Failed to create listing", err)
	}
	return nil
}

func (r *firestoreListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	doc, err := r.client.Collection(listingsCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("Listing", err)
		}
		return nil, errors.FromStore("Failed to get listing", err)
	}

	var listing entity.Listing
	if err := doc.DataTo(&listing); err != nil {
		return nil, errors.Internal("Failed to parse listing data", err)
	}
	listing.ID = doc.Ref.ID

	return &listing, nil
}

// ListActive returns active listings newest first. Filtering and ordering
// happen here so the query needs no composite index.
func (r *firestoreListingRepository) ListActive(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	iter := r.client.Collection(listingsCollection).Where("isActive", "==", true).Documents(ctx)
	listings, err := decodeAll(iter, setListingID)
	if err != nil {
		return nil, 0, errors.FromStore("Failed to list listings", err)
	}
	listings = filterListings(listings, filter)
	sortListings(listings)

	total := int64(len(listings))
	if offset >= len(listings) {
		return []*entity.Listing{}, total, nil
	}
	listings = listings[offset:]
	if limit > 0 && limit < len(listings) {
		listings = listings[:limit]
	}
	return listings, total, nil
}

func (r *firestoreListingRepository) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Listing, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	iter := r.client.Collection(listingsCollection).Where("sellerId", "==", sellerID).Documents(ctx)
	listings, err := decodeAll(iter, setListingID)
	if err != nil {
		return nil, errors.FromStore("Failed to list seller listings", err)
	}
	sortListings(listings)
	return listings, nil
}

func (r *firestoreListingRepository) SetActive(ctx context.Context, id string, active bool) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	_, err := r.client.Collection(listingsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "isActive", Value: active},
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("Listing", err)
		}
		return errors.FromStore("Failed to update listing", err)
	}
	return nil
}

func sortListings(listings []*entity.Listing) {
	sort.SliceStable(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})
}

func filterListings(listings []*entity.Listing, filter repository.ListingFilter) []*entity.Listing {
	out := listings[:0]
	for _, l := range listings {
		if filter.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}
