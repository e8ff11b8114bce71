package repository

import (
	"context"
	"strings"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
)

// ListingFilter narrows the browse feed. Zero values match everything.
type ListingFilter struct {
	Category string
	// Query is matched against the animal name and sub type.
	Query    string
	District string
	MaxPrice float64
	// ExcludeSellerID drops the viewer's own listings.
	ExcludeSellerID string
}

func (f ListingFilter) Matches(l *entity.Listing) bool {
	if f.ExcludeSellerID != "" && l.SellerID == f.ExcludeSellerID {
		return false
	}
	if f.Category != "" && l.Category() != f.Category {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		name := strings.ToLower(l.AnimalName + " " + l.SubType)
		if !strings.Contains(name, q) {
			return false
		}
	}
	if d := strings.ToLower(strings.TrimSpace(f.District)); d != "" {
		if !strings.Contains(strings.ToLower(l.District), d) {
			return false
		}
	}
	if f.MaxPrice > 0 && l.Price > f.MaxPrice {
		return false
	}
	return true
}

type ListingRepository interface {
	Create(ctx context.Context, listing *entity.Listing) error
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	// ListActive returns one page of active listings matching filter, newest
	// first, with the total number of matches.
	ListActive(ctx context.Context, filter ListingFilter, limit, offset int) ([]*entity.Listing, int64, error)
	ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Listing, error)
	SetActive(ctx context.Context, id string, active bool) error
}
