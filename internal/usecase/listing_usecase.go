package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/repository"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/service"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/errors"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/logger"
)

type ListingUseCase struct {
	listingRepo repository.ListingRepository
	requestRepo repository.RequestRepository
	media       MediaStore
}

func NewListingUseCase(listingRepo repository.ListingRepository, requestRepo repository.RequestRepository, media MediaStore) *ListingUseCase {
	return &ListingUseCase{
		listingRepo: listingRepo,
		requestRepo: requestRepo,
		media:       media,
	}
}

type CreateListingInput struct {
	AnimalName    string   `json:"animal_name" validate:"required,max=60"`
	SubType       string   `json:"sub_type" validate:"max=60"`
	Age           string   `json:"age" validate:"max=30"`
	Description   string   `json:"description" validate:"max=1000"`
	Price         float64  `json:"price" validate:"gt=0"`
	ContactNumber string   `json:"contact_number" validate:"omitempty,e164"`
	Images        []string `json:"images" validate:"min=4,max=6,dive,required,url"`
	VideoURL      string   `json:"video_url" validate:"omitempty,url"`
	District      string   `json:"district" validate:"max=80"`
}

// BrowseListingsInput holds the browse filters taken from the query string.
type BrowseListingsInput struct {
	Category string  `query:"category" validate:"omitempty,oneof=cow goat sheep bull others"`
	Query    string  `query:"q" validate:"max=60"`
	District string  `query:"district" validate:"max=80"`
	MaxPrice float64 `query:"max_price" validate:"gte=0"`
}

type UploadURLInput struct {
	Kind        MediaKind `json:"kind" validate:"required,oneof=images videos"`
	ContentType string    `json:"content_type" validate:"required"`
}

// Get returns a listing as the caller may see it: price and contact number
// stay hidden until the caller's request is accepted.
func (uc *ListingUseCase) Get(ctx context.Context, session entity.Session, id string) (*service.ListingView, error) {
	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var request *entity.Request
	if session.Valid() && session.UID != listing.SellerID {
		request, err = uc.requestRepo.FindLatest(ctx, listing.ID, session.UID)
		if err != nil {
			return nil, err
		}
	}

	view := service.ListingForViewer(listing, session.UID, request)
	return &view, nil
}

// ListActive is the browse feed. Signed-in viewers never see their own
// listings in it; those are under MyListings.
func (uc *ListingUseCase) ListActive(ctx context.Context, session entity.Session, input BrowseListingsInput, limit, offset int) ([]service.ListingView, int64, error) {
	filter := repository.ListingFilter{
		Category:        input.Category,
		Query:           input.Query,
		District:        input.District,
		MaxPrice:        input.MaxPrice,
		ExcludeSellerID: session.UID,
	}
	listings, total, err := uc.listingRepo.ListActive(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	// One query for all of the caller's requests; the newest per listing wins.
	latest := map[string]*entity.Request{}
	if session.Valid() {
		sent, err := uc.requestRepo.ListByBuyerID(ctx, session.UID)
		if err != nil {
			return nil, 0, err
		}
		for _, req := range sent {
			if prev, ok := latest[req.ListingID]; !ok || req.CreatedAt.After(prev.CreatedAt) {
				latest[req.ListingID] = req
			}
		}
	}

	views := make([]service.ListingView, 0, len(listings))
	for _, l := range listings {
		views = append(views, service.ListingForViewer(l, session.UID, latest[l.ID]))
	}
	return views, total, nil
}

func (uc *ListingUseCase) MyListings(ctx context.Context, session entity.Session) ([]service.ListingView, error) {
	if !session.Valid() {
		return nil, errors.Unauthorized("Missing session", nil)
	}

	listings, err := uc.listingRepo.ListBySellerID(ctx, session.UID)
	if err != nil {
		return nil, err
	}
	views := make([]service.ListingView, 0, len(listings))
	for _, l := range listings {
		views = append(views, service.ListingForViewer(l, session.UID, nil))
	}
	return views, nil
}

// Create stores a listing whose media has already been uploaded. Every media
// URL must exist in the bucket; if the write fails the uploads are removed.
func (uc *ListingUseCase) Create(ctx context.Context, session entity.Session, input CreateListingInput) (*service.ListingView, error) {
	if !session.Valid() {
		return nil, errors.Unauthorized("Missing session", nil)
	}
	if n := len(input.Images); n < entity.MinListingImages || n > entity.MaxListingImages {
		return nil, errors.BadRequest(fmt.Sprintf("A listing needs %d to %d images", entity.MinListingImages, entity.MaxListingImages), nil)
	}

	listing := &entity.Listing{
		SellerID:      session.UID,
		AnimalName:    strings.TrimSpace(input.AnimalName),
		SubType:       strings.TrimSpace(input.SubType),
		Age:           strings.TrimSpace(input.Age),
		Description:   strings.TrimSpace(input.Description),
		Price:         input.Price,
		ContactNumber: input.ContactNumber,
		Images:        input.Images,
		VideoURL:      input.VideoURL,
		District:      strings.TrimSpace(input.District),
		IsActive:      true,
	}
	if listing.ContactNumber == "" {
		listing.ContactNumber = session.Phone
	}

	if uc.media != nil {
		for _, url := range listing.Media() {
			ok, err := uc.media.Exists(ctx, url)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errors.BadRequest("Media has not been uploaded: "+url, nil)
			}
		}
	}

	if err := uc.listingRepo.Create(ctx, listing); err != nil {
		logger.Error("CreateListing Error: %v", err)
		uc.discardMedia(ctx, listing.Media())
		return nil, err
	}

	view := service.ListingForViewer(listing, session.UID, nil)
	return &view, nil
}

func (uc *ListingUseCase) discardMedia(ctx context.Context, urls []string) {
	if uc.media == nil {
		return
	}
	for _, url := range urls {
		if err := uc.media.Delete(ctx, url); err != nil {
			logger.LogSwallowed("delete_media", url, err)
		}
	}
}

// SetActive hides or re-publishes a listing. Only its seller may do this.
func (uc *ListingUseCase) SetActive(ctx context.Context, session entity.Session, id string, active bool) error {
	if !session.Valid() {
		return errors.Unauthorized("Missing session", nil)
	}

	listing, err := uc.listingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if listing.SellerID != session.UID {
		return errors.Forbidden("Only the seller can change this listing", nil)
	}
	return uc.listingRepo.SetActive(ctx, id, active)
}

func (uc *ListingUseCase) UploadURL(ctx context.Context, session entity.Session, input UploadURLInput) (*UploadTarget, error) {
	if !session.Valid() {
		return nil, errors.Unauthorized("Missing session", nil)
	}
	if uc.media == nil {
		return nil, errors.Unavailable("Media storage is not configured", nil)
	}
	if input.Kind != MediaImage && input.Kind != MediaVideo {
		return nil, errors.BadRequest("kind must be images or videos", nil)
	}
	return uc.media.SignedUploadURL(ctx, session.UID, input.Kind, input.ContentType)
}
