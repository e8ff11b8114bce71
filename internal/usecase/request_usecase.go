package usecase

import (
	"context"
	"fmt"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/repository"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/service"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/infrastructure/ratelimit"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/errors"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/logger"
)

type RequestUseCase struct {
	requestRepo repository.RequestRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	rateLimiter *ratelimit.RateLimiter
}

func NewRequestUseCase(
	requestRepo repository.RequestRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	rateLimiter *ratelimit.RateLimiter,
) *RequestUseCase {
	return &RequestUseCase{
		requestRepo: requestRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		rateLimiter: rateLimiter,
	}
}

// RequestCard is a request as shown in the sent or received list of one party.
type RequestCard struct {
	*entity.Request
	Listing          *service.ListingView `json:"listing,omitempty"`
	CounterpartName  string               `json:"counterpart_name"`
	CounterpartPhone string               `json:"counterpart_phone,omitempty"`
}

func (uc *RequestUseCase) Create(ctx context.Context, session entity.Session, listingID string) (*entity.Request, error) {
	if !session.Valid() {
		return nil, errors.Unauthorized("Missing session", nil)
	}

	if uc.rateLimiter != nil {
		if allowed, wait := uc.rateLimiter.Allow(session.UID, ratelimit.ActionCreateRequest); !allowed {
			logger.Warn("CreateRequest Rate Limited: user %s must wait %v", session.UID, wait)
			return nil, errors.TooManyRequests(fmt.Sprintf("Too many requests. Try again in %d seconds", int(wait.Seconds())+1))
		}
	}

	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive {
		return nil, errors.InvalidState("Listing is no longer available")
	}
	if listing.SellerID == session.UID {
		return nil, errors.BadRequest("You cannot request contact on your own listing", nil)
	}

	request := &entity.Request{
		ListingID: listing.ID,
		BuyerID:   session.UID,
		SellerID:  listing.SellerID,
	}
	if err := uc.requestRepo.Create(ctx, request); err != nil {
		logger.Error("CreateRequest Error: listing=%s buyer=%s: %v", listingID, session.UID, err)
		return nil, err
	}

	logger.LogTransition(request.ID, "none", string(request.Status), session.UID)
	return request, nil
}

func (uc *RequestUseCase) Accept(ctx context.Context, session entity.Session, requestID string) (*entity.Request, error) {
	return uc.fire(ctx, session, requestID, entity.EventAccept)
}

func (uc *RequestUseCase) Reject(ctx context.Context, session entity.Session, requestID string) (*entity.Request, error) {
	return uc.fire(ctx, session, requestID, entity.EventReject)
}

func (uc *RequestUseCase) Cancel(ctx context.Context, session entity.Session, requestID string) (*entity.Request, error) {
	return uc.fire(ctx, session, requestID, entity.EventCancel)
}

func (uc *RequestUseCase) Delete(ctx context.Context, session entity.Session, requestID string) error {
	_, err := uc.fire(ctx, session, requestID, entity.EventDelete)
	return err
}

// fire applies event to the request after checking the caller's side and the
// current status. The store write is conditional on the status just read.
func (uc *RequestUseCase) fire(ctx context.Context, session entity.Session, requestID string, event entity.RequestEvent) (*entity.Request, error) {
	if !session.Valid() {
		return nil, errors.Unauthorized("Missing session", nil)
	}

	request, err := uc.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !request.CanFire(session.UID, event) {
		return nil, errors.Forbidden(fmt.Sprintf("You are not allowed to %s this request", event), nil)
	}

	to, ok := request.Status.Next(event)
	if !ok {
		return nil, errors.InvalidTransition(string(request.Status), string(event))
	}

	from := request.Status
	if event == entity.EventDelete {
		if err := uc.requestRepo.Delete(ctx, requestID, from); err != nil {
			logger.Error("DeleteRequest Error: id=%s: %v", requestID, err)
			return nil, err
		}
		logger.LogTransition(requestID, string(from), "deleted", session.UID)
		return nil, nil
	}

	updated, err := uc.requestRepo.Transition(ctx, requestID, from, to)
	if err != nil {
		logger.Error("%sRequest Error: id=%s: %v", event, requestID, err)
		return nil, err
	}
	logger.LogTransition(requestID, string(from), string(to), session.UID)
	return updated, nil
}

// StatusForListing returns the caller's latest request for a listing, or nil.
func (uc *RequestUseCase) StatusForListing(ctx context.Context, session entity.Session, listingID string) (*entity.Request, error) {
	if !session.Valid() {
		return nil, errors.Unauthorized("Missing session", nil)
	}
	return uc.requestRepo.FindLatest(ctx, listingID, session.UID)
}

func (uc *RequestUseCase) ListSent(ctx context.Context, session entity.Session) ([]*RequestCard, error) {
	if !session.Valid() {
		return nil, errors.Unauthorized("Missing session", nil)
	}

	requests, err := uc.requestRepo.ListByBuyerID(ctx, session.UID)
	if err != nil {
		return nil, err
	}
	return uc.cards(ctx, session.UID, requests, "Seller")
}

func (uc *RequestUseCase) ListReceived(ctx context.Context, session entity.Session) ([]*RequestCard, error) {
	if !session.Valid() {
		return nil, errors.Unauthorized("Missing session", nil)
	}

	requests, err := uc.requestRepo.ListBySellerID(ctx, session.UID)
	if err != nil {
		return nil, err
	}
	return uc.cards(ctx, session.UID, requests, "Buyer")
}

// cards joins each request with its listing and the other party's profile.
// Listings and profiles that no longer exist are left out of the card.
func (uc *RequestUseCase) cards(ctx context.Context, viewerID string, requests []*entity.Request, fallbackName string) ([]*RequestCard, error) {
	listings := make(map[string]*entity.Listing)
	users := make(map[string]*entity.User)

	cards := make([]*RequestCard, 0, len(requests))
	for _, req := range requests {
		listing, ok := listings[req.ListingID]
		if !ok {
			l, err := uc.listingRepo.GetByID(ctx, req.ListingID)
			if err != nil && !errors.Is(err, errors.CodeNotFound) {
				return nil, err
			}
			listing = l
			listings[req.ListingID] = l
		}

		otherID := req.Counterpart(viewerID)
		other, ok := users[otherID]
		if !ok {
			u, err := uc.userRepo.GetByID(ctx, otherID)
			if err != nil && !errors.Is(err, errors.CodeNotFound) {
				return nil, err
			}
			other = u
			users[otherID] = u
		}

		card := &RequestCard{
			Request:         req,
			CounterpartName: other.DisplayName(fallbackName),
		}
		if other != nil {
			card.CounterpartPhone = service.ContactFor(req, other.Phone)
		}
		if listing != nil {
			view := service.ListingForViewer(listing, viewerID, req)
			card.Listing = &view
		}
		cards = append(cards, card)
	}
	return cards, nil
}
