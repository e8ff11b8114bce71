package handler

import (
	"context"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/service"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/usecase"
)

// The handlers depend on these narrow views of the use cases so they can be
// exercised with mocks.

type UserService interface {
	EnsureProfile(ctx context.Context, session entity.Session) (*entity.User, bool, error)
	GetProfile(ctx context.Context, session entity.Session) (*entity.User, error)
	UpdateProfile(ctx context.Context, session entity.Session, input usecase.UpdateProfileInput) (*entity.User, error)
}

type ListingService interface {
	Get(ctx context.Context, session entity.Session, id string) (*service.ListingView, error)
	ListActive(ctx context.Context, session entity.Session, input usecase.BrowseListingsInput, limit, offset int) ([]service.ListingView, int64, error)
	MyListings(ctx context.Context, session entity.Session) ([]service.ListingView, error)
	Create(ctx context.Context, session entity.Session, input usecase.CreateListingInput) (*service.ListingView, error)
	SetActive(ctx context.Context, session entity.Session, id string, active bool) error
	UploadURL(ctx context.Context, session entity.Session, input usecase.UploadURLInput) (*usecase.UploadTarget, error)
}

type RequestService interface {
	Create(ctx context.Context, session entity.Session, listingID string) (*entity.Request, error)
	Accept(ctx context.Context, session entity.Session, requestID string) (*entity.Request, error)
	Reject(ctx context.Context, session entity.Session, requestID string) (*entity.Request, error)
	Cancel(ctx context.Context, session entity.Session, requestID string) (*entity.Request, error)
	Delete(ctx context.Context, session entity.Session, requestID string) error
	StatusForListing(ctx context.Context, session entity.Session, listingID string) (*entity.Request, error)
	ListSent(ctx context.Context, session entity.Session) ([]*usecase.RequestCard, error)
	ListReceived(ctx context.Context, session entity.Session) ([]*usecase.RequestCard, error)
}

type ChatService interface {
	OpenChannel(ctx context.Context, session entity.Session, input usecase.OpenChannelInput) (*usecase.InboxEntry, error)
	Inbox(ctx context.Context, session entity.Session) ([]*usecase.InboxEntry, error)
	ListMessages(ctx context.Context, session entity.Session, channelID string, limit int) ([]*entity.Message, error)
	SendMessage(ctx context.Context, session entity.Session, channelID, text string) (*entity.Message, error)
	MarkSeen(ctx context.Context, session entity.Session, channelID string) error
}
