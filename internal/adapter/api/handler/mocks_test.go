package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/service"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/usecase"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) EnsureProfile(ctx context.Context, session entity.Session) (*entity.User, bool, error) {
	args := m.Called(ctx, session)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Bool(1), args.Error(2)
}

func (m *MockUserService) GetProfile(ctx context.Context, session entity.Session) (*entity.User, error) {
	args := m.Called(ctx, session)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, session entity.Session, input usecase.UpdateProfileInput) (*entity.User, error) {
	args := m.Called(ctx, session, input)
	user, _ := args.Get(0).(*entity.User)
	return user, args.Error(1)
}

type MockListingService struct {
	mock.Mock
}

func (m *MockListingService) Get(ctx context.Context, session entity.Session, id string) (*service.ListingView, error) {
	args := m.Called(ctx, session, id)
	view, _ := args.Get(0).(*service.ListingView)
	return view, args.Error(1)
}

func (m *MockListingService) ListActive(ctx context.Context, session entity.Session, input usecase.BrowseListingsInput, limit, offset int) ([]service.ListingView, int64, error) {
	args := m.Called(ctx, session, input, limit, offset)
	views, _ := args.Get(0).([]service.ListingView)
	return views, args.Get(1).(int64), args.Error(2)
}

func (m *MockListingService) MyListings(ctx context.Context, session entity.Session) ([]service.ListingView, error) {
	args := m.Called(ctx, session)
	views, _ := args.Get(0).([]service.ListingView)
	return views, args.Error(1)
}

func (m *MockListingService) Create(ctx context.Context, session entity.Session, input usecase.CreateListingInput) (*service.ListingView, error) {
	args := m.Called(ctx, session, input)
	view, _ := args.Get(0).(*service.ListingView)
	return view, args.Error(1)
}

func (m *MockListingService) SetActive(ctx context.Context, session entity.Session, id string, active bool) error {
	return m.Called(ctx, session, id, active).Error(0)
}

func (m *MockListingService) UploadURL(ctx context.Context, session entity.Session, input usecase.UploadURLInput) (*usecase.UploadTarget, error) {
	args := m.Called(ctx, session, input)
	target, _ := args.Get(0).(*usecase.UploadTarget)
	return target, args.Error(1)
}

type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) request(args mock.Arguments) (*entity.Request, error) {
	request, _ := args.Get(0).(*entity.Request)
	return request, args.Error(1)
}

func (m *MockRequestService) Create(ctx context.Context, session entity.Session, listingID string) (*entity.Request, error) {
	return m.request(m.Called(ctx, session, listingID))
}

func (m *MockRequestService) Accept(ctx context.Context, session entity.Session, requestID string) (*entity.Request, error) {
	return m.request(m.Called(ctx, session, requestID))
}

func (m *MockRequestService) Reject(ctx context.Context, session entity.Session, requestID string) (*entity.Request, error) {
	return m.request(m.Called(ctx, session, requestID))
}

func (m *MockRequestService) Cancel(ctx context.Context, session entity.Session, requestID string) (*entity.Request, error) {
	return m.request(m.Called(ctx, session, requestID))
}

func (m *MockRequestService) Delete(ctx context.Context, session entity.Session, requestID string) error {
	return m.Called(ctx, session, requestID).Error(0)
}

func (m *MockRequestService) StatusForListing(ctx context.Context, session entity.Session, listingID string) (*entity.Request, error) {
	return m.request(m.Called(ctx, session, listingID))
}

func (m *MockRequestService) ListSent(ctx context.Context, session entity.Session) ([]*usecase.RequestCard, error) {
	args := m.Called(ctx, session)
	cards, _ := args.Get(0).([]*usecase.RequestCard)
	return cards, args.Error(1)
}

func (m *MockRequestService) ListReceived(ctx context.Context, session entity.Session) ([]*usecase.RequestCard, error) {
	args := m.Called(ctx, session)
	cards, _ := args.Get(0).([]*usecase.RequestCard)
	return cards, args.Error(1)
}

type MockChatService struct {
	mock.Mock
}

func (m *MockChatService) OpenChannel(ctx context.Context, session entity.Session, input usecase.OpenChannelInput) (*usecase.InboxEntry, error) {
	args := m.Called(ctx, session, input)
	entry, _ := args.Get(0).(*usecase.InboxEntry)
	return entry, args.Error(1)
}

func (m *MockChatService) Inbox(ctx context.Context, session entity.Session) ([]*usecase.InboxEntry, error) {
	args := m.Called(ctx, session)
	entries, _ := args.Get(0).([]*usecase.InboxEntry)
	return entries, args.Error(1)
}

func (m *MockChatService) ListMessages(ctx context.Context, session entity.Session, channelID string, limit int) ([]*entity.Message, error) {
	args := m.Called(ctx, session, channelID, limit)
	messages, _ := args.Get(0).([]*entity.Message)
	return messages, args.Error(1)
}

func (m *MockChatService) SendMessage(ctx context.Context, session entity.Session, channelID, text string) (*entity.Message, error) {
	args := m.Called(ctx, session, channelID, text)
	message, _ := args.Get(0).(*entity.Message)
	return message, args.Error(1)
}

func (m *MockChatService) MarkSeen(ctx context.Context, session entity.Session, channelID string) error {
	return m.Called(ctx, session, channelID).Error(0)
}
