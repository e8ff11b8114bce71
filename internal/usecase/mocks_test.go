package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/repository"
)

type MockChatRepository struct {
	mock.Mock
}

func (m *MockChatRepository) GetOrCreateChannel(ctx context.Context, channel *entity.Channel) (*entity.Channel, bool, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*entity.Channel), args.Bool(1), args.Error(2)
}

func (m *MockChatRepository) GetChannel(ctx context.Context, id string) (*entity.Channel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Channel), args.Error(1)
}

func (m *MockChatRepository) ListChannelsByParticipant(ctx context.Context, userID string) ([]*entity.Channel, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Channel), args.Error(1)
}

func (m *MockChatRepository) AppendMessage(ctx context.Context, message *entity.Message) (*entity.Channel, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Channel), args.Error(1)
}

func (m *MockChatRepository) ListMessages(ctx context.Context, channelID string, limit int) ([]*entity.Message, error) {
	args := m.Called(ctx, channelID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Message), args.Error(1)
}

func (m *MockChatRepository) MarkSeen(ctx context.Context, channelID, userID string) error {
	args := m.Called(ctx, channelID, userID)
	return args.Error(0)
}

func (m *MockChatRepository) SubscribeMessages(ctx context.Context, channelID string) *repository.Subscription[repository.MessageSnapshot] {
	args := m.Called(ctx, channelID)
	return args.Get(0).(*repository.Subscription[repository.MessageSnapshot])
}

func (m *MockChatRepository) SubscribeChannels(ctx context.Context, userID string) *repository.Subscription[repository.ChannelSnapshot] {
	args := m.Called(ctx, userID)
	return args.Get(0).(*repository.Subscription[repository.ChannelSnapshot])
}

type MockMediaStore struct {
	mock.Mock
}

func (m *MockMediaStore) SignedUploadURL(ctx context.Context, ownerID string, kind MediaKind, contentType string) (*UploadTarget, error) {
	args := m.Called(ctx, ownerID, kind, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*UploadTarget), args.Error(1)
}

func (m *MockMediaStore) Exists(ctx context.Context, url string) (bool, error) {
	args := m.Called(ctx, url)
	return args.Bool(0), args.Error(1)
}

func (m *MockMediaStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

type MockListingRepository struct {
	mock.Mock
}

func (m *MockListingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}

func (m *MockListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) ListActive(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Listing), args.Get(1).(int64), args.Error(2)
}

func (m *MockListingRepository) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Listing, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Listing), args.Error(1)
}

func (m *MockListingRepository) SetActive(ctx context.Context, id string, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}
