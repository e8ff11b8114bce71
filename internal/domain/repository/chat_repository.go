package repository

import (
	"context"
	"time"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
)

// MessageSnapshot is the full ordered message list of a channel at one point
// in time. Consumers replace their view with it; it is never a delta.
type MessageSnapshot struct {
	ChannelID string            `json:"channel_id"`
	Messages  []*entity.Message `json:"messages"`
	ReadAt    time.Time         `json:"read_at"`
}

// ChannelSnapshot is the full set of channels a user participates in.
type ChannelSnapshot struct {
	UserID   string            `json:"user_id"`
	Channels []*entity.Channel `json:"channels"`
	ReadAt   time.Time         `json:"read_at"`
}

type ChatRepository interface {
	// GetOrCreateChannel creates the channel keyed by channel.ID unless it
	// already exists. Concurrent callers converge on a single record; created
	// reports whether this call wrote it.
	GetOrCreateChannel(ctx context.Context, channel *entity.Channel) (stored *entity.Channel, created bool, err error)
	GetChannel(ctx context.Context, id string) (*entity.Channel, error)
	ListChannelsByParticipant(ctx context.Context, userID string) ([]*entity.Channel, error)

	// AppendMessage writes the message and the channel summary (last message,
	// last updated, seen flags) in one atomic step. message.ID and
	// message.CreatedAt are assigned by the repository.
	AppendMessage(ctx context.Context, message *entity.Message) (*entity.Channel, error)
	ListMessages(ctx context.Context, channelID string, limit int) ([]*entity.Message, error)
	MarkSeen(ctx context.Context, channelID, userID string) error

	SubscribeMessages(ctx context.Context, channelID string) *Subscription[MessageSnapshot]
	SubscribeChannels(ctx context.Context, userID string) *Subscription[ChannelSnapshot]
}
