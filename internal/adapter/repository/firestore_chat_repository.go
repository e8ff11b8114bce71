package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/repository"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/errors"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/logger"
)

// Firestore stores timestamps with microsecond precision.
const messageTick = time.Microsecond

type firestoreChatRepository struct {
	store
}

func NewFirestoreChatRepository(client *firestore.Client, timeout time.Duration) repository.ChatRepository {
	return &firestoreChatRepository{
		store: newStore(client, timeout),
	}
}

func setChannelID(c *entity.Channel, id string) { c.ID = id }
func setMessageID(m *entity.Message, id string) { m.ID = id }

func (r *firestoreChatRepository) channels() *firestore.CollectionRef {
	return r.client.Collection(chatsCollection)
}

func (r *firestoreChatRepository) messages(channelID string) *firestore.CollectionRef {
	return r.channels().Doc(channelID).Collection(messagesCollection)
}

func (r *firestoreChatRepository) GetOrCreateChannel(ctx context.Context, channel *entity.Channel) (*entity.Channel, bool, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	_, err := r.channels().Doc(channel.ID).Create(ctx, channel)
	if err == nil {
		return channel, true, nil
	}
	if status.Code(err) != codes.AlreadyExists {
		return nil, false, errors.FromStore("Failed to create channel", err)
	}

	existing, err := r.getChannel(ctx, channel.ID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *firestoreChatRepository) GetChannel(ctx context.Context, id string) (*entity.Channel, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	return r.getChannel(ctx, id)
}

func (r *firestoreChatRepository) getChannel(ctx context.Context, id string) (*entity.Channel, error) {
	doc, err := r.channels().Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, errors.NotFound("Channel", err)
		}
		return nil, errors.FromStore("Failed to get channel", err)
	}
	return decodeChannel(doc)
}

func decodeChannel(doc *firestore.DocumentSnapshot) (*entity.Channel, error) {
	var channel entity.Channel
	if err := doc.DataTo(&channel); err != nil {
		return nil, errors.Internal("Failed to parse channel data", err)
	}
	channel.ID = doc.Ref.ID
	return &channel, nil
}

func (r *firestoreChatRepository) ListChannelsByParticipant(ctx context.Context, userID string) ([]*entity.Channel, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	channels, err := decodeAll(r.participantQuery(userID).Documents(ctx), setChannelID)
	if err != nil {
		return nil, errors.FromStore("Failed to list channels", err)
	}
	sortChannels(channels)
	return channels, nil
}

func (r *firestoreChatRepository) participantQuery(userID string) firestore.Query {
	return r.channels().Where("participants", "array-contains", userID)
}

func (r *firestoreChatRepository) AppendMessage(ctx context.Context, message *entity.Message) (*entity.Channel, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	channelRef := r.channels().Doc(message.ChannelID)
	var updated *entity.Channel

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(channelRef)
		if err != nil {
			if isNotFound(err) {
				return errors.NotFound("Channel", err)
			}
			return err
		}

		channel, err := decodeChannel(doc)
		if err != nil {
			return err
		}
		if !channel.HasParticipant(message.SenderID) {
			return errors.Forbidden("You are not a participant in this chat", nil)
		}
		other := channel.Counterpart(message.SenderID)

		// createdAt must strictly increase within a channel even if clocks tie.
		createdAt := time.Now().Truncate(messageTick)
		if !createdAt.After(channel.LastUpdated) {
			createdAt = channel.LastUpdated.Truncate(messageTick).Add(messageTick)
		}

		message.ID = uuid.New().String()
		message.CreatedAt = createdAt
		if err := tx.Create(r.messages(channel.ID).Doc(message.ID), message); err != nil {
			return err
		}

		err = tx.Update(channelRef, []firestore.Update{
			{Path: "lastMessage", Value: message.Text},
			{Path: "lastUpdated", Value: createdAt},
			{FieldPath: firestore.FieldPath{"seenBy", message.SenderID}, Value: true},
			{FieldPath: firestore.FieldPath{"seenBy", other}, Value: false},
		})
		if err != nil {
			return err
		}

		channel.LastMessage = message.Text
		channel.LastUpdated = createdAt
		if channel.SeenBy == nil {
			channel.SeenBy = make(map[string]bool, 2)
		}
		channel.SeenBy[message.SenderID] = true
		channel.SeenBy[other] = false
		updated = channel
		return nil
	})
	if err != nil {
		return nil, errors.FromStore("Failed to send message", err)
	}
	return updated, nil
}

func (r *firestoreChatRepository) ListMessages(ctx context.Context, channelID string, limit int) ([]*entity.Message, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	query := r.messages(channelID).OrderBy("createdAt", firestore.Desc)
	if limit > 0 {
		query = query.Limit(limit)
	}

	messages, err := decodeAll(query.Documents(ctx), setMessageID)
	if err != nil {
		return nil, errors.FromStore("Failed to list messages", err)
	}
	return entity.SortMessages(messages), nil
}

func (r *firestoreChatRepository) MarkSeen(ctx context.Context, channelID, userID string) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	_, err := r.channels().Doc(channelID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"seenBy", userID}, Value: true},
	})
	if err != nil {
		if isNotFound(err) {
			return errors.NotFound("Channel", err)
		}
		return errors.FromStore("Failed to mark channel seen", err)
	}
	return nil
}

func (r *firestoreChatRepository) SubscribeMessages(ctx context.Context, channelID string) *repository.Subscription[repository.MessageSnapshot] {
	query := r.messages(channelID).OrderBy("createdAt", firestore.Asc)

	return repository.NewSubscription[repository.MessageSnapshot](ctx, func(ctx context.Context, emit func(repository.MessageSnapshot) bool) error {
		return listen(ctx, query, setMessageID, func(messages []*entity.Message, readAt time.Time) bool {
			return emit(repository.MessageSnapshot{
				ChannelID: channelID,
				Messages:  entity.SortMessages(messages),
				ReadAt:    readAt,
			})
		})
	})
}

func (r *firestoreChatRepository) SubscribeChannels(ctx context.Context, userID string) *repository.Subscription[repository.ChannelSnapshot] {
	query := r.participantQuery(userID)

	return repository.NewSubscription[repository.ChannelSnapshot](ctx, func(ctx context.Context, emit func(repository.ChannelSnapshot) bool) error {
		return listen(ctx, query, setChannelID, func(channels []*entity.Channel, readAt time.Time) bool {
			sortChannels(channels)
			return emit(repository.ChannelSnapshot{
				UserID:   userID,
				Channels: channels,
				ReadAt:   readAt,
			})
		})
	})
}

// listen runs a snapshot listener on query until ctx ends or emit refuses a
// snapshot. Every snapshot carries the full result set.
func listen[T any](ctx context.Context, query firestore.Query, setID func(*T, string), emit func([]*T, time.Time) bool) error {
	snapshots := query.Snapshots(ctx)
	defer snapshots.Stop()

	for {
		snap, err := snapshots.Next()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("Snapshot listener failed: %v", err)
			return errors.FromStore("Live updates interrupted", err)
		}

		items, err := decodeAll(snap.Documents, setID)
		if err != nil {
			return errors.FromStore("Failed to decode snapshot", err)
		}
		if !emit(items, snap.ReadTime) {
			return nil
		}
	}
}

func sortChannels(channels []*entity.Channel) {
	sort.SliceStable(channels, func(i, j int) bool {
		return channels[i].LastUpdated.After(channels[j].LastUpdated)
	})
}
