package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/repository"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/service"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/infrastructure/ratelimit"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/errors"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/logger"
)

// History page bounds for ListMessages. HTTP handlers clamp ?limit= with
// these as well.
const (
	DefaultMessageLimit = 100
	MaxMessageLimit     = 500
)

const maxMessageLength = 2000

type ChatUseCase struct {
	chatRepo        repository.ChatRepository
	requestRepo     repository.RequestRepository
	listingRepo     repository.ListingRepository
	userRepo        repository.UserRepository
	rateLimiter     *ratelimit.RateLimiter
	markSeenTimeout time.Duration
	now             func() time.Time
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	requestRepo repository.RequestRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	rateLimiter *ratelimit.RateLimiter,
	markSeenTimeout time.Duration,
) *ChatUseCase {
	if markSeenTimeout <= 0 {
		markSeenTimeout = 3 * time.Second
	}
	return &ChatUseCase{
		chatRepo:        chatRepo,
		requestRepo:     requestRepo,
		listingRepo:     listingRepo,
		userRepo:        userRepo,
		rateLimiter:     rateLimiter,
		markSeenTimeout: markSeenTimeout,
		now:             time.Now,
	}
}

type OpenChannelInput struct {
	ListingID string `json:"listing_id" validate:"required"`
	// BuyerID defaults to the caller. Sellers must name the buyer.
	BuyerID string `json:"buyer_id"`
}

// InboxEntry is one channel as listed in a participant's inbox.
type InboxEntry struct {
	*entity.Channel
	AnimalName      string `json:"animal_name,omitempty"`
	Thumbnail       string `json:"thumbnail,omitempty"`
	CounterpartID   string `json:"counterpart_id"`
	CounterpartName string `json:"counterpart_name"`
	Unread          bool   `json:"unread"`
}

// OpenChannel returns the channel for a listing and buyer, creating it on
// first access. A new channel needs an accepted request; an existing one can
// always be reopened by its participants.
func (uc *ChatUseCase) OpenChannel(ctx context.Context, session entity.Session, input OpenChannelInput) (*InboxEntry, error) {
	if !session.Valid() {
		return nil, errors.Unauthorized("Missing session", nil)
	}

	listing, err := uc.listingRepo.GetByID(ctx, input.ListingID)
	if err != nil {
		return nil, err
	}

	buyerID := input.BuyerID
	if buyerID == "" {
		buyerID = session.UID
	}
	sellerID := listing.SellerID
	if buyerID == sellerID {
		return nil, errors.BadRequest("Buyer and seller must be different users", nil)
	}
	if session.UID != buyerID && session.UID != sellerID {
		return nil, errors.Forbidden("You are not a party to this conversation", nil)
	}

	channelID := entity.ChannelID(listing.ID, buyerID, sellerID)
	channel, err := uc.chatRepo.GetChannel(ctx, channelID)
	switch {
	case err == nil:
		uc.markSeen(ctx, channel.ID, session.UID)
		if channel.SeenBy == nil {
			channel.SeenBy = map[string]bool{}
		}
		channel.SeenBy[session.UID] = true

	case errors.Is(err, errors.CodeNotFound):
		request, err := uc.requestRepo.FindOpen(ctx, listing.ID, buyerID)
		if err != nil {
			return nil, err
		}
		if !service.Visible(request) {
			return nil, errors.InvalidState("The contact request must be accepted before chatting")
		}

		var created bool
		channel, created, err = uc.chatRepo.GetOrCreateChannel(ctx, entity.NewChannel(listing.ID, buyerID, sellerID, session.UID, uc.now()))
		if err != nil {
			logger.Error("OpenChannel Error: %v", err)
			return nil, err
		}
		if created {
			logger.Info("Channel %s created by %s", channel.ID, session.UID)
		} else if channel.Unread(session.UID) {
			// Lost the creation race to the other party.
			uc.markSeen(ctx, channel.ID, session.UID)
			channel.SeenBy[session.UID] = true
		}

	default:
		return nil, err
	}

	return uc.entry(ctx, session.UID, channel, map[string]*entity.Listing{listing.ID: listing}, map[string]*entity.User{})
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, session entity.Session, channelID, text string) (*entity.Message, error) {
	if !session.Valid() {
		return nil, errors.Unauthorized("Missing session", nil)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.EmptyMessage()
	}
	if len([]rune(text)) > maxMessageLength {
		return nil, errors.BadRequest(fmt.Sprintf("Message must be at most %d characters", maxMessageLength), nil)
	}

	// Outsiders and missing channels are turned away before they can spend
	// send tokens. AppendMessage re-checks membership atomically.
	if _, err := uc.participantChannel(ctx, session, channelID); err != nil {
		return nil, err
	}

	if uc.rateLimiter != nil {
		if allowed, wait := uc.rateLimiter.Allow(session.UID, ratelimit.ActionSendMessage); !allowed {
			logger.Warn("SendMessage Rate Limited: user %s must wait %v", session.UID, wait)
			return nil, errors.TooManyRequests(fmt.Sprintf("Sending too fast. Try again in %d seconds", int(wait.Seconds())+1))
		}
	}

	message := &entity.Message{
		ChannelID: channelID,
		SenderID:  session.UID,
		Text:      text,
	}
	if _, err := uc.chatRepo.AppendMessage(ctx, message); err != nil {
		logger.Error("SendMessage Error: channel=%s sender=%s: %v", channelID, session.UID, err)
		return nil, err
	}
	return message, nil
}

// MarkSeen records that the caller has seen the channel. Store hiccups are
// logged and dropped; only a missing channel or an outsider is an error.
func (uc *ChatUseCase) MarkSeen(ctx context.Context, session entity.Session, channelID string) error {
	if !session.Valid() {
		return errors.Unauthorized("Missing session", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.markSeenTimeout)
	defer cancel()

	channel, err := uc.chatRepo.GetChannel(ctx, channelID)
	if err != nil {
		if errors.IsTransient(err) {
			logger.LogSwallowed("mark_seen", channelID, err)
			return nil
		}
		return err
	}
	if !channel.HasParticipant(session.UID) {
		return errors.Forbidden("You are not a participant in this chat", nil)
	}

	uc.markSeen(ctx, channelID, session.UID)
	return nil
}

func (uc *ChatUseCase) markSeen(ctx context.Context, channelID, uid string) {
	ctx, cancel := context.WithTimeout(ctx, uc.markSeenTimeout)
	defer cancel()

	if err := uc.chatRepo.MarkSeen(ctx, channelID, uid); err != nil {
		logger.LogSwallowed("mark_seen", channelID, err)
	}
}

func (uc *ChatUseCase) ListMessages(ctx context.Context, session entity.Session, channelID string, limit int) ([]*entity.Message, error) {
	if _, err := uc.participantChannel(ctx, session, channelID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultMessageLimit
	}
	if limit > MaxMessageLimit {
		limit = MaxMessageLimit
	}
	return uc.chatRepo.ListMessages(ctx, channelID, limit)
}

// SubscribeMessages streams full message snapshots of a channel the caller
// participates in.
func (uc *ChatUseCase) SubscribeMessages(ctx context.Context, session entity.Session, channelID string) (*repository.Subscription[repository.MessageSnapshot], error) {
	if _, err := uc.participantChannel(ctx, session, channelID); err != nil {
		return nil, err
	}
	return uc.chatRepo.SubscribeMessages(ctx, channelID), nil
}

func (uc *ChatUseCase) participantChannel(ctx context.Context, session entity.Session, channelID string) (*entity.Channel, error) {
	if !session.Valid() {
		return nil, errors.Unauthorized("Missing session", nil)
	}
	channel, err := uc.chatRepo.GetChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if !channel.HasParticipant(session.UID) {
		return nil, errors.Forbidden("You are not a participant in this chat", nil)
	}
	return channel, nil
}

// Inbox lists the caller's channels, most recently active first.
func (uc *ChatUseCase) Inbox(ctx context.Context, session entity.Session) ([]*InboxEntry, error) {
	if !session.Valid() {
		return nil, errors.Unauthorized("Missing session", nil)
	}

	channels, err := uc.chatRepo.ListChannelsByParticipant(ctx, session.UID)
	if err != nil {
		return nil, err
	}
	return uc.entries(ctx, session.UID, channels, map[string]*entity.Listing{}, map[string]*entity.User{})
}

// SubscribeInbox streams the caller's inbox, re-enriched on every change.
func (uc *ChatUseCase) SubscribeInbox(ctx context.Context, session entity.Session) (*repository.Subscription[[]*InboxEntry], error) {
	if !session.Valid() {
		return nil, errors.Unauthorized("Missing session", nil)
	}

	inner := uc.chatRepo.SubscribeChannels(ctx, session.UID)
	return repository.NewSubscription[[]*InboxEntry](ctx, func(ctx context.Context, emit func([]*InboxEntry) bool) error {
		defer inner.Close()

		// Listings and profiles rarely change while a socket is open.
		listings := map[string]*entity.Listing{}
		users := map[string]*entity.User{}

		for {
			select {
			case <-ctx.Done():
				return nil
			case snap, ok := <-inner.C:
				if !ok {
					return inner.Err()
				}
				entries, err := uc.entries(ctx, session.UID, snap.Channels, listings, users)
				if err != nil {
					return err
				}
				if !emit(entries) {
					return nil
				}
			}
		}
	}), nil
}

func (uc *ChatUseCase) entries(ctx context.Context, uid string, channels []*entity.Channel, listings map[string]*entity.Listing, users map[string]*entity.User) ([]*InboxEntry, error) {
	out := make([]*InboxEntry, 0, len(channels))
	for _, ch := range channels {
		entry, err := uc.entry(ctx, uid, ch, listings, users)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func (uc *ChatUseCase) entry(ctx context.Context, uid string, channel *entity.Channel, listings map[string]*entity.Listing, users map[string]*entity.User) (*InboxEntry, error) {
	entry := &InboxEntry{
		Channel:       channel,
		CounterpartID: channel.Counterpart(uid),
		Unread:        channel.Unread(uid),
	}

	// Enrichment is cosmetic: a transient lookup failure falls back to bare
	// names and is not cached, so the next snapshot retries it.
	listing, ok := listings[channel.ListingID]
	if !ok {
		l, err := uc.listingRepo.GetByID(ctx, channel.ListingID)
		switch {
		case err == nil || errors.Is(err, errors.CodeNotFound):
			listings[channel.ListingID] = l
		case errors.IsTransient(err):
			logger.LogSwallowed("inbox_listing", channel.ListingID, err)
		default:
			return nil, err
		}
		listing = l
	}
	if listing != nil {
		entry.AnimalName = listing.AnimalName
		entry.Thumbnail = listing.Thumbnail()
	}

	fallback := "Buyer"
	if entry.CounterpartID == channel.SellerID {
		fallback = "Seller"
	}
	other, ok := users[entry.CounterpartID]
	if !ok {
		u, err := uc.userRepo.GetByID(ctx, entry.CounterpartID)
		switch {
		case err == nil || errors.Is(err, errors.CodeNotFound):
			users[entry.CounterpartID] = u
		case errors.IsTransient(err):
			logger.LogSwallowed("inbox_profile", entry.CounterpartID, err)
		default:
			return nil, err
		}
		other = u
	}
	entry.CounterpartName = other.DisplayName(fallback)

	return entry, nil
}
