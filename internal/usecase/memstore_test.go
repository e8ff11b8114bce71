package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/repository"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/pkg/errors"
)

// memStore is an in-memory document store with the same conditional-write
// semantics as the Firestore repositories. Each repository interface is served
// by a thin view over the shared state.
type memStore struct {
	mu       sync.Mutex
	users    map[string]*entity.User
	listings map[string]*entity.Listing
	requests map[string]*entity.Request
	channels map[string]*entity.Channel
	messages map[string][]*entity.Message

	channelCreates int
	seq            int
	clock          time.Time

	// afterRequestRead, when set, runs after every request point read.
	afterRequestRead func()

	watchers map[int]chan struct{}
	nextSub  int
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*entity.User{},
		listings: map[string]*entity.Listing{},
		requests: map[string]*entity.Request{},
		channels: map[string]*entity.Channel{},
		messages: map[string][]*entity.Message{},
		clock:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		watchers: map[int]chan struct{}{},
	}
}

func (s *memStore) Users() repository.UserRepository       { return memUsers{s} }
func (s *memStore) Listings() repository.ListingRepository { return memListings{s} }
func (s *memStore) Requests() repository.RequestRepository { return memRequests{s} }
func (s *memStore) Chats() repository.ChatRepository       { return memChats{s} }

// tick advances the fake clock. Callers hold s.mu.
func (s *memStore) tick() time.Time {
	s.clock = s.clock.Add(time.Millisecond)
	return s.clock
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%03d", prefix, s.seq)
}

// notify wakes every live subscription. Callers hold s.mu.
func (s *memStore) notify() {
	for _, w := range s.watchers {
		select {
		case w <- struct{}{}:
		default:
		}
	}
}

func (s *memStore) watch() (int, <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	ch := make(chan struct{}, 1)
	s.watchers[s.nextSub] = ch
	return s.nextSub, ch
}

func (s *memStore) unwatch(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watchers, id)
}

func (s *memStore) addListing(l *entity.Listing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *l
	s.listings[l.ID] = &cp
}

func (s *memStore) addUser(u *entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
}

func (s *memStore) channelCount() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.channels), s.channelCreates
}

func copyChannel(c *entity.Channel) *entity.Channel {
	cp := *c
	cp.Participants = append([]string(nil), c.Participants...)
	cp.SeenBy = make(map[string]bool, len(c.SeenBy))
	for k, v := range c.SeenBy {
		cp.SeenBy[k] = v
	}
	return &cp
}

type memUsers struct{ *memStore }

func (r memUsers) CreateIfAbsent(ctx context.Context, user *entity.User) (*entity.User, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.users[user.ID]; ok {
		cp := *existing
		return &cp, false, nil
	}
	user.CreatedAt = r.tick()
	cp := *user
	r.users[user.ID] = &cp
	return user, true, nil
}

func (r memUsers) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) UpdateProfile(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[user.ID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	u.Name, u.Address, u.District = user.Name, user.Address, user.District
	u.UpdatedAt = r.tick()
	return nil
}

type memListings struct{ *memStore }

func (r memListings) Create(ctx context.Context, listing *entity.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if listing.ID == "" {
		listing.ID = r.nextID("listing")
	}
	listing.CreatedAt = r.tick()
	cp := *listing
	r.listings[listing.ID] = &cp
	return nil
}

func (r memListings) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	cp := *l
	return &cp, nil
}

func (r memListings) ListActive(ctx context.Context, filter repository.ListingFilter, limit, offset int) ([]*entity.Listing, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Listing
	for _, l := range r.listings {
		if l.IsActive && filter.Matches(l) {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	if offset >= len(out) {
		return []*entity.Listing{}, total, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (r memListings) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Listing, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Listing
	for _, l := range r.listings {
		if l.SellerID == sellerID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memListings) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.listings[id]
	if !ok {
		return errors.NotFound("Listing", nil)
	}
	l.IsActive = active
	return nil
}

type memRequests struct{ *memStore }

func (r memRequests) Create(ctx context.Context, request *entity.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.requests {
		if existing.ListingID == request.ListingID && existing.BuyerID == request.BuyerID && existing.Status.IsOpen() {
			return errors.InvalidState("A " + string(existing.Status) + " request already exists for this listing")
		}
	}
	request.ID = r.nextID("req")
	request.Status = entity.RequestPending
	request.CreatedAt = r.tick()
	request.UpdatedAt = request.CreatedAt
	cp := *request
	r.requests[request.ID] = &cp
	return nil
}

func (r memRequests) GetByID(ctx context.Context, id string) (*entity.Request, error) {
	r.mu.Lock()
	req, ok := r.requests[id]
	var cp entity.Request
	if ok {
		cp = *req
	}
	hook := r.afterRequestRead
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	if !ok {
		return nil, errors.NotFound("Request", nil)
	}
	return &cp, nil
}

func (r memRequests) forPair(listingID, buyerID string) []*entity.Request {
	var out []*entity.Request
	for _, req := range r.requests {
		if req.ListingID == listingID && req.BuyerID == buyerID {
			cp := *req
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r memRequests) FindOpen(ctx context.Context, listingID, buyerID string) (*entity.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, req := range r.forPair(listingID, buyerID) {
		if req.Status.IsOpen() {
			return req, nil
		}
	}
	return nil, nil
}

func (r memRequests) FindLatest(ctx context.Context, listingID, buyerID string) (*entity.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if reqs := r.forPair(listingID, buyerID); len(reqs) > 0 {
		return reqs[0], nil
	}
	return nil, nil
}

func (r memRequests) list(match func(*entity.Request) bool) []*entity.Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entity.Request
	for _, req := range r.requests {
		if match(req) {
			cp := *req
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r memRequests) ListByBuyerID(ctx context.Context, buyerID string) ([]*entity.Request, error) {
	return r.list(func(req *entity.Request) bool { return req.BuyerID == buyerID }), nil
}

func (r memRequests) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Request, error) {
	return r.list(func(req *entity.Request) bool { return req.SellerID == sellerID }), nil
}

func (r memRequests) Transition(ctx context.Context, id string, from, to entity.RequestStatus) (*entity.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, errors.Conflict("Request was deleted concurrently", nil)
	}
	if req.Status != from {
		return nil, errors.Conflict("Request was updated concurrently", nil)
	}
	req.Status = to
	req.UpdatedAt = r.tick()
	cp := *req
	return &cp, nil
}

func (r memRequests) Delete(ctx context.Context, id string, from entity.RequestStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok || req.Status != from {
		return errors.Conflict("Request was updated concurrently", nil)
	}
	delete(r.requests, id)
	return nil
}

type memChats struct{ *memStore }

func (r memChats) GetOrCreateChannel(ctx context.Context, channel *entity.Channel) (*entity.Channel, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.channels[channel.ID]; ok {
		return copyChannel(existing), false, nil
	}
	r.channels[channel.ID] = copyChannel(channel)
	r.channelCreates++
	r.notify()
	return copyChannel(channel), true, nil
}

func (r memChats) GetChannel(ctx context.Context, id string) (*entity.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.channels[id]
	if !ok {
		return nil, errors.NotFound("Channel", nil)
	}
	return copyChannel(ch), nil
}

func (r memChats) participantChannels(userID string) []*entity.Channel {
	var out []*entity.Channel
	for _, ch := range r.channels {
		if ch.HasParticipant(userID) {
			out = append(out, copyChannel(ch))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastUpdated.After(out[j].LastUpdated) })
	return out
}

func (r memChats) ListChannelsByParticipant(ctx context.Context, userID string) ([]*entity.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.participantChannels(userID), nil
}

func (r memChats) AppendMessage(ctx context.Context, message *entity.Message) (*entity.Channel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.channels[message.ChannelID]
	if !ok {
		return nil, errors.NotFound("Channel", nil)
	}
	if !ch.HasParticipant(message.SenderID) {
		return nil, errors.Forbidden("You are not a participant in this chat", nil)
	}
	message.ID = r.nextID("msg")
	message.CreatedAt = r.tick()
	cp := *message
	r.messages[ch.ID] = append(r.messages[ch.ID], &cp)

	ch.LastMessage = message.Text
	ch.LastUpdated = message.CreatedAt
	ch.SeenBy[message.SenderID] = true
	ch.SeenBy[ch.Counterpart(message.SenderID)] = false
	r.notify()
	return copyChannel(ch), nil
}

func (r memChats) ListMessages(ctx context.Context, channelID string, limit int) ([]*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.messages[channelID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return entity.SortMessages(msgs), nil
}

func (r memChats) MarkSeen(ctx context.Context, channelID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch, ok := r.channels[channelID]
	if !ok {
		return errors.NotFound("Channel", nil)
	}
	ch.SeenBy[userID] = true
	r.notify()
	return nil
}

func (r memChats) SubscribeMessages(ctx context.Context, channelID string) *repository.Subscription[repository.MessageSnapshot] {
	return repository.NewSubscription[repository.MessageSnapshot](ctx, func(ctx context.Context, emit func(repository.MessageSnapshot) bool) error {
		id, wake := r.watch()
		defer r.unwatch(id)
		for {
			r.mu.Lock()
			snap := repository.MessageSnapshot{
				ChannelID: channelID,
				Messages:  entity.SortMessages(r.messages[channelID]),
				ReadAt:    r.clock,
			}
			r.mu.Unlock()
			if !emit(snap) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			case <-wake:
			}
		}
	})
}

func (r memChats) SubscribeChannels(ctx context.Context, userID string) *repository.Subscription[repository.ChannelSnapshot] {
	return repository.NewSubscription[repository.ChannelSnapshot](ctx, func(ctx context.Context, emit func(repository.ChannelSnapshot) bool) error {
		id, wake := r.watch()
		defer r.unwatch(id)
		for {
			r.mu.Lock()
			snap := repository.ChannelSnapshot{
				UserID:   userID,
				Channels: r.participantChannels(userID),
				ReadAt:   r.clock,
			}
			r.mu.Unlock()
			if !emit(snap) {
				return nil
			}
			select {
			case <-ctx.Done():
				return nil
			case <-wake:
			}
		}
	})
}
