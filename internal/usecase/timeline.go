package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/repository"
)

// Timeline is a consumer-side view of one channel's messages. Every snapshot
// replaces the view wholesale, so replays and reconnects never duplicate or
// reorder entries.
type Timeline struct {
	channelID string

	mu       sync.RWMutex
	messages []*entity.Message
	readAt   time.Time
}

func NewTimeline(channelID string) *Timeline {
	return &Timeline{channelID: channelID}
}

// Apply installs snap and reports whether the view changed. Snapshots for
// other channels or older than the current one are ignored.
func (t *Timeline) Apply(snap repository.MessageSnapshot) bool {
	if snap.ChannelID != t.channelID {
		return false
	}

	messages := entity.SortMessages(snap.Messages)

	t.mu.Lock()
	defer t.mu.Unlock()

	if !snap.ReadAt.IsZero() && snap.ReadAt.Before(t.readAt) {
		return false
	}
	changed := !sameMessages(t.messages, messages)
	t.messages = messages
	t.readAt = snap.ReadAt
	return changed
}

// Messages returns a copy of the current view in display order.
func (t *Timeline) Messages() []*entity.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]*entity.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

func (t *Timeline) Last() *entity.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if len(t.messages) == 0 {
		return nil
	}
	return t.messages[len(t.messages)-1]
}

// Follow applies every snapshot from sub and calls onChange with the new view
// whenever it differs. It returns when ctx ends or the subscription stops.
func (t *Timeline) Follow(ctx context.Context, sub *repository.Subscription[repository.MessageSnapshot], onChange func([]*entity.Message)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case snap, ok := <-sub.C:
			if !ok {
				return sub.Err()
			}
			if t.Apply(snap) {
				onChange(t.Messages())
			}
		}
	}
}

func sameMessages(a, b []*entity.Message) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID {
			return false
		}
	}
	return true
}
