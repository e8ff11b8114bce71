package entity

import (
	"sort"
	"time"
)

// Message is one immutable entry in a channel's log.
type Message struct {
	ID        string    `json:"id" firestore:"-"`
	ChannelID string    `json:"channel_id" firestore:"channelId"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	Text      string    `json:"text" firestore:"text"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
}

// SortMessages orders messages by creation time, breaking ties on id, and
// drops repeated ids keeping the first occurrence after sorting.
func SortMessages(messages []*Message) []*Message {
	out := make([]*Message, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	sorted := make([]*Message, 0, len(messages))
	for _, m := range messages {
		if m != nil {
			sorted = append(sorted, m)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	for _, m := range sorted {
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}
