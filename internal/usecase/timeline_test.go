package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/entity"
	"github.com/Hemanthreddy0321/rural-animal-marketplace/internal/domain/repository"
)

func msg(id string, at time.Time) *entity.Message {
	return &entity.Message{ID: id, ChannelID: "ch", Text: id, CreatedAt: at}
}

func ids(messages []*entity.Message) []string {
	out := make([]string, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.ID)
	}
	return out
}

func TestTimelineReplacesOnEverySnapshot(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tl := NewTimeline("ch")

	changed := tl.Apply(repository.MessageSnapshot{
		ChannelID: "ch",
		Messages:  []*entity.Message{msg("b", base.Add(2*time.Second)), msg("a", base.Add(time.Second))},
		ReadAt:    base.Add(3 * time.Second),
	})
	assert.True(t, changed)
	assert.Equal(t, []string{"a", "b"}, ids(tl.Messages()))

	// A replayed snapshot with a duplicate and out-of-order delivery.
	changed = tl.Apply(repository.MessageSnapshot{
		ChannelID: "ch",
		Messages: []*entity.Message{
			msg("c", base.Add(4*time.Second)),
			msg("a", base.Add(time.Second)),
			msg("b", base.Add(2*time.Second)),
			msg("a", base.Add(time.Second)),
		},
		ReadAt: base.Add(5 * time.Second),
	})
	assert.True(t, changed)
	assert.Equal(t, []string{"a", "b", "c"}, ids(tl.Messages()))
	assert.Equal(t, "c", tl.Last().ID)

	changed = tl.Apply(repository.MessageSnapshot{
		ChannelID: "ch",
		Messages:  []*entity.Message{msg("a", base.Add(time.Second)), msg("b", base.Add(2*time.Second)), msg("c", base.Add(4*time.Second))},
		ReadAt:    base.Add(6 * time.Second),
	})
	assert.False(t, changed, "same ids is not a change")
}

func TestTimelineIgnoresStaleAndForeignSnapshots(t *testing.T) {
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	tl := NewTimeline("ch")

	tl.Apply(repository.MessageSnapshot{ChannelID: "ch", Messages: []*entity.Message{msg("a", base), msg("b", base.Add(time.Second))}, ReadAt: base.Add(10 * time.Second)})

	assert.False(t, tl.Apply(repository.MessageSnapshot{ChannelID: "ch", Messages: []*entity.Message{msg("a", base)}, ReadAt: base.Add(5 * time.Second)}))
	assert.False(t, tl.Apply(repository.MessageSnapshot{ChannelID: "other", Messages: nil, ReadAt: base.Add(20 * time.Second)}))
	assert.Equal(t, []string{"a", "b"}, ids(tl.Messages()))
}

func TestTimelineMessagesIsACopy(t *testing.T) {
	tl := NewTimeline("ch")
	assert.Nil(t, tl.Last())

	tl.Apply(repository.MessageSnapshot{ChannelID: "ch", Messages: []*entity.Message{msg("a", time.Now())}})
	view := tl.Messages()
	view[0] = nil
	assert.Equal(t, "a", tl.Messages()[0].ID)
}

func TestTimelineFollowsLiveChannel(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	acceptedRequest(t, f)

	entry, err := f.chats.OpenChannel(ctx, buyerSession, OpenChannelInput{ListingID: listingID})
	require.NoError(t, err)

	sub, err := f.chats.SubscribeMessages(ctx, buyerSession, entry.ID)
	require.NoError(t, err)
	defer sub.Close()

	tl := NewTimeline(entry.ID)
	views := make(chan []*entity.Message, 16)
	done := make(chan error, 1)
	go func() {
		done <- tl.Follow(ctx, sub, func(m []*entity.Message) { views <- m })
	}()

	for _, text := range []string{"one", "two", "three"} {
		_, err := f.chats.SendMessage(ctx, buyerSession, entry.ID, text)
		require.NoError(t, err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case view := <-views:
			for i := 1; i < len(view); i++ {
				assert.False(t, view[i].CreatedAt.Before(view[i-1].CreatedAt))
			}
			if len(view) == 3 {
				assert.Equal(t, "three", view[2].Text)
				cancel()
				assert.NoError(t, <-done)
				return
			}
		case <-deadline:
			t.Fatal("timeline never saw all three messages")
		}
	}
}
