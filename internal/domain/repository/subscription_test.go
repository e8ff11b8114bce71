package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriptionDeliversLatest(t *testing.T) {
	produced := make(chan struct{})
	sub := NewSubscription[int](context.Background(), func(ctx context.Context, emit func(int) bool) error {
		for i := 1; i <= 5; i++ {
			emit(i)
		}
		close(produced)
		<-ctx.Done()
		return nil
	})
	defer sub.Close()

	<-produced
	select {
	case v := <-sub.C:
		assert.Equal(t, 5, v)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestSubscriptionCloseStopsPump(t *testing.T) {
	stopped := make(chan struct{})
	sub := NewSubscription[string](context.Background(), func(ctx context.Context, emit func(string) bool) error {
		defer close(stopped)
		emit("first")
		<-ctx.Done()
		return ctx.Err()
	})

	sub.Close()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("pump still running after Close")
	}
	assert.NoError(t, sub.Err())

	// The channel is closed after the pump exits.
	for range sub.C {
	}
}

func TestSubscriptionReportsPumpError(t *testing.T) {
	boom := errors.New("listener failed")
	sub := NewSubscription[int](context.Background(), func(ctx context.Context, emit func(int) bool) error {
		return boom
	})

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("pump did not exit")
	}
	require.ErrorIs(t, sub.Err(), boom)
	_, open := <-sub.C
	assert.False(t, open)
	sub.Close()
}

func TestSubscriptionsAreIndependent(t *testing.T) {
	pump := func(ctx context.Context, emit func(int) bool) error {
		emit(1)
		<-ctx.Done()
		return nil
	}
	first := NewSubscription[int](context.Background(), pump)
	first.Close()

	second := NewSubscription[int](context.Background(), pump)
	defer second.Close()

	select {
	case v, ok := <-second.C:
		assert.True(t, ok)
		assert.Equal(t, 1, v)
	case <-time.After(time.Second):
		t.Fatal("second subscription got nothing")
	}
}
