package notifications

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierLocalDelivery(t *testing.T) {
	n := NewNotifier(nil)

	var got []string
	require.NoError(t, n.StartChatSubscriber(context.Background(), func(chatID string) {
		got = append(got, chatID)
	}))

	require.NoError(t, n.PublishChatUpdated(context.Background(), "chat-1"))
	require.NoError(t, n.PublishChatUpdated(context.Background(), "chat-2"))

	assert.Equal(t, []string{"chat-1", "chat-2"}, got)
}

func TestNotifierLocalDeliverySurvivesPanics(t *testing.T) {
	n := NewNotifier(nil)
	var calls int32
	require.NoError(t, n.StartChatSubscriber(context.Background(), func(string) { panic("boom") }))
	require.NoError(t, n.StartChatSubscriber(context.Background(), func(string) { atomic.AddInt32(&calls, 1) }))

	assert.NotPanics(t, func() {
		_ = n.PublishChatUpdated(context.Background(), "chat-1")
	})
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestNotifierRedisFanOut(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan string, 4)
	require.NoError(t, n.StartChatSubscriber(ctx, func(chatID string) {
		updates <- chatID
	}))

	// a second instance publishing on the same Redis
	other := NewNotifier(rdb)
	require.NoError(t, other.PublishChatUpdated(context.Background(), "chat-9"))

	select {
	case chatID := <-updates:
		assert.Equal(t, "chat-9", chatID)
	case <-time.After(time.Second):
		t.Fatal("chat update not delivered")
	}
}

func TestNotifierIgnoresMalformedPayloads(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() { _ = rdb.Close() }()

	n := NewNotifier(rdb)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan string, 4)
	require.NoError(t, n.StartChatSubscriber(ctx, func(chatID string) { updates <- chatID }))

	require.NoError(t, rdb.Publish(context.Background(), ChatUpdatesChannel, "not json").Err())
	require.NoError(t, n.PublishChatUpdated(context.Background(), "chat-1"))

	select {
	case chatID := <-updates:
		assert.Equal(t, "chat-1", chatID)
	case <-time.After(time.Second):
		t.Fatal("chat update not delivered")
	}
}
