package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/redis/go-redis/v9"

	"mateswap/pkg/logger"
)

const ChatUpdatesChannel = "chat:updates"

// ChatUpdate tells subscribers that the message list of a chat changed.
type ChatUpdate struct {
	ChatID string `json:"chat_id"`
}

// Notifier fans chat updates out to every API instance through Redis. With
// no Redis client it delivers to subscribers of this process only.
type Notifier struct {
	rdb *redis.Client

	mu    sync.RWMutex
	local []func(chatID string)
}

func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

func (n *Notifier) PublishChatUpdated(ctx context.Context, chatID string) error {
	if n.rdb == nil {
		n.mu.RLock()
		handlers := append([]func(string){}, n.local...)
		n.mu.RUnlock()
		for _, h := range handlers {
			safeCall(h, chatID)
		}
		return nil
	}

	payload, err := json.Marshal(ChatUpdate{ChatID: chatID})
	if err != nil {
		return fmt.Errorf("marshal chat update: %w", err)
	}
	return n.rdb.Publish(ctx, ChatUpdatesChannel, payload).Err()
}

// StartChatSubscriber calls onUpdate for every published chat update until
// ctx is cancelled.
func (n *Notifier) StartChatSubscriber(ctx context.Context, onUpdate func(chatID string)) error {
	if n.rdb == nil {
		n.mu.Lock()
		n.local = append(n.local, onUpdate)
		n.mu.Unlock()
		return nil
	}

	sub := n.rdb.Subscribe(ctx, ChatUpdatesChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("subscribe %s: %w", ChatUpdatesChannel, err)
	}
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var update ChatUpdate
				if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil || update.ChatID == "" {
					logger.Warn("Notifier: dropping malformed chat update %q", msg.Payload)
					continue
				}
				safeCall(onUpdate, update.ChatID)
			}
		}
	}()

	return nil
}

func safeCall(fn func(string), chatID string) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("PANIC in chat update handler: %v\n%s", r, debug.Stack())
		}
	}()
	fn(chatID)
}
