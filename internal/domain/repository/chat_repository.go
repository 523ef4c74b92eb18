package repository

import (
	"context"

	"mateswap/internal/domain/entity"
)

type ChatRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	// FindLegacyByProductAndParticipant finds chats created before ids were
	// derived from the (product, buyer) pair.
	FindLegacyByProductAndParticipant(ctx context.Context, productID, userID string) (*entity.Chat, error)
	// EnsureConversation atomically creates the chat, its initial message
	// mirror and both chat-list entries, or fills in whatever is missing.
	EnsureConversation(ctx context.Context, conv *entity.Conversation) (*entity.EnsureResult, error)
	// GetStoredMessage reads the Firestore mirror of a message, used to
	// replay the initial message into the realtime store unchanged.
	GetStoredMessage(ctx context.Context, chatID, messageID string) (*entity.Message, error)
	UpdateLastMessage(ctx context.Context, chatID string, last *entity.LastMessage) error
	SetAdminJoined(ctx context.Context, chatID string, joined bool) error
	IncrementUnread(ctx context.Context, chatID string, userIDs []string) error

	ListEntries(ctx context.Context, userID string, limit, offset int) ([]*entity.ChatListEntry, int64, error)
	TouchEntry(ctx context.Context, userID, chatID, text string, timestamp int64, incrementUnread bool) error
	MarkRead(ctx context.Context, chatID, userID string) error
}

// MessageStore is the realtime message tree messages/{chatId}/{messageId}.
type MessageStore interface {
	List(ctx context.Context, chatID string) ([]*entity.Message, error)
	Get(ctx context.Context, chatID, messageID string) (*entity.Message, error)
	// Put writes the message at message.ID, or at a generated key when ID
	// is empty. The final id is stored back on the message.
	Put(ctx context.Context, message *entity.Message) error
}

type AdminRequestStore interface {
	Create(ctx context.Context, request *entity.AdminRequest) error
	List(ctx context.Context, limit int) ([]*entity.AdminRequest, error)
}
