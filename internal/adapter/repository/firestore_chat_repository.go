package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mateswap/internal/domain/entity"
	"mateswap/internal/domain/repository"
	"mateswap/pkg/errors"
	"mateswap/pkg/logger"
	"mateswap/pkg/utils"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) chats() *firestore.CollectionRef {
	return r.client.Collection("chats")
}

func (r *firestoreChatRepository) entryRef(userID, chatID string) *firestore.DocumentRef {
	return r.client.Collection("users").Doc(userID).Collection("chatList").Doc(chatID)
}

// firestoreMessage is the mirror of a realtime message kept in chats/{id}/messages.
type firestoreMessage struct {
	Kind           string                     `firestore:"kind"`
	SenderID       string                     `firestore:"senderId"`
	SenderName     string                     `firestore:"senderName"`
	SenderPhotoURL string                     `firestore:"senderPhotoURL,omitempty"`
	Text           string                     `firestore:"text"`
	Timestamp      int64                      `firestore:"timestamp"`
	IsAdmin        bool                       `firestore:"isAdmin"`
	Transaction    *entity.TransactionPayload `firestore:"transaction,omitempty"`
}

func toFirestoreMessage(m *entity.Message) *firestoreMessage {
	return &firestoreMessage{
		Kind:           string(m.Kind),
		SenderID:       m.SenderID,
		SenderName:     m.SenderName,
		SenderPhotoURL: m.SenderPhotoURL,
		Text:           m.Text,
		Timestamp:      m.Timestamp,
		IsAdmin:        m.IsAdmin,
		Transaction:    m.Transaction,
	}
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.chats().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}

	return entity.DecodeChat(doc.Ref.ID, doc.Data()), nil
}

// GetStoredMessage reads the Firestore copy at chats/{chatId}/messages/{id}.
func (r *firestoreChatRepository) GetStoredMessage(ctx context.Context, chatID, messageID string) (*entity.Message, error) {
	doc, err := r.chats().Doc(chatID).Collection("messages").Doc(messageID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Message", err)
		}
		return nil, errors.Internal("Failed to get chat message", err)
	}

	return entity.DecodeMessage(doc.Ref.ID, chatID, doc.Data()), nil
}

func (r *firestoreChatRepository) FindLegacyByProductAndParticipant(ctx context.Context, productID, userID string) (*entity.Chat, error) {
	iter := r.chats().Where("productId", "==", productID).Documents(ctx)
	defer iter.Stop()

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to query chats by product", err)
		}

		chat := entity.DecodeChat(doc.Ref.ID, doc.Data())
		if chat.HasParticipant(userID) {
			return chat, nil
		}
	}

	return nil, errors.NotFound("Chat", nil)
}

// EnsureConversation reads the chat and both chat-list entries, then writes
// only what is missing. All reads happen before any write, as Firestore
// transactions require.
func (r *firestoreChatRepository) EnsureConversation(ctx context.Context, conv *entity.Conversation) (*entity.EnsureResult, error) {
	chatRef := r.chats().Doc(conv.Chat.ID)

	var result *entity.EnsureResult
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		result = &entity.EnsureResult{}

		chatSnap, err := tx.Get(chatRef)
		chatExists := true
		if err != nil {
			if status.Code(err) != codes.NotFound {
				return err
			}
			chatExists = false
		}

		entryExists := make(map[string]bool, len(conv.Chat.Participants))
		for _, uid := range conv.Chat.Participants {
			_, err := tx.Get(r.entryRef(uid, conv.Chat.ID))
			if err != nil {
				if status.Code(err) != codes.NotFound {
					return err
				}
				continue
			}
			entryExists[uid] = true
		}

		stored := conv.Chat
		if chatExists {
			stored = entity.DecodeChat(conv.Chat.ID, chatSnap.Data())
		} else {
			if err := tx.Create(chatRef, conv.Chat); err != nil {
				return err
			}
			if conv.InitialMessage != nil {
				msgRef := chatRef.Collection("messages").Doc(conv.InitialMessage.ID)
				if err := tx.Create(msgRef, toFirestoreMessage(conv.InitialMessage)); err != nil {
					return err
				}
			}
			result.Created = true
		}

		for _, uid := range conv.Chat.Participants {
			if entryExists[uid] {
				continue
			}
			entry, ok := conv.Entries[uid]
			if !ok {
				continue
			}
			if chatExists {
				entry = summarizeEntry(entry, stored, uid)
			}
			if err := tx.Set(r.entryRef(uid, conv.Chat.ID), entry); err != nil {
				return err
			}
			if chatExists {
				result.RepairedEntries = append(result.RepairedEntries, uid)
			}
		}

		result.Chat = stored
		return nil
	})
	if err != nil {
		return nil, errors.Internal("Failed to ensure conversation", err)
	}

	return result, nil
}

// summarizeEntry refreshes a template entry from the chat as it is stored.
func summarizeEntry(entry *entity.ChatListEntry, chat *entity.Chat, userID string) *entity.ChatListEntry {
	repaired := *entry
	if chat.LastMessage != nil {
		repaired.LastMessage = chat.LastMessage.Text
		repaired.LastMessageTimestamp = chat.LastMessage.Timestamp
	}
	repaired.UnreadCount = chat.UnreadCount[userID]
	repaired.UpdatedAt = time.Now()
	return &repaired
}

func (r *firestoreChatRepository) UpdateLastMessage(ctx context.Context, chatID string, last *entity.LastMessage) error {
	_, err := r.chats().Doc(chatID).Update(ctx, []firestore.Update{
		{Path: "lastMessage", Value: last},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		return errors.Internal("Failed to update chat last message", err)
	}
	return nil
}

func (r *firestoreChatRepository) SetAdminJoined(ctx context.Context, chatID string, joined bool) error {
	_, err := r.chats().Doc(chatID).Update(ctx, []firestore.Update{
		{Path: "adminJoined", Value: joined},
	})
	if err != nil {
		return errors.Internal("Failed to update chat", err)
	}
	return nil
}

func (r *firestoreChatRepository) IncrementUnread(ctx context.Context, chatID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	updates := make([]firestore.Update, 0, len(userIDs))
	for _, uid := range userIDs {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{"unreadCount", uid}, Value: firestore.Increment(1)})
	}
	if _, err := r.chats().Doc(chatID).Update(ctx, updates); err != nil {
		return errors.Internal("Failed to update unread count", err)
	}
	return nil
}

func (r *firestoreChatRepository) ListEntries(ctx context.Context, userID string, limit, offset int) ([]*entity.ChatListEntry, int64, error) {
	// Ordered in memory: older entries carry updatedAt as epoch millis and
	// would sort apart from timestamps in a Firestore OrderBy.
	allDocs, err := r.client.Collection("users").Doc(userID).Collection("chatList").Documents(ctx).GetAll()
	if err != nil {
		logger.Error("ListEntries Error: user=%s: %v", userID, err)
		return nil, 0, errors.Internal("Failed to fetch chat list", err)
	}

	entries := make([]*entity.ChatListEntry, 0, len(allDocs))
	for _, doc := range allDocs {
		entries = append(entries, entity.DecodeChatListEntry(doc.Ref.ID, doc.Data()))
	}
	entity.SortChatListEntries(entries)

	start, end := utils.Window(len(entries), offset, limit)
	return entries[start:end], int64(len(entries)), nil
}

func (r *firestoreChatRepository) TouchEntry(ctx context.Context, userID, chatID, text string, timestamp int64, incrementUnread bool) error {
	updates := []firestore.Update{
		{Path: "lastMessage", Value: text},
		{Path: "lastMessageTimestamp", Value: timestamp},
		{Path: "updatedAt", Value: time.Now()},
	}
	if incrementUnread {
		updates = append(updates, firestore.Update{Path: "unreadCount", Value: firestore.Increment(1)})
	}

	if _, err := r.entryRef(userID, chatID).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Chat list entry", err)
		}
		return errors.Internal("Failed to update chat list entry", err)
	}
	return nil
}

func (r *firestoreChatRepository) MarkRead(ctx context.Context, chatID, userID string) error {
	_, err := r.chats().Doc(chatID).Update(ctx, []firestore.Update{
		{FieldPath: firestore.FieldPath{"unreadCount", userID}, Value: 0},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Chat", err)
		}
		return errors.Internal("Failed to mark chat as read", err)
	}

	_, err = r.entryRef(userID, chatID).Update(ctx, []firestore.Update{
		{Path: "unreadCount", Value: 0},
	})
	if err != nil && status.Code(err) != codes.NotFound {
		return errors.Internal("Failed to mark chat list entry as read", err)
	}
	return nil
}
