package entity

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

type LastMessage struct {
	Text      string `json:"text" firestore:"text"`
	SenderID  string `json:"sender_id" firestore:"senderId"`
	Timestamp int64  `json:"timestamp" firestore:"timestamp"`
}

type Chat struct {
	ID                string            `json:"id" firestore:"-"`
	ProductID         string            `json:"product_id" firestore:"productId"`
	ProductName       string            `json:"product_name" firestore:"productName"`
	ProductImage      string            `json:"product_image" firestore:"productImage"`
	ProductPrice      float64           `json:"product_price" firestore:"productPrice"`
	Participants      []string          `json:"participants" firestore:"participants"`
	BuyerID           string            `json:"buyer_id" firestore:"buyerId"`
	SellerID          string            `json:"seller_id" firestore:"sellerId"`
	ParticipantNames  map[string]string `json:"participant_names" firestore:"participantNames"`
	ParticipantPhotos map[string]string `json:"participant_photos" firestore:"participantPhotos"`
	LastMessage       *LastMessage      `json:"last_message,omitempty" firestore:"lastMessage,omitempty"`
	UnreadCount       map[string]int    `json:"unread_count" firestore:"unreadCount"`
	AdminJoined       bool              `json:"admin_joined" firestore:"adminJoined"`
	IsActive          bool              `json:"is_active" firestore:"isActive"`
	InitialMessageID  string            `json:"initial_message_id,omitempty" firestore:"initialMessageId,omitempty"`
	CreatedAt         time.Time         `json:"created_at" firestore:"createdAt"`
	UpdatedAt         time.Time         `json:"updated_at" firestore:"updatedAt"`
}

func (c *Chat) HasParticipant(userID string) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not userID.
func (c *Chat) OtherParticipant(userID string) string {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return ""
}

// ChatListEntry is the per-user summary stored under users/{uid}/chatList/{chatId}.
type ChatListEntry struct {
	ChatID               string    `json:"chat_id" firestore:"chatId"`
	ProductID            string    `json:"product_id" firestore:"productId"`
	ProductName          string    `json:"product_name" firestore:"productName"`
	ProductImage         string    `json:"product_image" firestore:"productImage"`
	OtherUserID          string    `json:"other_user_id" firestore:"otherUserId"`
	OtherUserName        string    `json:"other_user_name" firestore:"otherUserName"`
	OtherUserPhoto       string    `json:"other_user_photo,omitempty" firestore:"otherUserPhoto,omitempty"`
	LastMessage          string    `json:"last_message" firestore:"lastMessage"`
	LastMessageTimestamp int64     `json:"last_message_timestamp" firestore:"lastMessageTimestamp"`
	UnreadCount          int       `json:"unread_count" firestore:"unreadCount"`
	UpdatedAt            time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ConversationKey derives the chat id for a (product, buyer) pair. Two
// contact attempts by the same buyer on the same product always land on the
// same document.
func ConversationKey(productID, buyerID string) string {
	sum := sha256.Sum256([]byte(productID + "\x00" + buyerID))
	return "c_" + hex.EncodeToString(sum[:16])
}

// Conversation bundles everything the contact flow creates in one transaction.
type Conversation struct {
	Chat           *Chat
	InitialMessage *Message
	Entries        map[string]*ChatListEntry
}

// EnsureResult reports what EnsureConversation actually wrote.
type EnsureResult struct {
	Chat            *Chat
	Created         bool
	RepairedEntries []string
}
