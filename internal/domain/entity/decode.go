package entity

import (
	"sort"
	"time"
)

// Documents in chats, chatList, favorites and wallet_addresses were written
// by two generations of clients: older ones store epoch milliseconds and a
// plain-string lastMessage, newer ones store timestamps and a lastMessage
// map. The decoders below accept both.

// DecodeChat builds a Chat from a raw chats/{id} document.
func DecodeChat(id string, raw map[string]interface{}) *Chat {
	chat := &Chat{
		ID:                id,
		ProductID:         stringField(raw, "productId"),
		ProductName:       stringField(raw, "productName"),
		ProductImage:      stringField(raw, "productImage"),
		ProductPrice:      numberField(raw, "productPrice"),
		Participants:      stringSliceField(raw, "participants"),
		BuyerID:           stringField(raw, "buyerId"),
		SellerID:          stringField(raw, "sellerId"),
		ParticipantNames:  stringMapField(raw, "participantNames"),
		ParticipantPhotos: stringMapField(raw, "participantPhotos"),
		LastMessage:       lastMessageField(raw),
		UnreadCount:       intMapField(raw, "unreadCount"),
		AdminJoined:       boolField(raw, "adminJoined"),
		IsActive:          boolField(raw, "isActive"),
		InitialMessageID:  stringField(raw, "initialMessageId"),
		CreatedAt:         timeField(raw, "createdAt"),
		UpdatedAt:         timeField(raw, "updatedAt"),
	}

	// Older chats list the buyer first and carry no buyerId/sellerId.
	if chat.BuyerID == "" && len(chat.Participants) == 2 {
		chat.BuyerID = chat.Participants[0]
	}
	if chat.SellerID == "" && len(chat.Participants) == 2 {
		chat.SellerID = chat.Participants[1]
	}
	return chat
}

// DecodeChatListEntry builds an entry from users/{uid}/chatList/{chatId}.
func DecodeChatListEntry(chatID string, raw map[string]interface{}) *ChatListEntry {
	entry := &ChatListEntry{
		ChatID:               stringField(raw, "chatId"),
		ProductID:            stringField(raw, "productId"),
		ProductName:          stringField(raw, "productName"),
		ProductImage:         stringField(raw, "productImage"),
		OtherUserID:          stringField(raw, "otherUserId"),
		OtherUserName:        stringField(raw, "otherUserName"),
		OtherUserPhoto:       stringField(raw, "otherUserPhoto"),
		LastMessageTimestamp: int64(numberField(raw, "lastMessageTimestamp")),
		UnreadCount:          int(numberField(raw, "unreadCount")),
		UpdatedAt:            timeField(raw, "updatedAt"),
	}
	if entry.ChatID == "" {
		entry.ChatID = chatID
	}
	if last := lastMessageField(raw); last != nil {
		entry.LastMessage = last.Text
		if entry.LastMessageTimestamp == 0 {
			entry.LastMessageTimestamp = last.Timestamp
		}
	}
	if entry.UpdatedAt.IsZero() && entry.LastMessageTimestamp > 0 {
		entry.UpdatedAt = time.UnixMilli(entry.LastMessageTimestamp)
	}
	return entry
}

// SortChatListEntries orders entries newest first.
func SortChatListEntries(entries []*ChatListEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
	})
}

func DecodeFavorite(userID, productID string, raw map[string]interface{}) *Favorite {
	fav := &Favorite{
		UserID:       stringField(raw, "userId"),
		ProductID:    stringField(raw, "productId"),
		ProductName:  stringField(raw, "productName"),
		ProductPrice: numberField(raw, "productPrice"),
		ProductImage: stringField(raw, "productImage"),
		AddedAt:      timeField(raw, "addedAt"),
	}
	if fav.UserID == "" {
		fav.UserID = userID
	}
	if fav.ProductID == "" {
		fav.ProductID = productID
	}
	return fav
}

func SortFavorites(favorites []*Favorite) {
	sort.SliceStable(favorites, func(i, j int) bool {
		return favorites[i].AddedAt.After(favorites[j].AddedAt)
	})
}

func DecodeWalletAddress(id string, raw map[string]interface{}) *WalletAddress {
	return &WalletAddress{
		ID:            id,
		UserID:        stringField(raw, "userId"),
		ProductID:     stringField(raw, "productId"),
		ChatID:        stringField(raw, "chatId"),
		TransactionID: idField(raw, "transactionId"),
		PaymentMethod: stringField(raw, "paymentMethod"),
		Address:       stringField(raw, "address"),
		CreatedAt:     timeField(raw, "createdAt"),
	}
}

func DecodeAdminNotification(id string, raw map[string]interface{}) *AdminNotification {
	return &AdminNotification{
		ID:            id,
		Type:          stringField(raw, "type"),
		ChatID:        stringField(raw, "chatId"),
		ProductID:     stringField(raw, "productId"),
		ProductName:   stringField(raw, "productName"),
		TransactionID: idField(raw, "transactionId"),
		BuyerName:     stringField(raw, "buyerName"),
		BuyerID:       stringField(raw, "buyerId"),
		SellerName:    stringField(raw, "sellerName"),
		SellerID:      stringField(raw, "sellerId"),
		PaymentMethod: stringField(raw, "paymentMethod"),
		Amount:        numberField(raw, "amount"),
		WalletAddress: stringField(raw, "walletAddress"),
		CreatedAt:     timeField(raw, "createdAt"),
		Read:          boolField(raw, "read"),
	}
}

// lastMessageField accepts the {text, senderId, timestamp} map or a bare
// string paired with lastMessageTimestamp.
func lastMessageField(raw map[string]interface{}) *LastMessage {
	switch v := raw["lastMessage"].(type) {
	case map[string]interface{}:
		return &LastMessage{
			Text:      stringField(v, "text"),
			SenderID:  stringField(v, "senderId"),
			Timestamp: int64(numberField(v, "timestamp")),
		}
	case string:
		return &LastMessage{
			Text:      v,
			Timestamp: int64(numberField(raw, "lastMessageTimestamp")),
		}
	}
	return nil
}

// timeField reads a Firestore timestamp, epoch milliseconds or an RFC3339
// string.
func timeField(m map[string]interface{}, key string) time.Time {
	switch v := m[key].(type) {
	case time.Time:
		return v
	case int64:
		return time.UnixMilli(v)
	case int:
		return time.UnixMilli(int64(v))
	case float64:
		return time.UnixMilli(int64(v))
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err == nil {
			return t
		}
	}
	return time.Time{}
}

func stringSliceField(m map[string]interface{}, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func stringMapField(m map[string]interface{}, key string) map[string]string {
	out := map[string]string{}
	if v, ok := m[key].(map[string]interface{}); ok {
		for k, item := range v {
			if s, ok := item.(string); ok {
				out[k] = s
			}
		}
	}
	return out
}

func intMapField(m map[string]interface{}, key string) map[string]int {
	out := map[string]int{}
	if v, ok := m[key].(map[string]interface{}); ok {
		for k := range v {
			out[k] = int(numberField(v, k))
		}
	}
	return out
}
