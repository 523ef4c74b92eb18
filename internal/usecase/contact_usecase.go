package usecase

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"mateswap/internal/domain/entity"
	"mateswap/internal/domain/repository"
	"mateswap/internal/infrastructure/metrics"
	"mateswap/internal/infrastructure/ratelimit"
	"mateswap/pkg/errors"
	"mateswap/pkg/logger"
)

const ErrCodeSelfPurchase = "SELF_PURCHASE"

type ContactResult struct {
	ChatID          string   `json:"chat_id"`
	Created         bool     `json:"created"`
	RepairedEntries []string `json:"repaired_entries"`
	RedirectURL     string   `json:"redirect_url"`
}

type ContactUseCase struct {
	productRepo repository.ProductRepository
	chatRepo    repository.ChatRepository
	messages    repository.MessageStore
	notifier    ChatNotifier
	limiter     ActionLimiter
}

func NewContactUseCase(
	productRepo repository.ProductRepository,
	chatRepo repository.ChatRepository,
	messages repository.MessageStore,
	notifier ChatNotifier,
	limiter ActionLimiter,
) *ContactUseCase {
	return &ContactUseCase{
		productRepo: productRepo,
		chatRepo:    chatRepo,
		messages:    messages,
		notifier:    notifier,
		limiter:     limiter,
	}
}

// ContactSeller opens (or reopens) the conversation between the caller and
// the owner of productID and makes sure it starts with the transaction
// status message.
func (uc *ContactUseCase) ContactSeller(ctx context.Context, identity *entity.Identity, productID string) (*ContactResult, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.UserID == identity.UID {
		metrics.ContactSellerOutcomes.WithLabelValues("rejected").Inc()
		return nil, errors.New(ErrCodeSelfPurchase, "You cannot buy your own listing", http.StatusBadRequest, nil)
	}
	if err := checkLimit(uc.limiter, identity, ratelimit.ActionContactSeller); err != nil {
		metrics.ContactSellerOutcomes.WithLabelValues("rejected").Inc()
		return nil, err
	}

	chatID := entity.ConversationKey(product.ID, identity.UID)
	legacy, err := uc.chatRepo.FindLegacyByProductAndParticipant(ctx, product.ID, identity.UID)
	if err != nil && !errors.IsNotFound(err) {
		metrics.ContactSellerOutcomes.WithLabelValues("failed").Inc()
		return nil, err
	}
	if legacy != nil {
		chatID = legacy.ID
	}

	conv := buildConversation(chatID, identity, product)
	result, err := uc.chatRepo.EnsureConversation(ctx, conv)
	if err != nil {
		metrics.ContactSellerOutcomes.WithLabelValues("failed").Inc()
		return nil, err
	}

	uc.mirrorInitialMessage(ctx, result, conv.InitialMessage)

	switch {
	case result.Created:
		metrics.ContactSellerOutcomes.WithLabelValues("created").Inc()
		logger.Info("Chat %s created for product %s by %s", result.Chat.ID, product.ID, identity.UID)
	case len(result.RepairedEntries) > 0:
		metrics.ContactSellerOutcomes.WithLabelValues("repaired").Inc()
		logger.Info("Chat %s: repaired chat-list entries for %v", result.Chat.ID, result.RepairedEntries)
	default:
		metrics.ContactSellerOutcomes.WithLabelValues("existing").Inc()
	}

	publishChatUpdate(ctx, uc.notifier, result.Chat.ID)

	repaired := result.RepairedEntries
	if repaired == nil {
		repaired = []string{}
	}
	return &ContactResult{
		ChatID:          result.Chat.ID,
		Created:         result.Created,
		RepairedEntries: repaired,
		RedirectURL:     "/my-chats?chatId=" + result.Chat.ID,
	}, nil
}

// mirrorInitialMessage writes the transaction status message into the
// realtime tree when the chat has no messages there yet. For an existing
// chat the copy stored with the chat is replayed as is, so both stores carry
// the same transaction id.
func (uc *ContactUseCase) mirrorInitialMessage(ctx context.Context, result *entity.EnsureResult, built *entity.Message) {
	chatID := result.Chat.ID
	existing, err := uc.messages.List(ctx, chatID)
	if err != nil {
		logger.Warn("ContactSeller: listing realtime messages for %s failed: %v", chatID, err)
		metrics.DenormalizationFailed("initial_message_check")
		return
	}
	if len(existing) > 0 {
		return
	}

	initial := built
	if !result.Created && result.Chat.InitialMessageID != "" {
		stored, err := uc.chatRepo.GetStoredMessage(ctx, chatID, result.Chat.InitialMessageID)
		switch {
		case err == nil:
			initial = stored
		case errors.IsNotFound(err):
			logger.Warn("ContactSeller: chat %s has no stored initial message %s, writing a new one", chatID, result.Chat.InitialMessageID)
			initial.ID = result.Chat.InitialMessageID
		default:
			logger.Warn("ContactSeller: reading initial message for %s failed: %v", chatID, err)
			metrics.DenormalizationFailed("initial_message_check")
			return
		}
	}

	initial.ChatID = chatID
	if err := uc.messages.Put(ctx, initial); err != nil {
		logger.LogTransactionError(transactionIDOf(initial), "initial_message", err)
		metrics.DenormalizationFailed("initial_message")
		return
	}
	metrics.MessagesSent.WithLabelValues(string(initial.Kind)).Inc()

	productName := result.Chat.ProductName
	if initial.Transaction != nil && initial.Transaction.ProductName != "" {
		productName = initial.Transaction.ProductName
	}
	last := &entity.LastMessage{
		Text:      entity.PaymentRequiredSummary(productName),
		SenderID:  initial.SenderID,
		Timestamp: initial.Timestamp,
	}
	if err := uc.chatRepo.UpdateLastMessage(ctx, chatID, last); err != nil {
		logger.Warn("ContactSeller: last message for %s failed: %v", chatID, err)
		metrics.DenormalizationFailed("chat_last_message")
	}
	if err := uc.chatRepo.SetAdminJoined(ctx, chatID, false); err != nil {
		logger.Warn("ContactSeller: adminJoined reset for %s failed: %v", chatID, err)
		metrics.DenormalizationFailed("chat_admin_joined")
	}
}

func transactionIDOf(m *entity.Message) string {
	if m.Transaction == nil {
		return ""
	}
	return m.Transaction.TransactionID
}

func buildConversation(chatID string, buyer *entity.Identity, product *entity.Product) *entity.Conversation {
	now := time.Now()
	ts := now.UnixMilli()
	sellerID := product.UserID
	sellerName := product.SellerName()
	buyerName := buyer.DisplayName()
	image := product.PrimaryImage()
	summary := entity.PaymentRequiredSummary(product.DisplayName)

	payload := &entity.TransactionPayload{
		Version:        entity.TransactionPayloadVersion,
		TransactionID:  entity.NewTransactionID(),
		Amount:         product.Price,
		PaymentMethod:  entity.PaymentMethodCard,
		ProductID:      product.ID,
		ProductName:    product.DisplayName,
		NeedsPayment:   true,
		TermsConfirmed: true,
		EscrowAgent:    true,
		ShowPayButton:  true,
	}
	initial := &entity.Message{
		ID:             uuid.New().String(),
		ChatID:         chatID,
		Kind:           entity.KindTransactionStatus,
		SenderID:       buyer.UID,
		SenderName:     buyerName,
		SenderPhotoURL: buyer.PhotoURL,
		Text:           entity.TransactionStatusText(payload.TransactionID, payload.Amount, payload.PaymentMethod),
		Timestamp:      ts,
		Transaction:    payload,
	}

	chat := &entity.Chat{
		ID:           chatID,
		ProductID:    product.ID,
		ProductName:  product.DisplayName,
		ProductImage: image,
		ProductPrice: product.Price,
		Participants: []string{buyer.UID, sellerID},
		BuyerID:      buyer.UID,
		SellerID:     sellerID,
		ParticipantNames: map[string]string{
			buyer.UID: buyerName,
			sellerID:  sellerName,
		},
		ParticipantPhotos: map[string]string{
			buyer.UID: buyer.PhotoURL,
			sellerID:  "",
		},
		LastMessage: &entity.LastMessage{
			Text:      summary,
			SenderID:  buyer.UID,
			Timestamp: ts,
		},
		UnreadCount: map[string]int{
			buyer.UID: 0,
			sellerID:  1,
		},
		IsActive:         true,
		InitialMessageID: initial.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	entries := map[string]*entity.ChatListEntry{
		buyer.UID: {
			ChatID:               chatID,
			ProductID:            product.ID,
			ProductName:          product.DisplayName,
			ProductImage:         image,
			OtherUserID:          sellerID,
			OtherUserName:        sellerName,
			LastMessage:          summary,
			LastMessageTimestamp: ts,
			UnreadCount:          0,
			UpdatedAt:            now,
		},
		sellerID: {
			ChatID:               chatID,
			ProductID:            product.ID,
			ProductName:          product.DisplayName,
			ProductImage:         image,
			OtherUserID:          buyer.UID,
			OtherUserName:        buyerName,
			OtherUserPhoto:       buyer.PhotoURL,
			LastMessage:          summary,
			LastMessageTimestamp: ts,
			UnreadCount:          1,
			UpdatedAt:            now,
		},
	}

	return &entity.Conversation{Chat: chat, InitialMessage: initial, Entries: entries}
}
