package usecase

import (
	"context"
	"strings"

	"mateswap/internal/domain/entity"
	"mateswap/internal/domain/repository"
	"mateswap/internal/infrastructure/metrics"
	"mateswap/internal/infrastructure/ratelimit"
	"mateswap/pkg/errors"
	"mateswap/pkg/logger"
)

const maxMessageLength = 4000

type ChatUseCase struct {
	chatRepo      repository.ChatRepository
	messages      repository.MessageStore
	adminRequests repository.AdminRequestStore
	notifier      ChatNotifier
	limiter       ActionLimiter
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	messages repository.MessageStore,
	adminRequests repository.AdminRequestStore,
	notifier ChatNotifier,
	limiter ActionLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:      chatRepo,
		messages:      messages,
		adminRequests: adminRequests,
		notifier:      notifier,
		limiter:       limiter,
	}
}

type EscrowRequestInput struct {
	PaymentMethod string `json:"payment_method" validate:"omitempty,max=64"`
	UseEscrow     bool   `json:"use_escrow"`
	TransferTo    string `json:"transfer_to" validate:"omitempty,max=256"`
}

// GetChat returns the chat when the caller takes part in it or is an admin.
func (uc *ChatUseCase) GetChat(ctx context.Context, identity *entity.Identity, chatID string) (*entity.Chat, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(identity.UID) && !identity.IsAdmin {
		return nil, errors.Forbidden("You are not a participant of this chat", nil)
	}
	return chat, nil
}

// Authorize is the websocket room gate.
func (uc *ChatUseCase) Authorize(ctx context.Context, identity *entity.Identity, chatID string) error {
	_, err := uc.GetChat(ctx, identity, chatID)
	return err
}

// Snapshot loads the full message list of a chat, oldest first.
func (uc *ChatUseCase) Snapshot(ctx context.Context, chatID string) ([]*entity.Message, error) {
	messages, err := uc.messages.List(ctx, chatID)
	if err != nil {
		return nil, errors.Internal("Failed to load messages", err)
	}
	entity.SortMessages(messages)
	return messages, nil
}

func (uc *ChatUseCase) Messages(ctx context.Context, identity *entity.Identity, chatID string) ([]*entity.Message, error) {
	if _, err := uc.GetChat(ctx, identity, chatID); err != nil {
		return nil, err
	}
	return uc.Snapshot(ctx, chatID)
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, identity *entity.Identity, chatID, text string) (*entity.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.BadRequest("Message text is required", nil)
	}
	if len(text) > maxMessageLength {
		return nil, errors.BadRequest("Message is too long", nil)
	}

	chat, err := uc.GetChat(ctx, identity, chatID)
	if err != nil {
		return nil, err
	}
	if err := checkLimit(uc.limiter, identity, ratelimit.ActionSendMessage); err != nil {
		return nil, err
	}

	message := &entity.Message{
		ChatID:         chat.ID,
		Kind:           entity.KindText,
		SenderID:       identity.UID,
		SenderName:     identity.DisplayName(),
		SenderPhotoURL: identity.PhotoURL,
		Text:           text,
		Timestamp:      nowMillis(),
		IsAdmin:        identity.IsAdmin,
	}
	if err := uc.post(ctx, chat, message, identity.UID); err != nil {
		return nil, err
	}
	return message, nil
}

func (uc *ChatUseCase) MarkRead(ctx context.Context, identity *entity.Identity, chatID string) error {
	if _, err := uc.GetChat(ctx, identity, chatID); err != nil {
		return err
	}
	return uc.chatRepo.MarkRead(ctx, chatID, identity.UID)
}

func (uc *ChatUseCase) ListChatEntries(ctx context.Context, identity *entity.Identity, page, limit int) ([]*entity.ChatListEntry, int64, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	return uc.chatRepo.ListEntries(ctx, identity.UID, limit, offset)
}

// SendEscrowRequest posts the buyer's purchase request with a fresh
// transaction id. Sellers cannot request to buy their own listing.
func (uc *ChatUseCase) SendEscrowRequest(ctx context.Context, identity *entity.Identity, chatID string, input EscrowRequestInput) (*entity.Message, error) {
	chat, err := uc.GetChat(ctx, identity, chatID)
	if err != nil {
		return nil, err
	}
	if identity.UID == chat.SellerID || !chat.HasParticipant(identity.UID) {
		return nil, errors.Forbidden("Only the buyer can request to purchase", nil)
	}
	if err := checkLimit(uc.limiter, identity, ratelimit.ActionSendMessage); err != nil {
		return nil, err
	}

	method := strings.TrimSpace(input.PaymentMethod)
	if method == "" {
		method = entity.PaymentMethodCard
	}
	payload := &entity.TransactionPayload{
		Version:       entity.TransactionPayloadVersion,
		TransactionID: entity.NewTransactionID(),
		Amount:        chat.ProductPrice,
		PaymentMethod: method,
		ProductID:     chat.ProductID,
		ProductName:   chat.ProductName,
		NeedsPayment:  true,
		EscrowAgent:   input.UseEscrow,
		UseEscrow:     input.UseEscrow,
		TransferTo:    strings.TrimSpace(input.TransferTo),
	}
	message := &entity.Message{
		ChatID:         chat.ID,
		Kind:           entity.KindEscrowRequest,
		SenderID:       identity.UID,
		SenderName:     identity.DisplayName(),
		SenderPhotoURL: identity.PhotoURL,
		Text:           entity.EscrowRequestText(payload),
		Timestamp:      nowMillis(),
		Transaction:    payload,
	}
	if err := uc.post(ctx, chat, message, identity.UID); err != nil {
		return nil, err
	}
	return message, nil
}

// RequestEscrowAgent queues an admin request and tells the chat about it.
func (uc *ChatUseCase) RequestEscrowAgent(ctx context.Context, identity *entity.Identity, chatID string) (*entity.AdminRequest, error) {
	chat, err := uc.GetChat(ctx, identity, chatID)
	if err != nil {
		return nil, err
	}
	if err := checkLimit(uc.limiter, identity, ratelimit.ActionRequestAgent); err != nil {
		return nil, err
	}

	request := &entity.AdminRequest{
		ChatID:          chat.ID,
		ProductID:       chat.ProductID,
		ProductName:     chat.ProductName,
		RequestedBy:     identity.UID,
		RequestedByName: identity.DisplayName(),
		Timestamp:       nowMillis(),
	}
	if err := uc.adminRequests.Create(ctx, request); err != nil {
		return nil, err
	}
	logger.Info("Escrow agent requested for chat %s by %s", chat.ID, identity.UID)

	notice := &entity.Message{
		ChatID:     chat.ID,
		Kind:       entity.KindAgentRequest,
		SenderID:   entity.SystemSenderID,
		SenderName: "System",
		Text:       entity.AgentRequestedText,
		Timestamp:  request.Timestamp,
	}
	if err := uc.post(ctx, chat, notice, identity.UID); err != nil {
		return nil, err
	}
	return request, nil
}

// post appends message to the realtime tree, then updates the denormalized
// copies. Only the first write can fail the call.
func (uc *ChatUseCase) post(ctx context.Context, chat *entity.Chat, message *entity.Message, authorID string) error {
	if err := uc.messages.Put(ctx, message); err != nil {
		return errors.Internal("Failed to send message", err)
	}
	metrics.MessagesSent.WithLabelValues(string(message.Kind)).Inc()

	last := &entity.LastMessage{
		Text:      message.Text,
		SenderID:  message.SenderID,
		Timestamp: message.Timestamp,
	}
	if err := uc.chatRepo.UpdateLastMessage(ctx, chat.ID, last); err != nil {
		logger.Warn("post: last message for chat %s failed: %v", chat.ID, err)
		metrics.DenormalizationFailed("chat_last_message")
	}

	var others []string
	for _, p := range chat.Participants {
		if p != authorID {
			others = append(others, p)
		}
	}
	if len(others) > 0 {
		if err := uc.chatRepo.IncrementUnread(ctx, chat.ID, others); err != nil {
			logger.Warn("post: unread counters for chat %s failed: %v", chat.ID, err)
			metrics.DenormalizationFailed("chat_unread")
		}
	}

	for _, p := range chat.Participants {
		if err := uc.chatRepo.TouchEntry(ctx, p, chat.ID, message.Text, message.Timestamp, p != authorID); err != nil {
			logger.Warn("post: chat list entry %s/%s failed: %v", p, chat.ID, err)
			metrics.DenormalizationFailed("chat_list_entry")
		}
	}

	publishChatUpdate(ctx, uc.notifier, chat.ID)
	return nil
}
