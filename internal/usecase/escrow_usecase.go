package usecase

import (
	"context"
	"strings"
	"time"

	"mateswap/internal/domain/entity"
	"mateswap/internal/domain/repository"
	"mateswap/internal/infrastructure/metrics"
	"mateswap/internal/infrastructure/ratelimit"
	"mateswap/pkg/errors"
	"mateswap/pkg/logger"
)

const unknownBuyer = "Unknown Buyer"

type EscrowUseCase struct {
	chatRepo      repository.ChatRepository
	messages      repository.MessageStore
	walletRepo    repository.WalletAddressRepository
	notifications repository.AdminNotificationRepository
	limiter       ActionLimiter
}

func NewEscrowUseCase(
	chatRepo repository.ChatRepository,
	messages repository.MessageStore,
	walletRepo repository.WalletAddressRepository,
	notifications repository.AdminNotificationRepository,
	limiter ActionLimiter,
) *EscrowUseCase {
	return &EscrowUseCase{
		chatRepo:      chatRepo,
		messages:      messages,
		walletRepo:    walletRepo,
		notifications: notifications,
		limiter:       limiter,
	}
}

type SubmitWalletInput struct {
	Address string `json:"address" validate:"required,max=256"`
}

type WalletSubmission struct {
	Submitted       bool   `json:"submitted"`
	WalletAddressID string `json:"wallet_address_id"`
	NotificationID  string `json:"notification_id"`
}

type WalletStatus struct {
	TransactionID string `json:"transaction_id"`
	Submitted     bool   `json:"submitted"`
}

// SubmitWallet stores the seller's payout address for the transaction in
// messageID and notifies the admins. Nothing is posted to the chat.
func (uc *EscrowUseCase) SubmitWallet(ctx context.Context, identity *entity.Identity, chatID, messageID, address string) (*WalletSubmission, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, errors.BadRequest("Wallet address is required", nil)
	}

	chat, message, err := uc.loadTransaction(ctx, identity, chatID, messageID)
	if err != nil {
		return nil, err
	}
	if message.SenderID == identity.UID {
		return nil, errors.Forbidden("The sender of a transaction cannot submit wallet details for it", nil)
	}
	if err := checkLimit(uc.limiter, identity, ratelimit.ActionSubmitWallet); err != nil {
		return nil, err
	}

	tx := message.Transaction
	wallet := &entity.WalletAddress{
		UserID:        identity.UID,
		ProductID:     tx.ProductID,
		ChatID:        chat.ID,
		TransactionID: tx.TransactionID,
		PaymentMethod: tx.PaymentMethod,
		Address:       address,
		CreatedAt:     time.Now(),
	}
	if wallet.ProductID == "" {
		wallet.ProductID = chat.ProductID
	}
	if err := uc.walletRepo.Create(ctx, wallet); err != nil {
		metrics.WalletSubmissions.WithLabelValues("failed").Inc()
		return nil, err
	}

	buyerName := chat.ParticipantNames[message.SenderID]
	if buyerName == "" {
		buyerName = message.SenderName
	}
	if buyerName == "" {
		buyerName = unknownBuyer
	}

	productName := tx.ProductName
	if productName == "" {
		productName = chat.ProductName
	}
	notification := &entity.AdminNotification{
		Type:          entity.NotificationWalletAdded,
		ChatID:        chat.ID,
		ProductID:     wallet.ProductID,
		ProductName:   productName,
		TransactionID: tx.TransactionID,
		BuyerName:     buyerName,
		BuyerID:       message.SenderID,
		SellerName:    identity.DisplayName(),
		SellerID:      identity.UID,
		PaymentMethod: tx.PaymentMethod,
		Amount:        tx.Amount,
		WalletAddress: address,
		CreatedAt:     wallet.CreatedAt,
		Read:          false,
	}
	if err := uc.notifications.Create(ctx, notification); err != nil {
		// The wallet record stays; an admin can still find it.
		logger.Error("SubmitWallet: admin notification for transaction %s failed: %v", tx.TransactionID, err)
		metrics.WalletSubmissions.WithLabelValues("notification_failed").Inc()
		return nil, errors.Internal("Failed to notify admins", err)
	}

	metrics.WalletSubmissions.WithLabelValues("submitted").Inc()
	logger.Info("Wallet submitted for transaction %s in chat %s by %s", tx.TransactionID, chat.ID, identity.UID)

	return &WalletSubmission{
		Submitted:       true,
		WalletAddressID: wallet.ID,
		NotificationID:  notification.ID,
	}, nil
}

func (uc *EscrowUseCase) WalletStatus(ctx context.Context, identity *entity.Identity, chatID, messageID string) (*WalletStatus, error) {
	_, message, err := uc.loadTransaction(ctx, identity, chatID, messageID)
	if err != nil {
		return nil, err
	}

	status := &WalletStatus{TransactionID: message.Transaction.TransactionID}
	_, err = uc.walletRepo.FindByUserAndTransaction(ctx, identity.UID, status.TransactionID)
	switch {
	case err == nil:
		status.Submitted = true
	case errors.IsNotFound(err):
	default:
		return nil, err
	}
	return status, nil
}

func (uc *EscrowUseCase) loadTransaction(ctx context.Context, identity *entity.Identity, chatID, messageID string) (*entity.Chat, *entity.Message, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, nil, err
	}

	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, nil, err
	}
	if !chat.HasParticipant(identity.UID) {
		return nil, nil, errors.Forbidden("You are not a participant of this chat", nil)
	}

	message, err := uc.messages.Get(ctx, chatID, messageID)
	if err != nil {
		return nil, nil, err
	}
	if !message.IsTransaction() || message.Transaction.TransactionID == "" {
		return nil, nil, errors.BadRequest("Message does not carry transaction details", nil)
	}
	return chat, message, nil
}
