package repository

import (
	"context"

	"mateswap/internal/domain/entity"
)

type WalletAddressRepository interface {
	Create(ctx context.Context, wallet *entity.WalletAddress) error
	FindByUserAndTransaction(ctx context.Context, userID, transactionID string) (*entity.WalletAddress, error)
}

type AdminNotificationRepository interface {
	Create(ctx context.Context, notification *entity.AdminNotification) error
	List(ctx context.Context, unreadOnly bool, limit int) ([]*entity.AdminNotification, error)
	MarkRead(ctx context.Context, id string) error
}
