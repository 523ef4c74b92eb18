package usecase

import (
	"context"

	"mateswap/internal/domain/entity"
	"mateswap/internal/domain/repository"
	"mateswap/pkg/errors"
)

type AdminUseCase struct {
	notifications repository.AdminNotificationRepository
	adminRequests repository.AdminRequestStore
}

func NewAdminUseCase(notifications repository.AdminNotificationRepository, adminRequests repository.AdminRequestStore) *AdminUseCase {
	return &AdminUseCase{
		notifications: notifications,
		adminRequests: adminRequests,
	}
}

func requireAdmin(identity *entity.Identity) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}
	if !identity.IsAdmin {
		return errors.Forbidden("Admin access required", nil)
	}
	return nil
}

func (uc *AdminUseCase) ListNotifications(ctx context.Context, identity *entity.Identity, unreadOnly bool, limit int) ([]*entity.AdminNotification, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	return uc.notifications.List(ctx, unreadOnly, limit)
}

func (uc *AdminUseCase) MarkNotificationRead(ctx context.Context, identity *entity.Identity, id string) error {
	if err := requireAdmin(identity); err != nil {
		return err
	}
	return uc.notifications.MarkRead(ctx, id)
}

func (uc *AdminUseCase) ListAgentRequests(ctx context.Context, identity *entity.Identity, limit int) ([]*entity.AdminRequest, error) {
	if err := requireAdmin(identity); err != nil {
		return nil, err
	}
	return uc.adminRequests.List(ctx, limit)
}
