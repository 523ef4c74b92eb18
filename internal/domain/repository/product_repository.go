package repository

import (
	"context"

	"mateswap/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context, filter entity.ProductFilter, limit, offset int) ([]*entity.Product, int64, error)
	Delete(ctx context.Context, id string) error
	// PatchChannelLogo writes channelLogo, and channelId when non-empty.
	PatchChannelLogo(ctx context.Context, id, channelID, logoURL string) error
	IncrementViews(ctx context.Context, id string) error
}

type ChannelLogoRepository interface {
	// Get returns a NOT_FOUND AppError when no logo is cached for the channel.
	Get(ctx context.Context, channelID string) (*entity.ChannelLogo, error)
}
