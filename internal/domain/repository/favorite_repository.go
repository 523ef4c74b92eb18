package repository

import (
	"context"

	"mateswap/internal/domain/entity"
)

type FavoriteRepository interface {
	Exists(ctx context.Context, userID, productID string) (bool, error)
	Add(ctx context.Context, favorite *entity.Favorite) error
	Remove(ctx context.Context, userID, productID string) error
	ListByUser(ctx context.Context, userID string) ([]*entity.Favorite, error)
}
