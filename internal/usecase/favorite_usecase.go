package usecase

import (
	"context"
	"time"

	"mateswap/internal/domain/entity"
	"mateswap/internal/domain/repository"
)

type FavoriteUseCase struct {
	favoriteRepo repository.FavoriteRepository
	productRepo  repository.ProductRepository
}

func NewFavoriteUseCase(favoriteRepo repository.FavoriteRepository, productRepo repository.ProductRepository) *FavoriteUseCase {
	return &FavoriteUseCase{
		favoriteRepo: favoriteRepo,
		productRepo:  productRepo,
	}
}

// Toggle flips the favorite flag and returns the new state. Concurrent
// toggles are not coordinated; the last write wins.
func (uc *FavoriteUseCase) Toggle(ctx context.Context, identity *entity.Identity, productID string) (bool, error) {
	if err := requireIdentity(identity); err != nil {
		return false, err
	}

	exists, err := uc.favoriteRepo.Exists(ctx, identity.UID, productID)
	if err != nil {
		return false, err
	}

	if exists {
		if err := uc.favoriteRepo.Remove(ctx, identity.UID, productID); err != nil {
			return true, err
		}
		return false, nil
	}

	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return false, err
	}

	favorite := &entity.Favorite{
		UserID:       identity.UID,
		ProductID:    product.ID,
		ProductName:  product.DisplayName,
		ProductPrice: product.Price,
		ProductImage: product.FirstImage(),
		AddedAt:      time.Now(),
	}
	if err := uc.favoriteRepo.Add(ctx, favorite); err != nil {
		return false, err
	}
	return true, nil
}

func (uc *FavoriteUseCase) IsFavorite(ctx context.Context, identity *entity.Identity, productID string) (bool, error) {
	if err := requireIdentity(identity); err != nil {
		return false, err
	}
	return uc.favoriteRepo.Exists(ctx, identity.UID, productID)
}

func (uc *FavoriteUseCase) List(ctx context.Context, identity *entity.Identity) ([]*entity.Favorite, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}
	return uc.favoriteRepo.ListByUser(ctx, identity.UID)
}
