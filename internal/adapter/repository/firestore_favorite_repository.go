package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mateswap/internal/domain/entity"
	"mateswap/internal/domain/repository"
	"mateswap/pkg/errors"
)

type firestoreFavoriteRepository struct {
	client *firestore.Client
}

func NewFirestoreFavoriteRepository(client *firestore.Client) repository.FavoriteRepository {
	return &firestoreFavoriteRepository{client: client}
}

func (r *firestoreFavoriteRepository) favorites(userID string) *firestore.CollectionRef {
	return r.client.Collection("users").Doc(userID).Collection("favorites")
}

func (r *firestoreFavoriteRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	_, err := r.favorites(userID).Doc(productID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, errors.Internal("Failed to check favorite", err)
	}
	return true, nil
}

func (r *firestoreFavoriteRepository) Add(ctx context.Context, favorite *entity.Favorite) error {
	_, err := r.favorites(favorite.UserID).Doc(favorite.ProductID).Set(ctx, favorite)
	if err != nil {
		return errors.Internal("Failed to add favorite", err)
	}
	return nil
}

func (r *firestoreFavoriteRepository) Remove(ctx context.Context, userID, productID string) error {
	_, err := r.favorites(userID).Doc(productID).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to remove favorite", err)
	}
	return nil
}

func (r *firestoreFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]*entity.Favorite, error) {
	docs, err := r.favorites(userID).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to list favorites", err)
	}

	favorites := make([]*entity.Favorite, 0, len(docs))
	for _, doc := range docs {
		favorites = append(favorites, entity.DecodeFavorite(userID, doc.Ref.ID, doc.Data()))
	}
	entity.SortFavorites(favorites)
	return favorites, nil
}
