package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"mateswap/internal/domain/entity"
	"mateswap/internal/domain/repository"
	"mateswap/pkg/errors"
	"mateswap/pkg/utils"
)

type firestoreProductRepository struct {
	client *firestore.Client
}

func NewFirestoreProductRepository(client *firestore.Client) repository.ProductRepository {
	return &firestoreProductRepository{
		client: client,
	}
}

func (r *firestoreProductRepository) Create(ctx context.Context, product *entity.Product) error {
	if product.ID == "" {
		doc := r.client.Collection("products").NewDoc()
		product.ID = doc.ID
	}

	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now()
	}

	_, err := r.client.Collection("products").Doc(product.ID).Set(ctx, product)
	if err != nil {
		return errors.Internal("Failed to create product", err)
	}

	return nil
}

func (r *firestoreProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	doc, err := r.client.Collection("products").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Product", err)
		}
		return nil, errors.Internal("Failed to get product", err)
	}

	var product entity.Product
	if err := doc.DataTo(&product); err != nil {
		return nil, errors.Internal("Failed to parse product data", err)
	}
	product.ID = doc.Ref.ID

	return &product, nil
}

func (r *firestoreProductRepository) List(ctx context.Context, filter entity.ProductFilter, limit, offset int) ([]*entity.Product, int64, error) {
	query := r.client.Collection("products").Query

	if filter.Category != "" {
		query = query.Where("category", "==", filter.Category)
	}
	if filter.Platform != "" {
		query = query.Where("platform", "==", filter.Platform)
	}
	if filter.UserID != "" {
		query = query.Where("userId", "==", filter.UserID)
	}
	query = query.OrderBy("createdAt", firestore.Desc)

	allDocs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, 0, errors.Internal("Failed to list products", err)
	}
	total := int64(len(allDocs))
	start, end := utils.Window(len(allDocs), offset, limit)

	products := make([]*entity.Product, 0, end-start)
	for _, doc := range allDocs[start:end] {
		var product entity.Product
		if err := doc.DataTo(&product); err != nil {
			return nil, 0, errors.Internal("Failed to parse product data", err)
		}
		product.ID = doc.Ref.ID
		products = append(products, &product)
	}

	return products, total, nil
}

func (r *firestoreProductRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("products").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete product", err)
	}

	return nil
}

func (r *firestoreProductRepository) PatchChannelLogo(ctx context.Context, id, channelID, logoURL string) error {
	updates := []firestore.Update{
		{Path: "channelLogo", Value: logoURL},
	}
	if channelID != "" {
		updates = append(updates, firestore.Update{Path: "channelId", Value: channelID})
	}

	if _, err := r.client.Collection("products").Doc(id).Update(ctx, updates); err != nil {
		return errors.Internal("Failed to update channel logo", err)
	}
	return nil
}

// IncrementViews bumps productViews/{id}. The counter lives outside the
// product document so that views never touch the listing itself.
func (r *firestoreProductRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.client.Collection("productViews").Doc(id).Set(ctx, map[string]interface{}{
		"productId": id,
		"views":     firestore.Increment(1),
		"updatedAt": time.Now(),
	}, firestore.MergeAll)
	if err != nil {
		return errors.Internal("Failed to increment product views", err)
	}

	return nil
}

type firestoreChannelLogoRepository struct {
	client *firestore.Client
}

func NewFirestoreChannelLogoRepository(client *firestore.Client) repository.ChannelLogoRepository {
	return &firestoreChannelLogoRepository{client: client}
}

func (r *firestoreChannelLogoRepository) Get(ctx context.Context, channelID string) (*entity.ChannelLogo, error) {
	doc, err := r.client.Collection("channelLogos").Doc(channelID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Channel logo", err)
		}
		return nil, errors.Internal("Failed to get channel logo", err)
	}

	var logo entity.ChannelLogo
	if err := doc.DataTo(&logo); err != nil {
		return nil, errors.Internal("Failed to parse channel logo", err)
	}
	logo.ChannelID = channelID
	if logo.LogoURL == "" {
		return nil, errors.NotFound("Channel logo", nil)
	}

	return &logo, nil
}
