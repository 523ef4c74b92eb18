package usecase

import (
	"context"
	"io"
	"strings"
	"time"

	"mateswap/internal/domain/entity"
	"mateswap/internal/domain/repository"
	"mateswap/internal/infrastructure/metrics"
	"mateswap/pkg/errors"
	"mateswap/pkg/logger"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type ProductUseCase struct {
	productRepo  repository.ProductRepository
	favoriteRepo repository.FavoriteRepository
	logos        *ChannelLogoService
	images       ImageStore
}

func NewProductUseCase(
	productRepo repository.ProductRepository,
	favoriteRepo repository.FavoriteRepository,
	logos *ChannelLogoService,
	images ImageStore,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		favoriteRepo: favoriteRepo,
		logos:        logos,
		images:       images,
	}
}

type CreateProductInput struct {
	DisplayName     string   `json:"display_name" validate:"required,max=120"`
	Platform        string   `json:"platform" validate:"required"`
	Price           float64  `json:"price" validate:"gt=0"`
	Category        string   `json:"category" validate:"required"`
	AccountLink     string   `json:"account_link" validate:"required,url"`
	Subscribers     *int64   `json:"subscribers" validate:"omitempty,gte=0"`
	MonthlyIncome   float64  `json:"monthly_income" validate:"gte=0"`
	MonthlyExpenses float64  `json:"monthly_expenses" validate:"gte=0"`
	ImageURLs       []string `json:"image_urls" validate:"max=10,dive,url"`
	Description     string   `json:"description" validate:"max=5000"`
}

type ProductDetail struct {
	Product      *entity.Product           `json:"product"`
	Description  entity.ProductDescription `json:"description"`
	SellerName   string                    `json:"seller_name"`
	IsFavorite   bool                      `json:"is_favorite"`
	IsOwner      bool                      `json:"is_owner"`
	DataComplete bool                      `json:"data_complete"`
}

func (uc *ProductUseCase) GetProductDetail(ctx context.Context, viewer *entity.Identity, id string) (*ProductDetail, error) {
	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.logos.Enrich(ctx, product)

	detail := &ProductDetail{
		Product:      product,
		Description:  entity.ParseDescription(product.Description),
		SellerName:   product.SellerName(),
		DataComplete: product.DataComplete(),
	}

	if viewer != nil && viewer.UID != "" {
		detail.IsOwner = viewer.UID == product.UserID
		fav, err := uc.favoriteRepo.Exists(ctx, viewer.UID, product.ID)
		if err != nil {
			logger.Warn("GetProductDetail: favorite lookup for %s failed: %v", viewer.UID, err)
		}
		detail.IsFavorite = fav
	}

	// Increment view counter (async)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := uc.productRepo.IncrementViews(ctx, id); err != nil {
			logger.Warn("GetProductDetail: view counter for %s: %v", id, err)
			metrics.DenormalizationFailed("product_views")
		}
	}()

	return detail, nil
}

func (uc *ProductUseCase) ListProducts(ctx context.Context, filter entity.ProductFilter, page, limit int) ([]*entity.Product, int64, error) {
	offset := (page - 1) * limit
	if offset < 0 {
		offset = 0
	}
	return uc.productRepo.List(ctx, filter, limit, offset)
}

func (uc *ProductUseCase) CreateProduct(ctx context.Context, identity *entity.Identity, input CreateProductInput) (*entity.Product, error) {
	if err := requireIdentity(identity); err != nil {
		return nil, err
	}

	product := &entity.Product{
		DisplayName:     strings.TrimSpace(input.DisplayName),
		Platform:        input.Platform,
		Price:           input.Price,
		Category:        input.Category,
		AccountLink:     strings.TrimSpace(input.AccountLink),
		Subscribers:     input.Subscribers,
		MonthlyIncome:   input.MonthlyIncome,
		MonthlyExpenses: input.MonthlyExpenses,
		ImageURLs:       input.ImageURLs,
		Description:     input.Description,
		UserID:          identity.UID,
		UserEmail:       identity.Email,
		CreatedAt:       time.Now(),
	}
	if product.ImageURLs == nil {
		product.ImageURLs = []string{}
	}
	if product.Platform == entity.PlatformYouTube {
		product.ChannelID = entity.ExtractChannelID(product.AccountLink)
	}

	if err := uc.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	logger.Info("Product %s created by %s", product.ID, identity.UID)
	return product, nil
}

func (uc *ProductUseCase) UploadImage(ctx context.Context, identity *entity.Identity, file io.Reader, contentType string) (string, error) {
	if err := requireIdentity(identity); err != nil {
		return "", err
	}
	if !allowedImageTypes[contentType] {
		return "", errors.BadRequest("Only JPEG, PNG, GIF and WebP images are allowed", nil)
	}

	url, err := uc.images.UploadFile(ctx, file, contentType, "products/"+identity.UID)
	if err != nil {
		return "", errors.Internal("Failed to upload image", err)
	}
	return url, nil
}

// DeleteProduct removes a listing. Only its owner may do so.
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, identity *entity.Identity, id string) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}

	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product.UserID != identity.UID {
		return errors.Forbidden("You can only delete your own listings", nil)
	}

	if err := uc.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	if uc.images != nil {
		for _, url := range product.ImageURLs {
			if err := uc.images.DeleteFile(ctx, url); err != nil {
				logger.Warn("DeleteProduct: image cleanup for %s failed: %v", url, err)
				metrics.DenormalizationFailed("product_image_cleanup")
			}
		}
	}

	logger.Info("Product %s deleted by %s", id, identity.UID)
	return nil
}
