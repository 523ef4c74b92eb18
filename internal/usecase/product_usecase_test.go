package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mateswap/internal/domain/entity"
	"mateswap/pkg/errors"
)

func newProductUseCase(products *fakeProductRepo, favs *fakeFavoriteRepo, logos *fakeLogoRepo, images *fakeImageStore) *ProductUseCase {
	return NewProductUseCase(products, favs, NewChannelLogoService(logos, products), images)
}

func TestGetProductDetail(t *testing.T) {
	ctx := context.Background()
	product := fakeProduct("seller")
	product.Description = "Great channel. Monetization: AdSense Content: gaming videos"
	products := newFakeProductRepo(product)
	favs := newFakeFavoriteRepo()
	uc := newProductUseCase(products, favs, &fakeLogoRepo{}, &fakeImageStore{})

	t.Run("not found", func(t *testing.T) {
		_, err := uc.GetProductDetail(ctx, nil, "missing")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("anonymous viewer", func(t *testing.T) {
		detail, err := uc.GetProductDetail(ctx, nil, product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.ID, detail.Product.ID)
		assert.False(t, detail.IsFavorite)
		assert.False(t, detail.IsOwner)
		assert.True(t, detail.DataComplete)
		assert.Equal(t, "AdSense", detail.Description.Monetization)
	})

	t.Run("favorite flag for signed in viewer", func(t *testing.T) {
		require.NoError(t, favs.Add(ctx, &entity.Favorite{UserID: "buyer", ProductID: product.ID}))
		detail, err := uc.GetProductDetail(ctx, fakeIdentity("buyer"), product.ID)
		require.NoError(t, err)
		assert.True(t, detail.IsFavorite)
	})

	assert.Eventually(t, func() bool { return products.viewCount(product.ID) == 2 }, time.Second, 10*time.Millisecond)
}

func TestChannelLogoEnrichment(t *testing.T) {
	ctx := context.Background()

	t.Run("patches when the logo changed", func(t *testing.T) {
		product := fakeProduct("seller")
		product.ChannelID = "UCabc"
		products := newFakeProductRepo(product)
		svc := NewChannelLogoService(&fakeLogoRepo{logos: map[string]string{"UCabc": "https://yt3.example/logo.jpg"}}, products)

		got, _ := products.GetByID(ctx, product.ID)
		svc.Enrich(ctx, got)

		assert.Equal(t, "https://yt3.example/logo.jpg", got.ChannelLogo)
		assert.Equal(t, got.ChannelLogo, got.PrimaryImage())
		assert.Equal(t, 1, products.patchCount())
	})

	t.Run("skips the write when equal", func(t *testing.T) {
		product := fakeProduct("seller")
		product.ChannelID = "UCabc"
		product.ChannelLogo = "https://yt3.example/logo.jpg"
		products := newFakeProductRepo(product)
		svc := NewChannelLogoService(&fakeLogoRepo{logos: map[string]string{"UCabc": "https://yt3.example/logo.jpg"}}, products)

		got, _ := products.GetByID(ctx, product.ID)
		svc.Enrich(ctx, got)

		assert.Equal(t, 0, products.patchCount())
	})

	t.Run("derives the channel id from the account link", func(t *testing.T) {
		product := fakeProduct("seller")
		product.AccountLink = "https://www.youtube.com/channel/UCderived"
		products := newFakeProductRepo(product)
		svc := NewChannelLogoService(&fakeLogoRepo{logos: map[string]string{"UCderived": "https://yt3.example/d.jpg"}}, products)

		got, _ := products.GetByID(ctx, product.ID)
		svc.Enrich(ctx, got)

		assert.Equal(t, "UCderived", got.ChannelID)
		stored, _ := products.GetByID(ctx, product.ID)
		assert.Equal(t, "UCderived", stored.ChannelID)
		assert.Equal(t, "https://yt3.example/d.jpg", stored.ChannelLogo)
	})

	t.Run("swallows lookup failures", func(t *testing.T) {
		product := fakeProduct("seller")
		product.ChannelID = "UCabc"
		products := newFakeProductRepo(product)
		svc := NewChannelLogoService(&fakeLogoRepo{err: errors.Internal("Failed to get channel logo", nil)}, products)

		got, _ := products.GetByID(ctx, product.ID)
		svc.Enrich(ctx, got)

		assert.Empty(t, got.ChannelLogo)
		assert.Equal(t, 0, products.patchCount())
	})

	t.Run("ignores other platforms", func(t *testing.T) {
		product := fakeProduct("seller")
		product.Platform = "TikTok"
		product.ChannelID = "UCabc"
		products := newFakeProductRepo(product)
		svc := NewChannelLogoService(&fakeLogoRepo{logos: map[string]string{"UCabc": "x"}}, products)

		svc.Enrich(ctx, product)
		assert.Empty(t, product.ChannelLogo)
	})
}

func TestCreateProduct(t *testing.T) {
	products := newFakeProductRepo()
	uc := newProductUseCase(products, newFakeFavoriteRepo(), &fakeLogoRepo{}, &fakeImageStore{})

	created, err := uc.CreateProduct(context.Background(), fakeIdentity("seller"), CreateProductInput{
		DisplayName: "  Retro Gaming  ",
		Platform:    entity.PlatformYouTube,
		Price:       250,
		Category:    "Gaming",
		AccountLink: "https://youtube.com/channel/UCretro",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Retro Gaming", created.DisplayName)
	assert.Equal(t, "seller", created.UserID)
	assert.Equal(t, "UCretro", created.ChannelID)
	assert.NotNil(t, created.ImageURLs)

	_, err = uc.CreateProduct(context.Background(), nil, CreateProductInput{})
	assert.Equal(t, "UNAUTHORIZED", errors.Code(err))
}

func TestUploadImage(t *testing.T) {
	uc := newProductUseCase(newFakeProductRepo(), newFakeFavoriteRepo(), &fakeLogoRepo{}, &fakeImageStore{})

	url, err := uc.UploadImage(context.Background(), fakeIdentity("seller"), strings.NewReader("png"), "image/png")
	require.NoError(t, err)
	assert.Contains(t, url, "products/seller")

	_, err = uc.UploadImage(context.Background(), fakeIdentity("seller"), strings.NewReader("pdf"), "application/pdf")
	assert.Equal(t, "BAD_REQUEST", errors.Code(err))
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	product := fakeProduct("seller")
	products := newFakeProductRepo(product)
	images := &fakeImageStore{}
	uc := newProductUseCase(products, newFakeFavoriteRepo(), &fakeLogoRepo{}, images)

	err := uc.DeleteProduct(ctx, fakeIdentity("intruder"), product.ID)
	assert.Equal(t, "FORBIDDEN", errors.Code(err))
	_, err = products.GetByID(ctx, product.ID)
	require.NoError(t, err)

	require.NoError(t, uc.DeleteProduct(ctx, fakeIdentity("seller"), product.ID))
	_, err = products.GetByID(ctx, product.ID)
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, product.ImageURLs, images.deleted)
}

func TestListProducts(t *testing.T) {
	products := newFakeProductRepo(fakeProduct("a"), fakeProduct("a"), fakeProduct("b"))
	uc := newProductUseCase(products, newFakeFavoriteRepo(), &fakeLogoRepo{}, &fakeImageStore{})

	items, total, err := uc.ListProducts(context.Background(), entity.ProductFilter{UserID: "a"}, 1, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, int64(2), total)
}
