package usecase

import (
	"context"

	"mateswap/internal/domain/entity"
	"mateswap/internal/domain/repository"
	"mateswap/internal/infrastructure/metrics"
	"mateswap/pkg/errors"
	"mateswap/pkg/logger"
)

type ChannelLogoService struct {
	logoRepo    repository.ChannelLogoRepository
	productRepo repository.ProductRepository
}

func NewChannelLogoService(logoRepo repository.ChannelLogoRepository, productRepo repository.ProductRepository) *ChannelLogoService {
	return &ChannelLogoService{
		logoRepo:    logoRepo,
		productRepo: productRepo,
	}
}

// Enrich fills product.ChannelLogo from the channelLogos cache and backfills
// the stored product when the logo changed. It never fails: a missing logo
// leaves the product as it is.
func (s *ChannelLogoService) Enrich(ctx context.Context, product *entity.Product) {
	if product.Platform != entity.PlatformYouTube {
		return
	}

	channelID := product.ChannelID
	derived := false
	if channelID == "" {
		channelID = entity.ExtractChannelID(product.AccountLink)
		derived = channelID != ""
	}
	if channelID == "" {
		return
	}

	logo, err := s.logoRepo.Get(ctx, channelID)
	if err != nil {
		if !errors.IsNotFound(err) {
			logger.Warn("Enrich: channel logo lookup for %s failed: %v", channelID, err)
			metrics.DenormalizationFailed("channel_logo_lookup")
		}
		return
	}

	if logo.LogoURL == product.ChannelLogo && !derived {
		return
	}

	product.ChannelLogo = logo.LogoURL
	patchChannelID := ""
	if derived {
		product.ChannelID = channelID
		patchChannelID = channelID
	}

	if err := s.productRepo.PatchChannelLogo(ctx, product.ID, patchChannelID, logo.LogoURL); err != nil {
		logger.Warn("Enrich: channel logo backfill for product %s failed: %v", product.ID, err)
		metrics.DenormalizationFailed("channel_logo_patch")
	}
}
