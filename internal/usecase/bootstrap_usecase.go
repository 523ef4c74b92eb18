package usecase

import (
	"context"
	"fmt"
	"time"

	"mateswap/internal/domain/repository"
	"mateswap/pkg/logger"
)

const PlaceholderDocID = "placeholder_doc_id"

// BootstrapCollections are created in this order.
var BootstrapCollections = []string{
	"users",
	"products",
	"chats",
	"reviews",
	"admin_notifications",
	"paid",
	"channelLogos",
	"productViews",
	"featured_products",
	"product_categories",
}

type BootstrapReport struct {
	Created []string
	Failed  string
	DryRun  bool
}

type BootstrapUseCase struct {
	writer repository.PlaceholderWriter
	now    func() time.Time
}

func NewBootstrapUseCase(writer repository.PlaceholderWriter) *BootstrapUseCase {
	return &BootstrapUseCase{writer: writer, now: time.Now}
}

// Run writes one placeholder document per collection, one at a time. The
// first failure stops the run; the report lists what was created before it.
func (uc *BootstrapUseCase) Run(ctx context.Context, dryRun bool) (*BootstrapReport, error) {
	report := &BootstrapReport{Created: []string{}, DryRun: dryRun}

	for _, name := range BootstrapCollections {
		if dryRun {
			report.Created = append(report.Created, name)
			continue
		}

		data := map[string]interface{}{
			"createdAt":     uc.now().UTC().Format(time.RFC3339),
			"info":          fmt.Sprintf("This is a placeholder document for %s collection", name),
			"isPlaceholder": true,
		}
		if err := uc.writer.Put(ctx, name, PlaceholderDocID, data); err != nil {
			report.Failed = name
			logger.Error("Bootstrap: collection %s failed: %v", name, err)
			return report, fmt.Errorf("create collection %s: %w", name, err)
		}
		report.Created = append(report.Created, name)
		logger.Info("Bootstrap: collection %s ready", name)
	}

	return report, nil
}
