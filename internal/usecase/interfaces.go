package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"mateswap/internal/domain/entity"
	"mateswap/internal/infrastructure/metrics"
	"mateswap/pkg/errors"
	"mateswap/pkg/logger"
)

// ImageStore keeps listing images in object storage.
type ImageStore interface {
	UploadFile(ctx context.Context, file io.Reader, contentType, folder string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
}

// ChatNotifier announces that the message list of a chat changed.
type ChatNotifier interface {
	PublishChatUpdated(ctx context.Context, chatID string) error
}

type ActionLimiter interface {
	Allow(userID, action string) (bool, time.Duration)
}

func checkLimit(limiter ActionLimiter, identity *entity.Identity, action string) error {
	if limiter == nil {
		return nil
	}
	if ok, wait := limiter.Allow(identity.UID, action); !ok {
		return errors.TooManyRequests(fmt.Sprintf("Too many %s requests, try again later", action), wait)
	}
	return nil
}

func requireIdentity(identity *entity.Identity) error {
	if identity == nil || identity.UID == "" {
		return errors.Unauthorized("Authentication required", nil)
	}
	return nil
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

func publishChatUpdate(ctx context.Context, notifier ChatNotifier, chatID string) {
	if notifier == nil {
		return
	}
	if err := notifier.PublishChatUpdated(ctx, chatID); err != nil {
		logger.Warn("publish chat update for %s failed: %v", chatID, err)
		metrics.DenormalizationFailed("chat_update_publish")
	}
}
