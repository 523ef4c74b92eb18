package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"mateswap/internal/adapter/api"
	"mateswap/internal/adapter/api/handler"
	apimiddleware "mateswap/internal/adapter/api/middleware"
	"mateswap/internal/adapter/api/router"
	"mateswap/internal/adapter/repository"
	"mateswap/internal/infrastructure/cache"
	"mateswap/internal/infrastructure/firebase"
	"mateswap/internal/infrastructure/notifications"
	"mateswap/internal/infrastructure/ratelimit"
	"mateswap/internal/infrastructure/storage"
	"mateswap/internal/infrastructure/websocket"
	"mateswap/internal/usecase"
	"mateswap/pkg/config"
	"mateswap/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: %v", err)
	}
	logger.Init(cfg.LogLevel, cfg.Environment)
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clients, err := firebase.NewClients(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize Firebase: %v", err)
	}
	defer clients.Close()

	var storageOpts []option.ClientOption
	if clients.Option != nil {
		storageOpts = append(storageOpts, clients.Option)
	}
	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, storageOpts...)
	if err != nil {
		logger.Fatal("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	redisClient := cache.NewRedisClient(ctx, cfg.RedisURL)
	if redisClient != nil {
		defer redisClient.Close()
	}

	userRepo := repository.NewFirestoreUserRepository(clients.Firestore)
	productRepo := repository.NewFirestoreProductRepository(clients.Firestore)
	favoriteRepo := repository.NewFirestoreFavoriteRepository(clients.Firestore)
	chatRepo := repository.NewFirestoreChatRepository(clients.Firestore)
	walletRepo := repository.NewFirestoreWalletAddressRepository(clients.Firestore)
	notificationRepo := repository.NewFirestoreAdminNotificationRepository(clients.Firestore)
	logoRepo := cache.NewChannelLogoCache(
		repository.NewFirestoreChannelLogoRepository(clients.Firestore),
		redisClient,
		cfg.ChannelLogoCacheTTL,
		0,
	)
	messageStore := repository.NewRTDBMessageStore(clients.Database)
	adminRequestStore := repository.NewRTDBAdminRequestStore(clients.Database)

	notifier := notifications.NewNotifier(redisClient)
	limiter := ratelimit.NewRateLimiter(nil)
	limiter.StartCleanupRoutine(ctx, 10*time.Minute)

	chatUseCase := usecase.NewChatUseCase(chatRepo, messageStore, adminRequestStore, notifier, limiter)
	useCases := handler.UseCases{
		Product:  usecase.NewProductUseCase(productRepo, favoriteRepo, usecase.NewChannelLogoService(logoRepo, productRepo), storageClient),
		Favorite: usecase.NewFavoriteUseCase(favoriteRepo, productRepo),
		Contact:  usecase.NewContactUseCase(productRepo, chatRepo, messageStore, notifier, limiter),
		Chat:     chatUseCase,
		Escrow:   usecase.NewEscrowUseCase(chatRepo, messageStore, walletRepo, notificationRepo, limiter),
		Admin:    usecase.NewAdminUseCase(notificationRepo, adminRequestStore),
	}

	wsManager := websocket.NewManager(chatUseCase.Snapshot, chatUseCase.Authorize)
	wsManager.Start(ctx)
	if err := notifier.StartChatSubscriber(ctx, wsManager.NotifyChatUpdated); err != nil {
		logger.Fatal("Failed to subscribe to chat updates: %v", err)
	}

	authMiddleware := apimiddleware.NewAuthMiddleware(firebase.NewFirebaseAuthClient(clients.Auth))
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	handler.Setup(useCases, wsManager, authMiddleware)

	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.IsDevelopment()
	e.Validator = api.NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Zap().Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
			)
			return nil
		},
	}))
	e.Use(apimiddleware.IPRateLimit(cfg.RateLimitPerMinute))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	router.Setup(e, authMiddleware, adminMiddleware)

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error: %v", err)
	}
	<-wsManager.Done()
}
