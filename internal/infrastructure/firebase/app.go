package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"

	"mateswap/pkg/config"
	"mateswap/pkg/logger"
)

// Clients holds the Firebase services the server talks to.
type Clients struct {
	Auth      *auth.Client
	Firestore *firestore.Client
	Database  *db.Client
	Option    option.ClientOption
}

// CredentialsOption prefers inline service account JSON and falls back to a
// credentials file. With neither set, application default credentials apply.
func CredentialsOption(cfg *config.Config) (option.ClientOption, error) {
	if cfg.FirebaseCredentialsJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return option.WithCredentialsJSON([]byte(cfg.FirebaseCredentialsJSON)), nil
	}
	if cfg.FirebaseCredentialsPath != "" {
		if _, err := os.Stat(cfg.FirebaseCredentialsPath); err != nil {
			return nil, fmt.Errorf("service account file %s: %w", cfg.FirebaseCredentialsPath, err)
		}
		logger.Info("Using Firebase service account from file: %s", cfg.FirebaseCredentialsPath)
		return option.WithCredentialsFile(cfg.FirebaseCredentialsPath), nil
	}
	return nil, nil
}

func NewClients(ctx context.Context, cfg *config.Config) (*Clients, error) {
	opt, err := CredentialsOption(cfg)
	if err != nil {
		return nil, err
	}
	var opts []option.ClientOption
	if opt != nil {
		opts = append(opts, opt)
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:     cfg.FirebaseProject,
		DatabaseURL:   cfg.FirebaseDatabaseURL,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase auth: %w", err)
	}

	firestoreClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	dbClient, err := app.Database(ctx)
	if err != nil {
		firestoreClient.Close()
		return nil, fmt.Errorf("create realtime database client: %w", err)
	}

	return &Clients{
		Auth:      authClient,
		Firestore: firestoreClient,
		Database:  dbClient,
		Option:    opt,
	}, nil
}

// NewFirestore opens only the document store, for tools that do not need
// auth or the realtime database.
func NewFirestore(ctx context.Context, cfg *config.Config) (*firestore.Client, error) {
	opt, err := CredentialsOption(cfg)
	if err != nil {
		return nil, err
	}
	var opts []option.ClientOption
	if opt != nil {
		opts = append(opts, opt)
	}
	client, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return client, nil
}

func (c *Clients) Close() {
	if c.Firestore != nil {
		if err := c.Firestore.Close(); err != nil {
			logger.Warn("Firestore close error: %v", err)
		}
	}
}
