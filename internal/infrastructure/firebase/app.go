package firebase

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"ecosprout/pkg/config"
	"ecosprout/pkg/logger"
)

// credentials prefers the inline service account JSON (production) and falls
// back to a key file. With neither set, application default credentials apply.
func credentials(cfg config.DatabaseConfig) ([]option.ClientOption, error) {
	if cfg.FirebaseServiceAccountJSON != "" {
		logger.Info("Using Firebase service account from environment variable")
		return []option.ClientOption{option.WithCredentialsJSON([]byte(cfg.FirebaseServiceAccountJSON))}, nil
	}
	if cfg.FirebaseServiceAccountPath != "" {
		if _, err := os.Stat(cfg.FirebaseServiceAccountPath); err != nil {
			return nil, fmt.Errorf("service account file %s: %w", cfg.FirebaseServiceAccountPath, err)
		}
		logger.Info("Using Firebase service account from file: %s", cfg.FirebaseServiceAccountPath)
		return []option.ClientOption{option.WithCredentialsFile(cfg.FirebaseServiceAccountPath)}, nil
	}
	logger.Info("Using application default credentials for Firebase")
	return nil, nil
}

// NewFirestoreClient initializes the Firebase app and opens its Firestore client.
func NewFirestoreClient(ctx context.Context, cfg config.DatabaseConfig) (*firestore.Client, error) {
	opts, err := credentials(cfg)
	if err != nil {
		return nil, err
	}

	app, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return client, nil
}
