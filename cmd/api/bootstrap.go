package main

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/redis/go-redis/v9"

	"ecosprout/internal/adapter/api/handler"
	"ecosprout/internal/adapter/repository"
	domainrepo "ecosprout/internal/domain/repository"
	"ecosprout/internal/domain/service"
	"ecosprout/internal/infrastructure/auth"
	"ecosprout/internal/infrastructure/cache"
	"ecosprout/internal/infrastructure/digilocker"
	"ecosprout/internal/infrastructure/firebase"
	"ecosprout/internal/infrastructure/mq"
	"ecosprout/internal/infrastructure/storage"
	"ecosprout/internal/usecase"
	"ecosprout/pkg/config"
	"ecosprout/pkg/logger"
)

// store groups the repositories of one database driver with its lifecycle hooks.
type store struct {
	users        domainrepo.UserRepository
	items        domainrepo.ItemRepository
	transactions domainrepo.TransactionRepository
	ping         func(ctx context.Context) error
	close        func() error
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (*store, error) {
	switch cfg.Driver {
	case "firestore":
		client, err := connectFirestore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &store{
			users:        repository.NewFirestoreUserRepository(client),
			items:        repository.NewFirestoreItemRepository(client),
			transactions: repository.NewFirestoreTransactionRepository(client),
			ping:         func(ctx context.Context) error { return pingFirestore(ctx, client) },
			close:        client.Close,
		}, nil

	case "mongo":
		client, db, err := repository.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.ConnectRetries, cfg.ConnectRetryDelay)
		if err != nil {
			return nil, err
		}
		return &store{
			users:        repository.NewMongoUserRepository(db),
			items:        repository.NewMongoItemRepository(db),
			transactions: repository.NewMongoTransactionRepository(db),
			ping:         func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:        func() error { return client.Disconnect(context.Background()) },
		}, nil

	case "memory":
		logger.Warn("Using in-memory store; data is lost on restart")
		return &store{
			users:        repository.NewMemoryUserRepository(),
			items:        repository.NewMemoryItemRepository(),
			transactions: repository.NewMemoryTransactionRepository(),
			ping:         func(context.Context) error { return nil },
			close:        func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// connectFirestore retries until a read succeeds, so a misconfigured project
// fails at startup instead of on the first request.
func connectFirestore(ctx context.Context, cfg config.DatabaseConfig) (*firestore.Client, error) {
	client, err := firebase.NewFirestoreClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	attempts := cfg.ConnectRetries
	if attempts <= 0 {
		attempts = 1
	}
	for i := 1; ; i++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = pingFirestore(pingCtx, client)
		cancel()
		if err == nil {
			logger.Info("Connected to Firestore project %s", cfg.FirebaseProject)
			return client, nil
		}
		logger.Warn("Firestore connection attempt %d/%d failed: %v", i, attempts, err)
		if i >= attempts {
			break
		}
		select {
		case <-ctx.Done():
			client.Close()
			return nil, ctx.Err()
		case <-time.After(cfg.ConnectRetryDelay):
		}
	}
	client.Close()
	return nil, fmt.Errorf("connect to firestore after %d attempts: %w", attempts, err)
}

func pingFirestore(ctx context.Context, client *firestore.Client) error {
	_, err := client.Collection("users").Limit(1).Documents(ctx).GetAll()
	return err
}

// application owns every long-lived client and the use cases built on them.
type application struct {
	cfg     *config.Config
	store   *store
	redis   *redis.Client
	events  *mq.Publisher
	storage service.FileStorage
	tokens  *auth.TokenManager

	authUseCase         *usecase.AuthUseCase
	userUseCase         *usecase.UserUseCase
	itemUseCase         *usecase.ItemUseCase
	verificationUseCase *usecase.VerificationUseCase
	transactionUseCase  *usecase.TransactionUseCase

	listingCache *cache.ListingCache
}

func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	st, err := openStore(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	app := &application{cfg: cfg, store: st}

	app.redis = cache.NewRedisClient(cfg.Redis)
	var invalidator usecase.ListingInvalidator
	if app.redis != nil {
		app.listingCache = cache.NewListingCache(app.redis, cfg.Redis.CacheTTL)
		invalidator = app.listingCache
	}

	app.events, err = mq.New(ctx, cfg.MQ)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	app.storage, err = storage.New(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}
	if app.storage == nil {
		logger.Warn("No object storage configured; image uploads are disabled")
	}

	app.tokens = auth.NewTokenManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiry)*time.Second)
	hasher := auth.PasswordHasher{Cost: cfg.BcryptCost}
	verifier := digilocker.NewSimulator(cfg.DigiLocker)

	app.authUseCase = usecase.NewAuthUseCase(st.users, app.tokens, hasher)
	app.userUseCase = usecase.NewUserUseCase(st.users, hasher)
	app.itemUseCase = usecase.NewItemUseCase(st.items, st.users, app.storage, app.events, invalidator)
	app.verificationUseCase = usecase.NewVerificationUseCase(st.users, verifier, app.events)
	app.transactionUseCase = usecase.NewTransactionUseCase(st.transactions, st.items, st.users, app.events, invalidator)

	return app, nil
}

func (a *application) healthChecks() map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{
		"database": a.store.ping,
	}
	if a.redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.redis.Ping(ctx).Err() }
	}
	return checks
}

// Close releases clients in reverse order of creation. Errors are logged only.
func (a *application) Close() {
	if a.storage != nil {
		if err := a.storage.Close(); err != nil {
			logger.Warn("Failed to close object storage: %v", err)
		}
	}
	if a.events != nil {
		if err := a.events.Close(); err != nil {
			logger.Warn("Failed to close message queue: %v", err)
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logger.Warn("Failed to close redis: %v", err)
		}
	}
	if err := a.store.close(); err != nil {
		logger.Warn("Failed to close store: %v", err)
	}
}
