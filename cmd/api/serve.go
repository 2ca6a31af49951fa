package main

import (
	"context"
	stderrors "errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"ecosprout/internal/adapter/api"
	"ecosprout/internal/adapter/api/handler"
	apimiddleware "ecosprout/internal/adapter/api/middleware"
	"ecosprout/internal/adapter/api/router"
	"ecosprout/internal/infrastructure/ratelimit"
	"ecosprout/pkg/config"
	"ecosprout/pkg/logger"
	"ecosprout/pkg/response"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Configure(cfg.Environment)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	e := newServer(ctx, app)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...")
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newServer(ctx context.Context, app *application) *echo.Echo {
	cfg := app.cfg

	handler.Setup(app.authUseCase, app.userUseCase, app.itemUseCase, app.verificationUseCase, app.transactionUseCase)
	handler.SetupHealthHandler(cfg.Environment, app.healthChecks())

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = response.HTTPErrorHandler

	authMiddleware := apimiddleware.NewAuthMiddleware(app.tokens)
	adminMiddleware := apimiddleware.NewAdminMiddleware(app.store.users)

	limits := router.Limits{
		General: ratelimit.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst),
		Auth:    ratelimit.NewRateLimiter(cfg.RateLimit.AuthRequestsPerSecond, cfg.RateLimit.AuthBurst),
	}
	limits.General.StartCleanupRoutine(ctx)
	limits.Auth.StartCleanupRoutine(ctx)

	// A nil *ListingCache must not reach the interface.
	var listingCache apimiddleware.ResponseCache
	if app.listingCache != nil {
		listingCache = app.listingCache
	}

	router.Setup(e, authMiddleware, adminMiddleware, limits, listingCache)
	return e
}
