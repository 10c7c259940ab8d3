// Package gymdesk собирает основное приложение стойки: хранилище, кэш,
// сервисы и HTTP-сервер с graceful shutdown.
package gymdesk

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/sunsetfitness/gym-desk/internal/cache"
	"github.com/sunsetfitness/gym-desk/internal/config"
	"github.com/sunsetfitness/gym-desk/internal/lib/jwt"
	"github.com/sunsetfitness/gym-desk/internal/migrations"
	authservice "github.com/sunsetfitness/gym-desk/internal/services/auth"
	checkinservice "github.com/sunsetfitness/gym-desk/internal/services/checkin"
	memberservice "github.com/sunsetfitness/gym-desk/internal/services/member"
	paymentservice "github.com/sunsetfitness/gym-desk/internal/services/payment"
	"github.com/sunsetfitness/gym-desk/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservice.NewAuthService(db, jwtMaker)
	memberService := memberservice.NewMemberService(db, cacheRedis, cfg.Billing, logger)
	checkinService := checkinservice.NewCheckinService(db, cacheRedis, cfg.Billing, logger)
	paymentService := paymentservice.NewPaymentService(db, cacheRedis, logger)

	router := chi.NewRouter()

	RegisterRoutes(router, logger, authService, memberService, checkinService, paymentService)

	router.Get("/docs/*", httpSwagger.WrapHandler)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
