// Package agrichain собирает зависимости платформы подписок и запускает
// HTTP-сервер с корректным завершением.
package agrichain

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/agrichain/subscription-platform/internal/cache"
	"github.com/agrichain/subscription-platform/internal/config"
	"github.com/agrichain/subscription-platform/internal/events"
	"github.com/agrichain/subscription-platform/internal/lib/jwt"
	"github.com/agrichain/subscription-platform/internal/lib/sl"
	"github.com/agrichain/subscription-platform/internal/migrations"
	"github.com/agrichain/subscription-platform/internal/paystack"
	paymentservice "github.com/agrichain/subscription-platform/internal/services/payment"
	profileservice "github.com/agrichain/subscription-platform/internal/services/profile"
	subservice "github.com/agrichain/subscription-platform/internal/services/subscription"
	"github.com/agrichain/subscription-platform/internal/storage/repository"
)

// App агрегирует зависимости приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	rabbit *events.Publisher
}

// New собирает приложение: хранилище, миграции, кеш, события, шлюз, сервисы.
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

	// Брокер не критичен для платёжного потока: без него события
	// просто не публикуются, сервис продолжает работать.
	var publisher *events.Publisher
	conn, err := events.Connect(cfg.RabbitConnection.AddressRabbit, cfg.RabbitConnection.Retries, cfg.RabbitConnection.RetryDelay)
	if err != nil {
		logger.Warn("rabbitmq unavailable, events disabled", sl.Err(err))
	} else {
		publisher, err = events.NewPublisher(conn)
		if err != nil {
			logger.Warn("failed to create event publisher, events disabled", sl.Err(err))
			publisher = nil
		}
	}

	gateway := paystack.NewClient(cfg.Paystack.SecretKey, cfg.Paystack.APIURL, cfg.Paystack.Timeout)
	tokenParser := jwt.NewMaker(cfg.JWTToken.JWTSecretKey, 24*time.Hour)
	catalog := cfg.Plans.Catalog()

	profileService := profileservice.New(db, logger)
	subscriptionService := subservice.New(db, cacheRedis, eventPublisher(publisher), logger)
	paymentService := paymentservice.New(db, db, gateway, cacheRedis, eventPublisher(publisher), catalog,
		cfg.Paystack.CallbackURL, cfg.Paystack.Currency, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, tokenParser, profileService, subscriptionService, paymentService)

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
		rabbit: publisher,
	}, nil
}

// eventPublisher оборачивает publisher, не превращая nil *Publisher
// в ненулевой интерфейс.
func eventPublisher(p *events.Publisher) subservice.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}

// Run запускает HTTP-сервер и блокируется до отмены контекста или ошибки.
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
		if a.rabbit != nil {
			if cerr := a.rabbit.Close(); cerr != nil {
				a.logger.Warn("failed to close event publisher", sl.Err(cerr))
			}
		}
		a.db.DB.Close()
		return err
	}
}
