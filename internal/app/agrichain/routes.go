// Package agrichain предоставляет маршруты платформы подписок.
package agrichain

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	accesscheck "github.com/agrichain/subscription-platform/internal/http/handlers/access/check"
	profilecreate "github.com/agrichain/subscription-platform/internal/http/handlers/profile/create"
	profileme "github.com/agrichain/subscription-platform/internal/http/handlers/profile/me"
	subcancel "github.com/agrichain/subscription-platform/internal/http/handlers/subscription/cancel"
	subcurrent "github.com/agrichain/subscription-platform/internal/http/handlers/subscription/current"
	subhistory "github.com/agrichain/subscription-platform/internal/http/handlers/subscription/history"
	subinitiate "github.com/agrichain/subscription-platform/internal/http/handlers/subscription/initiate"
	subverify "github.com/agrichain/subscription-platform/internal/http/handlers/subscription/verify"
	"github.com/agrichain/subscription-platform/internal/http/middlewarectx"
	"github.com/agrichain/subscription-platform/internal/services/access"
	paymentservice "github.com/agrichain/subscription-platform/internal/services/payment"
	profileservice "github.com/agrichain/subscription-platform/internal/services/profile"
	subservice "github.com/agrichain/subscription-platform/internal/services/subscription"
)

// RegisterRoutes регистрирует все маршруты приложения.
//
// Группы: после JWT идёт группа с RequestContext (профиль и подписка
// загружены), внутри неё административная группа под AccessGate.
// Создание профиля живёт вне RequestContext: у нового пользователя
// профиля ещё нет.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	tokenParser middlewarectx.TokenParser,
	profileService *profileservice.Service,
	subscriptionService *subservice.Service,
	paymentService *paymentservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(tokenParser, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/profiles", profilecreate.New(logger, profileService).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequestContextMiddleware(profileService, subscriptionService, logger))
				r.Get("/profiles/me", profileme.New(logger).ServeHTTP)
				r.Post("/subscriptions/initiate", subinitiate.New(logger, paymentService).ServeHTTP)
				r.Get("/subscriptions/verify", subverify.New(logger, paymentService).ServeHTTP)
				r.Get("/subscriptions/current", subcurrent.New(logger).ServeHTTP)
				r.Get("/subscriptions/history", subhistory.New(logger, subscriptionService).ServeHTTP)
				r.Get("/access/check", accesscheck.New(logger).ServeHTTP)

				r.Group(func(r chi.Router) {
					r.Use(middlewarectx.AccessGate(access.AdminPanel, logger))
					r.Post("/subscriptions/{user_uid}/cancel", subcancel.New(logger, subscriptionService).ServeHTTP)
				})
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
