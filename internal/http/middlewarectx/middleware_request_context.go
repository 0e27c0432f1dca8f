package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/agrichain/subscription-platform/internal/http/response"
	"github.com/agrichain/subscription-platform/internal/lib/sl"
	"github.com/agrichain/subscription-platform/internal/models"
)

// ProfileService определяет чтение профиля вызывающего.
type ProfileService interface {
	Get(ctx context.Context, userUID string) (*models.Profile, error)
}

// SubscriptionService определяет чтение текущей подписки вызывающего.
// Чтение проходит через свипер: статус нормализован на момент запроса.
type SubscriptionService interface {
	Current(ctx context.Context, userUID string) (*models.Subscription, error)
}

// RequestContextMiddleware собирает RequestContext запроса: профиль и
// текущую подписку вызывающего. Отсутствие профиля у живой identity — это
// сигнал пересоздать аккаунт, запрос дальше не идёт и профиль не создаётся.
// Отсутствие записей подписки — штатное состояние (Subscription = nil).
func RequestContextMiddleware(profiles ProfileService, subscriptions SubscriptionService, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequestContextMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			userUID, ok := r.Context().Value(UserUID).(string)
			if !ok || userUID == "" {
				log.Error("user identification missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}
			email, _ := r.Context().Value(Email).(string)

			prof, err := profiles.Get(r.Context(), userUID)
			if err != nil {
				if errors.Is(err, models.ErrProfileNotFound) {
					log.Error("profile missing for authenticated identity",
						slog.String("user_uid", userUID))
					render.Status(r, http.StatusConflict)
					render.JSON(w, r, response.Error("profile not found, account must be re-registered"))
					return
				}
				log.Error("failed to load profile", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			sub, err := subscriptions.Current(r.Context(), userUID)
			if err != nil && !errors.Is(err, models.ErrSubscriptionNotFound) {
				log.Error("failed to load current subscription", sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal service error"))
				return
			}

			rc := &RequestContext{
				UserUID:      userUID,
				Email:        email,
				Profile:      prof,
				Subscription: sub,
			}
			next.ServeHTTP(w, r.WithContext(WithRequestContext(r.Context(), rc)))
		})
	}
}
