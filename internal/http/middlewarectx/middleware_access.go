package middlewarectx

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/agrichain/subscription-platform/internal/http/response"
	"github.com/agrichain/subscription-platform/internal/metrics"
	"github.com/agrichain/subscription-platform/internal/services/access"
)

// Сообщения решений политики. Активация и продление различаются намеренно:
// при продлении пользователю важно знать, что данные сохранены
// и это не первый платёж.
const (
	msgActivation   = "payment required: complete the subscription payment to activate your account"
	msgRenewal      = "subscription expired: renew your subscription to restore access"
	msgUnauthorized = "you do not have permission to access this resource"
)

// AccessGate возвращает middleware, пропускающий запрос только при решении
// grant политики доступа для ресурса res. Ролевой отказ срабатывает раньше
// подписочных проверок: пользователь с чужой ролью не увидит экран оплаты.
func AccessGate(res access.Resource, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AccessGate"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			rc, ok := FromRequest(r)
			if !ok {
				log.Error("request context missing")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}

			decision := access.Decide(rc.Profile, rc.Subscription, res, time.Now())
			metrics.AccessDecisions.WithLabelValues(string(decision)).Inc()

			switch decision {
			case access.Grant:
				next.ServeHTTP(w, r)
			case access.DenyUnauthorized:
				log.Info("access denied by role",
					slog.String("user_uid", rc.UserUID), slog.String("resource", res.Name))
				render.Status(r, http.StatusForbidden)
				render.JSON(w, r, response.Blocked(string(decision), msgUnauthorized))
			case access.RequireActivation:
				log.Info("activation required",
					slog.String("user_uid", rc.UserUID), slog.String("resource", res.Name))
				render.Status(r, http.StatusPaymentRequired)
				render.JSON(w, r, response.Blocked(string(decision), msgActivation))
			case access.RequireRenewal:
				log.Info("renewal required",
					slog.String("user_uid", rc.UserUID), slog.String("resource", res.Name))
				render.Status(r, http.StatusPaymentRequired)
				render.JSON(w, r, response.Blocked(string(decision), msgRenewal))
			}
		})
	}
}
