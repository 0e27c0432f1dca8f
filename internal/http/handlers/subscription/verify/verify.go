// Package verify реализует HTTP-обработчик сверки платежа по ссылке корреляции.
//
// Обработчик принимает обратный редирект шлюза, поэтому ссылка читается
// из нескольких псевдонимов query-параметра: reference, trxref, tx_ref.
package verify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/agrichain/subscription-platform/internal/http/response"
	"github.com/agrichain/subscription-platform/internal/lib/reference"
	"github.com/agrichain/subscription-platform/internal/lib/sl"
	"github.com/agrichain/subscription-platform/internal/models"
	"github.com/agrichain/subscription-platform/internal/services/payment"
)

// Service описывает интерфейс платёжного сервиса для сверки.
type Service interface {
	Reconcile(ctx context.Context, ref string) (*payment.ReconcileResult, error)
}

// Handler обрабатывает запросы сверки платежа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Сверить платёж со шлюзом
// @Description Запрашивает статус транзакции у шлюза и активирует подписку при успехе
// @Tags Subscriptions
// @Produce  json
// @Param reference query string false "Ссылка корреляции"
// @Param trxref query string false "Псевдоним ссылки корреляции"
// @Param tx_ref query string false "Псевдоним ссылки корреляции"
// @Success 200 {object} response.Response "Результат сверки"
// @Failure 400 {object} response.ErrorResponse "Ссылка не передана"
// @Failure 409 {object} response.ErrorResponse "Платёж без локальной записи"
// @Failure 502 {object} response.ErrorResponse "Платёжный шлюз недоступен"
// @Router /subscriptions/verify [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.verify"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	ref := reference.Pick(q.Get("reference"), q.Get("trxref"), q.Get("tx_ref"))
	if ref == "" {
		log.Error("reference query parameter missing")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("payment reference is required"))
		return
	}

	result, err := h.service.Reconcile(r.Context(), ref)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrReconciliationMismatch):
			log.Error("verified payment has no local record", slog.String("reference", ref))
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("payment record mismatch, contact support"))
		case errors.Is(err, models.ErrGatewayVerify):
			log.Error("gateway verification failed", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment gateway unavailable"))
		default:
			log.Error("failed to reconcile payment", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not verify payment"))
		}
		return
	}

	log.Info("payment reconciled",
		slog.String("reference", ref),
		slog.Bool("verified", result.Verified),
		slog.Bool("subscription_active", result.SubscriptionActive))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"verification": result,
		"subscription": result.Subscription,
	}))
}
