// Package check реализует HTTP-обработчик вычисления решения политики доступа.
//
// Обработчик только возвращает решение для ресурса, ничего не блокируя:
// фронтенд использует его, чтобы заранее показать экран оплаты или отказ.
package check

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/agrichain/subscription-platform/internal/http/middlewarectx"
	"github.com/agrichain/subscription-platform/internal/http/response"
	"github.com/agrichain/subscription-platform/internal/metrics"
	"github.com/agrichain/subscription-platform/internal/services/access"
)

// Handler обрабатывает запросы проверки доступа к ресурсу.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Решение политики доступа
// @Description Вычисляет решение политики доступа к именованному ресурсу без его блокировки
// @Tags Access
// @Produce  json
// @Param resource query string true "Имя ресурса"
// @Success 200 {object} response.DecisionResponse "Решение политики"
// @Failure 400 {object} response.ErrorResponse "Неизвестный ресурс"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /access/check [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.check"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	rc, ok := middlewarectx.FromRequest(r)
	if !ok {
		log.Error("request context missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	name := r.URL.Query().Get("resource")
	res, ok := access.ResourceByName(name)
	if !ok {
		log.Error("unknown resource requested", slog.String("resource", name))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("unknown resource"))
		return
	}

	decision := access.Decide(rc.Profile, rc.Subscription, res, time.Now())
	metrics.AccessDecisions.WithLabelValues(string(decision)).Inc()

	log.Info("access decision computed",
		slog.String("user_uid", rc.UserUID),
		slog.String("resource", res.Name),
		slog.String("decision", string(decision)))
	render.JSON(w, r, response.DecisionResponse{
		Status:   response.StatusOK,
		Decision: string(decision),
	})
}
