// Package current реализует HTTP-обработчик чтения текущей подписки.
package current

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/agrichain/subscription-platform/internal/http/middlewarectx"
	"github.com/agrichain/subscription-platform/internal/http/response"
)

// Handler обрабатывает запросы на чтение текущей подписки вызывающего.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Текущая подписка пользователя
// @Description Возвращает самую показательную запись подписки, статус нормализован на момент запроса
// @Tags Subscriptions
// @Produce  json
// @Success 200 {object} response.Response "Текущая подписка"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "Записей подписки нет"
// @Router /subscriptions/current [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.current"

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

	if rc.Subscription == nil {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, response.Error("no subscription found"))
		return
	}

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription": rc.Subscription,
	}))
}
