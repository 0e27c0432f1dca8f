// Package history реализует HTTP-обработчик чтения истории подписок вызывающего.
package history

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/agrichain/subscription-platform/internal/http/middlewarectx"
	"github.com/agrichain/subscription-platform/internal/http/response"
	"github.com/agrichain/subscription-platform/internal/lib/sl"
	"github.com/agrichain/subscription-platform/internal/models"
)

// Service описывает интерфейс сервиса подписок для чтения истории.
type Service interface {
	List(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error)
}

// Handler обрабатывает запросы истории подписок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary История подписок пользователя
// @Description Возвращает записи подписок вызывающего с пагинацией, свежие первыми
// @Tags Subscriptions
// @Produce  json
// @Param limit query int false "Число записей, по умолчанию 10"
// @Param offset query int false "Смещение, по умолчанию 0"
// @Success 200 {object} response.Response "Список записей"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Router /subscriptions/history [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.history"

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

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	res, err := h.service.List(r.Context(), rc.UserUID, limit, offset)
	if err != nil {
		log.Error("failed to list subscriptions", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list subscriptions"))
		return
	}

	log.Info("listed subscriptions", slog.Int("count", len(res)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"list_count":    len(res),
		"subscriptions": res,
	}))
}
