// Package cancel реализует административный HTTP-обработчик отмены подписок.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/agrichain/subscription-platform/internal/http/middlewarectx"
	"github.com/agrichain/subscription-platform/internal/http/response"
	"github.com/agrichain/subscription-platform/internal/lib/sl"
	"github.com/agrichain/subscription-platform/internal/models"
)

// Service описывает интерфейс сервиса подписок для отмены.
type Service interface {
	Cancel(ctx context.Context, actor models.Role, targetUID string) (int, error)
}

// Handler обрабатывает административные запросы отмены подписок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отменить подписки пользователя
// @Description Отменяет active- и pending-подписки пользователя, только для роли admin
// @Tags Subscriptions
// @Produce  json
// @Param user_uid path string true "UID пользователя"
// @Success 200 {object} response.Response "Число отменённых записей"
// @Failure 400 {object} response.ErrorResponse "Некорректный UID"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Недостаточно прав"
// @Router /subscriptions/{user_uid}/cancel [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	rc, ok := middlewarectx.FromRequest(r)
	if !ok || rc.Profile == nil {
		log.Error("request context missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	targetUID := chi.URLParam(r, "user_uid")
	if _, err := uuid.Parse(targetUID); err != nil {
		log.Error("invalid target user UID", slog.String("user_uid", targetUID))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid user UID"))
		return
	}

	count, err := h.service.Cancel(r.Context(), rc.Profile.Role, targetUID)
	if err != nil {
		if errors.Is(err, models.ErrUnauthorized) {
			log.Error("cancel forbidden", slog.String("actor", rc.UserUID))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("admin role required"))
			return
		}
		log.Error("failed to cancel subscriptions", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not cancel subscriptions"))
		return
	}

	log.Info("subscriptions cancelled",
		slog.String("target_uid", targetUID), slog.Int("count", count))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"cancelled": count,
	}))
}
