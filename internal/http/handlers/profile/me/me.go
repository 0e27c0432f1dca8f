// Package me реализует HTTP-обработчик чтения собственного профиля.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/agrichain/subscription-platform/internal/http/middlewarectx"
	"github.com/agrichain/subscription-platform/internal/http/response"
)

// Handler обрабатывает запросы на чтение профиля вызывающего.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Профиль текущего пользователя
// @Description Возвращает профиль и текущую подписку аутентифицированного пользователя
// @Tags Profiles
// @Produce  json
// @Success 200 {object} response.Response "Профиль и подписка"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Профиль не найден"
// @Router /profiles/me [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.me"

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

	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"profile":      rc.Profile,
		"subscription": rc.Subscription,
	}))
}
