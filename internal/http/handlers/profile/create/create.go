// Package create реализует HTTP-обработчик создания профиля пользователя.
//
// Профиль создаётся один раз на identity; роль фиксируется при создании
// и через этот обработчик может быть только producer или buyer.
package create

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/agrichain/subscription-platform/internal/http/middlewarectx"
	"github.com/agrichain/subscription-platform/internal/http/response"
	"github.com/agrichain/subscription-platform/internal/lib/sl"
	"github.com/agrichain/subscription-platform/internal/models"
)

// Request представляет запрос на создание профиля.
type Request struct {
	Name     string `json:"name" validate:"required"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Role     string `json:"role" validate:"required,oneof=producer buyer"`
}

// Service описывает интерфейс бизнес-логики создания профиля.
type Service interface {
	Create(ctx context.Context, profile models.Profile) (*models.Profile, error)
}

// Handler обрабатывает запросы на создание профиля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать профиль пользователя
// @Description Создает профиль для аутентифицированной identity, роль фиксируется при создании
// @Tags Profiles
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные профиля"
// @Success 200 {object} response.Response "Профиль создан"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Профиль уже существует"
// @Failure 422 {object} response.Response "Ошибка валидации"
// @Router /profiles [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.profile.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user UID not found in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("invalid request", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	prof, err := h.service.Create(r.Context(), models.Profile{
		UserUID:  userUID,
		Name:     req.Name,
		Phone:    req.Phone,
		Location: req.Location,
		Role:     models.Role(req.Role),
	})
	if err != nil {
		if errors.Is(err, models.ErrProfileExists) {
			log.Error("profile already exists", slog.String("user_uid", userUID))
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("profile already exists"))
			return
		}
		log.Error("failed to create profile", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create profile"))
		return
	}

	log.Info("created new profile", slog.String("user_uid", userUID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"profile": prof,
	}))
}
