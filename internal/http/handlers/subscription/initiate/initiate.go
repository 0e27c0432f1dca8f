// Package initiate реализует HTTP-обработчик инициации платёжной сессии.
package initiate

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
	"github.com/agrichain/subscription-platform/internal/services/payment"
)

// Request представляет запрос на инициацию оплаты подписки.
type Request struct {
	PlanType string `json:"plan_type" validate:"required,oneof=producer buyer"`
	Amount   int    `json:"amount" validate:"required,gt=0"`
}

// Service описывает интерфейс платёжного сервиса для инициации.
type Service interface {
	Initiate(ctx context.Context, userUID, email string, planType models.PlanType, amount int) (*payment.InitiateResult, error)
}

// Handler обрабатывает запросы на инициацию платёжной сессии.
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
// @Summary Инициировать оплату подписки
// @Description Создает pending-подписку и платёжную сессию, возвращает URL оплаты
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body Request true "План и сумма"
// @Success 200 {object} response.Response "URL авторизации и ссылка корреляции"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Профиль не найден"
// @Failure 422 {object} response.Response "Неверный план или сумма"
// @Failure 502 {object} response.ErrorResponse "Платёжный шлюз недоступен"
// @Router /subscriptions/initiate [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.initiate"

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

	result, err := h.service.Initiate(r.Context(), rc.UserUID, rc.Email, models.PlanType(req.PlanType), req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnauthorized):
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Error("unauthorized"))
		case errors.Is(err, models.ErrProfileNotFound):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.Error("profile not found, account must be re-registered"))
		case errors.Is(err, models.ErrInvalidPlanOrAmount):
			log.Error("plan or amount rejected",
				slog.String("plan_type", req.PlanType), slog.Int("amount", req.Amount))
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, response.Error("invalid plan type or amount"))
		case errors.Is(err, models.ErrGatewayInit):
			log.Error("payment gateway initialization failed", sl.Err(err))
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment gateway unavailable"))
		default:
			log.Error("failed to initiate payment", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not initiate payment"))
		}
		return
	}

	log.Info("payment initiated",
		slog.String("user_uid", rc.UserUID), slog.String("reference", result.Reference))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"authorization_url": result.AuthorizationURL,
		"reference":         result.Reference,
	}))
}
