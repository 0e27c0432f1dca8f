// Package payment содержит бизнес-логику платёжного потока:
// инициацию платёжной сессии и сверку платежа со шлюзом.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/agrichain/subscription-platform/internal/events"
	"github.com/agrichain/subscription-platform/internal/lib/reference"
	"github.com/agrichain/subscription-platform/internal/lib/sl"
	"github.com/agrichain/subscription-platform/internal/metrics"
	"github.com/agrichain/subscription-platform/internal/models"
	"github.com/agrichain/subscription-platform/internal/paystack"
	subsvc "github.com/agrichain/subscription-platform/internal/services/subscription"
)

// Ledger определяет методы реестра подписок, нужные платёжному потоку.
type Ledger interface {
	// CreatePendingSubscription вставляет новую pending-запись.
	CreatePendingSubscription(ctx context.Context, sub models.Subscription) (int, error)
	// FindByReference возвращает запись по ссылке корреляции.
	FindByReference(ctx context.Context, ref string) (*models.Subscription, error)
	// ActivateByReference идемпотентно активирует запись и назначает период.
	ActivateByReference(ctx context.Context, ref string, periodStart, periodEnd time.Time) (*models.Subscription, error)
}

// ProfileRepository определяет чтение профиля владельца платежа.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userUID string) (*models.Profile, error)
}

// Gateway описывает контракт платёжного шлюза: initialize/verify.
type Gateway interface {
	Initialize(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeData, error)
	Verify(ctx context.Context, ref string) (*paystack.VerifyData, error)
}

// CacheInvalidator сбрасывает кеш текущей подписки после смены статуса.
type CacheInvalidator interface {
	Invalidate(key string) error
}

// EventPublisher публикует события смены статуса подписки.
type EventPublisher interface {
	Publish(routingKey string, event events.SubscriptionEvent) error
}

// Service реализует инициацию и сверку платежей.
type Service struct {
	ledger   Ledger
	profiles ProfileRepository
	gateway  Gateway
	cache    CacheInvalidator
	events   EventPublisher
	catalog  models.Catalog
	log      *slog.Logger

	callbackURL string
	currency    string
}

// New создает новый экземпляр Service.
func New(ledger Ledger, profiles ProfileRepository, gateway Gateway,
	cache CacheInvalidator, eventPublisher EventPublisher, catalog models.Catalog,
	callbackURL, currency string, log *slog.Logger) *Service {
	return &Service{
		ledger:      ledger,
		profiles:    profiles,
		gateway:     gateway,
		cache:       cache,
		events:      eventPublisher,
		catalog:     catalog,
		callbackURL: callbackURL,
		currency:    currency,
		log:         log,
	}
}

// InitiateResult результат инициации платёжной сессии.
type InitiateResult struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

// Initiate создаёт pending-подписку и платёжную сессию на стороне шлюза.
//
// Сумма в запросе сверяется с каноничной ценой плана из каталога до любого
// обращения к шлюзу: подделанная или устаревшая цена отклоняется с
// models.ErrInvalidPlanOrAmount. Каждый вызов создаёт ровно одну новую
// pending-запись; повторные инициации дают независимые записи, активируется
// только подтверждённая шлюзом.
func (s *Service) Initiate(ctx context.Context, userUID, email string, planType models.PlanType, amount int) (*InitiateResult, error) {
	const op = "payment.Initiate"

	if userUID == "" || email == "" {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}

	profile, err := s.profiles.GetProfile(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	plan, ok := s.catalog.Find(planType)
	if !ok || amount != plan.Amount {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidPlanOrAmount)
	}

	// План зеркалит роль: покупатель не может оплатить план производителя.
	if profile.Role != models.RoleAdmin && planType.Role() != profile.Role {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidPlanOrAmount)
	}

	ref, err := reference.Mint(userUID, time.Now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if _, err = s.ledger.CreatePendingSubscription(ctx, models.Subscription{
		UserUID:   userUID,
		PlanType:  planType,
		Amount:    plan.AmountMinorUnits(),
		Status:    models.StatusPending,
		Reference: ref,
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Ссылка дублируется в callback-URL: обратный редирект остаётся
	// самокоррелирующим, как бы шлюз ни назвал свой query-параметр.
	callback := fmt.Sprintf("%s?reference=%s", s.callbackURL, url.QueryEscape(ref))

	initData, err := s.gateway.Initialize(ctx, paystack.InitializeRequest{
		Email:       email,
		Amount:      plan.AmountMinorUnits(),
		Reference:   ref,
		Currency:    s.currency,
		CallbackURL: callback,
		Metadata: map[string]string{
			"user_id":    userUID,
			"plan_type":  string(planType),
			"user_name":  profile.Name,
			"user_phone": profile.Phone,
		},
	})
	if err != nil {
		s.log.Error("gateway initialize failed", sl.Err(err), slog.String("reference", ref))
		return nil, fmt.Errorf("%s: %w", op, errors.Join(models.ErrGatewayInit, err))
	}

	metrics.PaymentsInitiated.WithLabelValues(string(planType)).Inc()
	s.log.Info("payment session initiated",
		slog.String("user_uid", userUID),
		slog.String("plan_type", string(planType)),
		slog.String("reference", ref))

	return &InitiateResult{
		AuthorizationURL: initData.AuthorizationURL,
		Reference:        ref,
	}, nil
}

// ReconcileResult результат сверки платежа со шлюзом.
type ReconcileResult struct {
	Verified           bool                 `json:"verified"`
	SubscriptionActive bool                 `json:"subscription_active"`
	Amount             int                  `json:"amount,omitempty"`
	PaidAt             string               `json:"paid_at,omitempty"`
	Message            string               `json:"message,omitempty"`
	Subscription       *models.Subscription `json:"-"`
}

// Reconcile сверяет платёж по ссылке корреляции с данными шлюза и приводит
// локальную запись в соответствие. Источник истины — только ответ verify;
// "успех" из клиентского редиректа не учитывается.
//
// Неуспешная транзакция возвращает verified=false с текстом причины от шлюза
// и не мутирует состояние. Повторная сверка уже активной записи возвращает
// тот же результат с тем же периодом: период не продлевается и не
// дублируется. Терминальные записи (expired, cancelled) не воскрешаются.
func (s *Service) Reconcile(ctx context.Context, ref string) (*ReconcileResult, error) {
	const op = "payment.Reconcile"

	data, err := s.gateway.Verify(ctx, ref)
	if err != nil {
		s.log.Error("gateway verify failed", sl.Err(err), slog.String("reference", ref))
		metrics.PaymentsVerified.WithLabelValues("gateway_error").Inc()
		return nil, fmt.Errorf("%s: %w", op, errors.Join(models.ErrGatewayVerify, err))
	}

	if data.Status != paystack.TransactionSuccess {
		s.log.Info("transaction not successful",
			slog.String("reference", ref), slog.String("status", data.Status))
		metrics.PaymentsVerified.WithLabelValues("failed").Inc()
		return &ReconcileResult{
			Verified: false,
			Message:  data.GatewayResponse,
		}, nil
	}

	sub, err := s.ledger.FindByReference(ctx, ref)
	if err != nil {
		if errors.Is(err, models.ErrSubscriptionNotFound) {
			// Шлюз подтвердил платёж, которого мы не инициировали:
			// баг консистентности или поддельная ссылка.
			s.log.Error("verified payment without local pending record",
				slog.String("reference", ref))
			metrics.PaymentsVerified.WithLabelValues("mismatch").Inc()
			return nil, fmt.Errorf("%s: %w", op, models.ErrReconciliationMismatch)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now()
	switch sub.Status {
	case models.StatusActive:
		// Повторная сверка: результат уже применён, период не трогаем.
		metrics.PaymentsVerified.WithLabelValues("replay").Inc()
		return &ReconcileResult{
			Verified:           true,
			SubscriptionActive: sub.GrantsAccessAt(now),
			Amount:             data.Amount,
			PaidAt:             data.PaidAt,
			Subscription:       sub,
		}, nil
	case models.StatusExpired, models.StatusCancelled:
		// Терминальная запись: продление всегда идёт через новую инициацию.
		metrics.PaymentsVerified.WithLabelValues("terminal").Inc()
		return &ReconcileResult{
			Verified:           true,
			SubscriptionActive: false,
			Amount:             data.Amount,
			PaidAt:             data.PaidAt,
			Subscription:       sub,
		}, nil
	}

	plan, ok := s.catalog.Find(sub.PlanType)
	if !ok {
		return nil, fmt.Errorf("%s: unknown plan type %q", op, sub.PlanType)
	}

	activated, err := s.ledger.ActivateByReference(ctx, ref, now, plan.PeriodEnd(now))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheKey := subsvc.CacheKey(activated.UserUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	if s.events != nil {
		event := events.SubscriptionEvent{
			UserUID:    activated.UserUID,
			PlanType:   string(activated.PlanType),
			Reference:  activated.Reference,
			Status:     string(activated.Status),
			PeriodEnd:  activated.PeriodEnd,
			OccurredAt: now,
		}
		if err := s.events.Publish(events.RouteActivated, event); err != nil {
			s.log.Warn("failed to publish activation event", sl.Err(err))
		}
	}

	metrics.PaymentsVerified.WithLabelValues("activated").Inc()
	s.log.Info("subscription activated",
		slog.String("user_uid", activated.UserUID),
		slog.String("reference", ref))

	return &ReconcileResult{
		Verified:           true,
		SubscriptionActive: true,
		Amount:             data.Amount,
		PaidAt:             data.PaidAt,
		Subscription:       activated,
	}, nil
}
