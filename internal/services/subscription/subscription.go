// Package subscription содержит бизнес-логику чтения и административного
// управления подписками, включая ленивый свипер истечения.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/agrichain/subscription-platform/internal/events"
	"github.com/agrichain/subscription-platform/internal/lib/sl"
	"github.com/agrichain/subscription-platform/internal/models"
)

// CacheKey возвращает ключ кеша текущей подписки пользователя.
func CacheKey(userUID string) string {
	return fmt.Sprintf("subscription:current:%s", userUID)
}

// Repository определяет методы хранилища, нужные сервису подписок.
type Repository interface {
	// CurrentSubscription возвращает текущую подписку пользователя.
	CurrentSubscription(ctx context.Context, userUID string) (*models.Subscription, error)
	// MarkExpired понижает active-запись до expired.
	MarkExpired(ctx context.Context, id int) error
	// CancelSubscriptions отменяет незавершённые записи пользователя.
	CancelSubscriptions(ctx context.Context, userUID string) (int, error)
	// ListSubscriptions возвращает историю подписок пользователя.
	ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// EventPublisher публикует события смены статуса подписки.
type EventPublisher interface {
	Publish(routingKey string, event events.SubscriptionEvent) error
}

// Service реализует бизнес-логику работы с подписками.
type Service struct {
	repo   Repository
	cache  Cache
	events EventPublisher
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, eventPublisher EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		events: eventPublisher,
		log:    log,
	}
}

// Current возвращает текущую подписку пользователя, нормализовав её статус.
//
// Это и есть свипер истечения: если у active-записи period_end уже в прошлом,
// выполняется одна корректирующая запись в хранилище и вызывающему в том же
// вызове возвращается уже исправленная запись. Ошибка корректирующей записи
// не поднимается: решение о доступе всё равно перевычисляет истечение
// по period_end, а запись догонит следующая попытка.
//
// Отсутствие записей — models.ErrSubscriptionNotFound.
func (s *Service) Current(ctx context.Context, userUID string) (*models.Subscription, error) {
	const op = "subscription.Current"

	sub, err := s.lookup(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now()
	if !sub.ExpiredAt(now) {
		return sub, nil
	}

	if err := s.repo.MarkExpired(ctx, sub.ID); err != nil {
		s.log.Error("failed to demote expired subscription", sl.Err(err),
			slog.Int("id", sub.ID))
	} else {
		s.log.Info("subscription lazily expired",
			slog.String("user_uid", userUID), slog.Int("id", sub.ID))
		s.publish(events.RouteExpired, sub, models.StatusExpired)
	}
	sub.Status = models.StatusExpired

	cacheKey := CacheKey(userUID)
	if err := s.cache.Set(cacheKey, sub, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return sub, nil
}

func (s *Service) lookup(ctx context.Context, userUID string) (*models.Subscription, error) {
	var cached *models.Subscription
	cacheKey := CacheKey(userUID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("cache lookup failed", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found && cached != nil {
		return cached, nil
	}

	sub, err := s.repo.CurrentSubscription(ctx, userUID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(cacheKey, sub, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return sub, nil
}

// List возвращает историю подписок пользователя с пагинацией.
func (s *Service) List(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptions(ctx, userUID, limit, offset)
}

// Cancel административно отменяет незавершённые подписки пользователя.
// Единственный путь в статус cancelled: доступен только роли admin.
func (s *Service) Cancel(ctx context.Context, actor models.Role, targetUID string) (int, error) {
	const op = "subscription.Cancel"

	if actor != models.RoleAdmin {
		return 0, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}

	count, err := s.repo.CancelSubscriptions(ctx, targetUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	cacheKey := CacheKey(targetUID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	if count > 0 {
		s.log.Info("subscriptions cancelled by admin",
			slog.String("user_uid", targetUID), slog.Int("count", count))
		s.publish(events.RouteCancelled, &models.Subscription{UserUID: targetUID}, models.StatusCancelled)
	}
	return count, nil
}

func (s *Service) publish(route string, sub *models.Subscription, status models.SubscriptionStatus) {
	if s.events == nil {
		return
	}
	event := events.SubscriptionEvent{
		UserUID:    sub.UserUID,
		PlanType:   string(sub.PlanType),
		Reference:  sub.Reference,
		Status:     string(status),
		PeriodEnd:  sub.PeriodEnd,
		OccurredAt: time.Now(),
	}
	if err := s.events.Publish(route, event); err != nil {
		s.log.Warn("failed to publish subscription event", slog.String("route", route), sl.Err(err))
	}
}
