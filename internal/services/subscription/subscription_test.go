package subscription

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/agrichain/subscription-platform/internal/events"
	"github.com/agrichain/subscription-platform/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CurrentSubscription(ctx context.Context, userUID string) (*models.Subscription, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *MockRepository) MarkExpired(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRepository) CancelSubscriptions(ctx context.Context, userUID string) (int, error) {
	args := m.Called(ctx, userUID)
	return args.Int(0), args.Error(1)
}

func (m *MockRepository) ListSubscriptions(ctx context.Context, userUID string, limit, offset int) ([]*models.Subscription, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

type MockEvents struct {
	mock.Mock
}

func (m *MockEvents) Publish(routingKey string, event events.SubscriptionEvent) error {
	args := m.Called(routingKey, event)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_Current(t *testing.T) {
	userUID := uuid.New().String()
	future := time.Now().AddDate(0, 1, 0)
	past := time.Now().AddDate(0, -1, 0)

	tests := []struct {
		name       string
		setupMocks func(*MockRepository, *MockCache, *MockEvents)
		wantErr    error
		wantStatus models.SubscriptionStatus
	}{
		{
			name: "active subscription returned as is",
			setupMocks: func(r *MockRepository, c *MockCache, _ *MockEvents) {
				c.On("Get", CacheKey(userUID), mock.Anything).Return(false, nil).Once()
				r.On("CurrentSubscription", mock.Anything, userUID).Return(&models.Subscription{
					ID: 1, UserUID: userUID, Status: models.StatusActive, PeriodEnd: &future,
				}, nil).Once()
				c.On("Set", CacheKey(userUID), mock.Anything, time.Hour).Return(nil).Once()
			},
			wantStatus: models.StatusActive,
		},
		{
			name: "stale active record lazily demoted",
			setupMocks: func(r *MockRepository, c *MockCache, e *MockEvents) {
				c.On("Get", CacheKey(userUID), mock.Anything).Return(false, nil).Once()
				r.On("CurrentSubscription", mock.Anything, userUID).Return(&models.Subscription{
					ID: 2, UserUID: userUID, Status: models.StatusActive, PeriodEnd: &past,
				}, nil).Once()
				r.On("MarkExpired", mock.Anything, 2).Return(nil).Once()
				e.On("Publish", events.RouteExpired, mock.Anything).Return(nil).Once()
				// первый Set кеширует прочитанную запись, второй исправленную
				c.On("Set", CacheKey(userUID), mock.Anything, time.Hour).Return(nil).Twice()
			},
			wantStatus: models.StatusExpired,
		},
		{
			name: "demotion write failure still returns corrected status",
			setupMocks: func(r *MockRepository, c *MockCache, _ *MockEvents) {
				c.On("Get", CacheKey(userUID), mock.Anything).Return(false, nil).Once()
				r.On("CurrentSubscription", mock.Anything, userUID).Return(&models.Subscription{
					ID: 3, UserUID: userUID, Status: models.StatusActive, PeriodEnd: &past,
				}, nil).Once()
				r.On("MarkExpired", mock.Anything, 3).Return(errors.New("db down")).Once()
				c.On("Set", CacheKey(userUID), mock.Anything, time.Hour).Return(nil).Twice()
			},
			wantStatus: models.StatusExpired,
		},
		{
			name: "no records",
			setupMocks: func(r *MockRepository, c *MockCache, _ *MockEvents) {
				c.On("Get", CacheKey(userUID), mock.Anything).Return(false, nil).Once()
				r.On("CurrentSubscription", mock.Anything, userUID).
					Return(nil, models.ErrSubscriptionNotFound).Once()
			},
			wantErr: models.ErrSubscriptionNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			cache := new(MockCache)
			publisher := new(MockEvents)
			service := New(repo, cache, publisher, newNoopLogger())

			tt.setupMocks(repo, cache, publisher)

			got, err := service.Current(context.Background(), userUID)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				require.NoError(t, err)
				require.NotNil(t, got)
				assert.Equal(t, tt.wantStatus, got.Status)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestService_Cancel(t *testing.T) {
	userUID := uuid.New().String()

	tests := []struct {
		name       string
		actor      models.Role
		setupMocks func(*MockRepository, *MockCache, *MockEvents)
		wantErr    error
		wantCount  int
	}{
		{
			name:  "admin cancels subscriptions",
			actor: models.RoleAdmin,
			setupMocks: func(r *MockRepository, c *MockCache, e *MockEvents) {
				r.On("CancelSubscriptions", mock.Anything, userUID).Return(2, nil).Once()
				c.On("Invalidate", CacheKey(userUID)).Return(nil).Once()
				e.On("Publish", events.RouteCancelled, mock.Anything).Return(nil).Once()
			},
			wantCount: 2,
		},
		{
			name:  "nothing to cancel publishes nothing",
			actor: models.RoleAdmin,
			setupMocks: func(r *MockRepository, c *MockCache, _ *MockEvents) {
				r.On("CancelSubscriptions", mock.Anything, userUID).Return(0, nil).Once()
				c.On("Invalidate", CacheKey(userUID)).Return(nil).Once()
			},
			wantCount: 0,
		},
		{
			name:       "producer cannot cancel",
			actor:      models.RoleProducer,
			setupMocks: func(_ *MockRepository, _ *MockCache, _ *MockEvents) {},
			wantErr:    models.ErrUnauthorized,
		},
		{
			name:       "buyer cannot cancel",
			actor:      models.RoleBuyer,
			setupMocks: func(_ *MockRepository, _ *MockCache, _ *MockEvents) {},
			wantErr:    models.ErrUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			cache := new(MockCache)
			publisher := new(MockEvents)
			service := New(repo, cache, publisher, newNoopLogger())

			tt.setupMocks(repo, cache, publisher)

			count, err := service.Cancel(context.Background(), tt.actor, userUID)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantCount, count)
			}

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}
