package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/agrichain/subscription-platform/internal/models"
)

func profileWith(role models.Role) *models.Profile {
	return &models.Profile{
		ID:      1,
		UserUID: "b2f9f3a0-0000-4000-8000-000000000001",
		Name:    "testuser",
		Role:    role,
	}
}

func subscriptionWith(status models.SubscriptionStatus, periodEnd *time.Time) *models.Subscription {
	return &models.Subscription{
		ID:        1,
		UserUID:   "b2f9f3a0-0000-4000-8000-000000000001",
		PlanType:  models.PlanBuyer,
		Amount:    100000,
		Status:    status,
		PeriodEnd: periodEnd,
	}
}

func TestDecide(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	future := now.AddDate(0, 1, 0)
	past := now.AddDate(0, -1, 0)

	tests := []struct {
		name     string
		profile  *models.Profile
		sub      *models.Subscription
		resource Resource
		want     Decision
	}{
		{
			name:     "nil profile denied",
			profile:  nil,
			sub:      nil,
			resource: Dashboard,
			want:     DenyUnauthorized,
		},
		{
			name:     "invalid role denied",
			profile:  profileWith(models.Role("superuser")),
			sub:      subscriptionWith(models.StatusActive, &future),
			resource: Dashboard,
			want:     DenyUnauthorized,
		},
		{
			name:     "admin exempt from subscription checks",
			profile:  profileWith(models.RoleAdmin),
			sub:      nil,
			resource: Dashboard,
			want:     Grant,
		},
		{
			name:     "admin allowed on admin panel",
			profile:  profileWith(models.RoleAdmin),
			sub:      nil,
			resource: AdminPanel,
			want:     Grant,
		},
		{
			name:     "producer denied on admin panel",
			profile:  profileWith(models.RoleProducer),
			sub:      subscriptionWith(models.StatusActive, &future),
			resource: AdminPanel,
			want:     DenyUnauthorized,
		},
		{
			name:     "role deny wins over missing subscription",
			profile:  profileWith(models.RoleBuyer),
			sub:      nil,
			resource: ProducerDashboard,
			want:     DenyUnauthorized,
		},
		{
			name:     "active subscription grants access",
			profile:  profileWith(models.RoleBuyer),
			sub:      subscriptionWith(models.StatusActive, &future),
			resource: Dashboard,
			want:     Grant,
		},
		{
			name:     "producer with active subscription on own dashboard",
			profile:  profileWith(models.RoleProducer),
			sub:      subscriptionWith(models.StatusActive, &future),
			resource: ProducerDashboard,
			want:     Grant,
		},
		{
			name:     "no subscription requires activation",
			profile:  profileWith(models.RoleProducer),
			sub:      nil,
			resource: Dashboard,
			want:     RequireActivation,
		},
		{
			name:     "pending subscription requires activation",
			profile:  profileWith(models.RoleBuyer),
			sub:      subscriptionWith(models.StatusPending, nil),
			resource: Dashboard,
			want:     RequireActivation,
		},
		{
			name:     "cancelled subscription requires activation",
			profile:  profileWith(models.RoleBuyer),
			sub:      subscriptionWith(models.StatusCancelled, &past),
			resource: Dashboard,
			want:     RequireActivation,
		},
		{
			name:     "expired subscription requires renewal",
			profile:  profileWith(models.RoleBuyer),
			sub:      subscriptionWith(models.StatusExpired, &past),
			resource: Dashboard,
			want:     RequireRenewal,
		},
		{
			name:     "active record past period end requires renewal",
			profile:  profileWith(models.RoleBuyer),
			sub:      subscriptionWith(models.StatusActive, &past),
			resource: Dashboard,
			want:     RequireRenewal,
		},
		{
			name:     "resource without subscription requirement",
			profile:  profileWith(models.RoleBuyer),
			sub:      nil,
			resource: Resource{Name: "public-area"},
			want:     Grant,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.profile, tt.sub, tt.resource, now)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Решение на границе периода: ровно в period_end доступ ещё действует,
// секундой позже уже требуется продление.
func TestDecide_PeriodBoundary(t *testing.T) {
	end := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	profile := profileWith(models.RoleBuyer)
	sub := subscriptionWith(models.StatusActive, &end)

	assert.Equal(t, Grant, Decide(profile, sub, Dashboard, end))
	assert.Equal(t, RequireRenewal, Decide(profile, sub, Dashboard, end.Add(time.Second)))
}

// Decide не мутирует переданную подписку: понижение статуса делает свипер.
func TestDecide_Pure(t *testing.T) {
	past := time.Now().AddDate(0, -1, 0)
	sub := subscriptionWith(models.StatusActive, &past)

	_ = Decide(profileWith(models.RoleBuyer), sub, Dashboard, time.Now())
	assert.Equal(t, models.StatusActive, sub.Status)
}

func TestResourceByName(t *testing.T) {
	res, ok := ResourceByName("producer-dashboard")
	assert.True(t, ok)
	assert.Equal(t, ProducerDashboard.Name, res.Name)

	_, ok = ResourceByName("unknown")
	assert.False(t, ok)
}
