// Package access реализует чистую политику решений о доступе.
//
// Decide не ходит в хранилище и не мутирует состояние: вся истина
// передаётся аргументами, решение детерминировано для фиксированного
// момента времени. Блокировку по решению выполняет HTTP-слой.
package access

import (
	"time"

	"github.com/agrichain/subscription-platform/internal/models"
)

// Decision решение политики доступа.
type Decision string

const (
	// Grant доступ разрешён.
	Grant Decision = "grant"
	// RequireActivation платная активация: записей подписки нет или
	// последняя запись не была доведена до оплаты.
	RequireActivation Decision = "require_activation"
	// RequireRenewal подписка была активна, но период закончился.
	RequireRenewal Decision = "require_renewal"
	// DenyUnauthorized ролевой отказ, оплата не поможет.
	DenyUnauthorized Decision = "deny_unauthorized"
)

// Resource описывает защищаемый ресурс платформы.
type Resource struct {
	// Name имя ресурса для логов и метрик.
	Name string
	// AllowedRoles роли с доступом к ресурсу. Пустой срез означает
	// "любая валидная роль".
	AllowedRoles []models.Role
	// RequiresSubscription требует оплаченную подписку для не-admin ролей.
	RequiresSubscription bool
}

func (r Resource) roleAllowed(role models.Role) bool {
	if len(r.AllowedRoles) == 0 {
		return role.Valid()
	}
	for _, allowed := range r.AllowedRoles {
		if role == allowed {
			return true
		}
	}
	return false
}

// Decide вычисляет решение о доступе профиля profile с подпиской sub
// к ресурсу res на момент now.
//
// Порядок проверок фиксирован: ролевой отказ раньше любых подписочных,
// чтобы пользователь с чужой ролью получил отказ, а не экран оплаты.
// Admin освобождён от подписочных проверок. Истечение перевычисляется
// по period_end: active-запись с прошедшим периодом трактуется как
// expired независимо от того, успел ли свипер её понизить.
func Decide(profile *models.Profile, sub *models.Subscription, res Resource, now time.Time) Decision {
	if profile == nil || !profile.Role.Valid() {
		return DenyUnauthorized
	}
	if !res.roleAllowed(profile.Role) {
		return DenyUnauthorized
	}
	if profile.Role.Exempt() {
		return Grant
	}
	if !res.RequiresSubscription {
		return Grant
	}

	if sub == nil {
		return RequireActivation
	}
	if sub.GrantsAccessAt(now) {
		return Grant
	}
	if sub.Status == models.StatusExpired || sub.ExpiredAt(now) {
		return RequireRenewal
	}
	// pending или cancelled: оплата не завершена, нужен новый платёж.
	return RequireActivation
}
