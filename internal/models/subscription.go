package models

import "time"

// SubscriptionStatus статус записи подписки. Закрытое перечисление.
type SubscriptionStatus string

const (
	// StatusPending создана при инициации платежа, доступа не даёт.
	StatusPending SubscriptionStatus = "pending"
	// StatusActive оплаченная подписка с действующим периодом.
	StatusActive SubscriptionStatus = "active"
	// StatusCancelled отменена административно. Терминальный статус.
	StatusCancelled SubscriptionStatus = "cancelled"
	// StatusExpired период истёк. Терминальный статус, продление
	// всегда создаёт новый оплаченный период.
	StatusExpired SubscriptionStatus = "expired"
)

// Valid проверяет, что статус входит в закрытый список.
func (s SubscriptionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCancelled, StatusExpired:
		return true
	}
	return false
}

// validTransitions перечисляет допустимые переходы статусов.
// Терминальные статусы не воскрешаются.
var validTransitions = map[[2]SubscriptionStatus]bool{
	{StatusPending, StatusActive}:    true, // успешная сверка с шлюзом
	{StatusPending, StatusCancelled}: true, // административная отмена
	{StatusActive, StatusExpired}:    true, // ленивое истечение при чтении
	{StatusActive, StatusCancelled}:  true, // административная отмена
}

// CanTransition сообщает, допустим ли переход из from в to.
func CanTransition(from, to SubscriptionStatus) bool {
	return validTransitions[[2]SubscriptionStatus{from, to}]
}

// Subscription представляет запись подписки пользователя.
// История сохраняется: у пользователя может быть много записей,
// но не больше одной со статусом active (обеспечивается реконсилятором).
type Subscription struct {
	ID          int                // Внутренний идентификатор строки
	UserUID     string             // Владелец подписки
	PlanType    PlanType           // Тип плана, зеркалит роль
	Amount      int                // Сумма в минимальных единицах валюты
	Status      SubscriptionStatus // Текущий статус
	PeriodStart *time.Time         // Начало оплаченного периода, nil до активации
	PeriodEnd   *time.Time         // Конец оплаченного периода, nil до активации
	Reference   string             // Уникальная ссылка корреляции с платёжным шлюзом
	CreatedAt   time.Time          // Дата создания записи
}

// ExpiredAt сообщает, истёк ли период активной подписки на момент now.
// Истечение всегда выводится из period_end, а не из сохранённого статуса:
// статус в хранилище может отставать от реальности до ближайшего чтения.
func (s *Subscription) ExpiredAt(now time.Time) bool {
	return s.Status == StatusActive && s.PeriodEnd != nil && now.After(*s.PeriodEnd)
}

// GrantsAccessAt сообщает, даёт ли подписка доступ на момент now.
func (s *Subscription) GrantsAccessAt(now time.Time) bool {
	return s.Status == StatusActive && !s.ExpiredAt(now)
}
