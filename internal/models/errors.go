package models

import "errors"

// Ошибки доменного уровня. Хендлеры и middleware сопоставляют их
// с HTTP-статусами через errors.Is, сервисы оборачивают через %w.
var (
	// ErrUnauthorized identity отсутствует или невалидна.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrProfileNotFound identity существует, но профиля нет.
	// Не создаётся автоматически: сигнал вызывающему пересоздать аккаунт.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileExists профиль для identity уже создан.
	ErrProfileExists = errors.New("profile already exists")
	// ErrInvalidPlanOrAmount план неизвестен или сумма не совпала с каталогом.
	ErrInvalidPlanOrAmount = errors.New("invalid plan or amount")
	// ErrGatewayInit ошибка инициализации платежа на стороне шлюза. Повтор — новым вызовом.
	ErrGatewayInit = errors.New("payment gateway initialize failed")
	// ErrGatewayVerify ошибка запроса статуса транзакции у шлюза. Повтор — новым вызовом.
	ErrGatewayVerify = errors.New("payment gateway verify failed")
	// ErrReconciliationMismatch шлюз подтвердил платёж, но локальной записи
	// с такой ссылкой нет. Фатально: доступ не выдаётся, инцидент логируется.
	ErrReconciliationMismatch = errors.New("no pending subscription matches reference")
	// ErrSubscriptionNotFound запись подписки не найдена.
	ErrSubscriptionNotFound = errors.New("subscription not found")
)
