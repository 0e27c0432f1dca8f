// Package models содержит доменные структуры платформы: профиль пользователя,
// запись подписки, закрытые перечисления ролей и статусов, а также каталог планов.
// Все проверки ролей и статусов в остальном коде идут только через типы этого пакета,
// без сравнения "сырых" строк.
package models

// Role роль пользователя платформы. Закрытое перечисление:
// любое другое значение считается невалидным.
type Role string

const (
	// RoleAdmin администратор, освобождён от всех проверок подписки.
	RoleAdmin Role = "admin"
	// RoleProducer производитель, продаёт продукцию, требуется оплаченная подписка.
	RoleProducer Role = "producer"
	// RoleBuyer покупатель, требуется оплаченная подписка.
	RoleBuyer Role = "buyer"
)

// Valid проверяет, что роль входит в закрытый список.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProducer, RoleBuyer:
		return true
	}
	return false
}

// Exempt сообщает, освобождена ли роль от проверок подписки.
func (r Role) Exempt() bool {
	return r == RoleAdmin
}
