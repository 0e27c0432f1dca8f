package models

import "time"

// Profile представляет профиль аутентифицированного пользователя.
// Создаётся один раз на identity, роль после создания неизменяема.
type Profile struct {
	ID        int       // Внутренний идентификатор строки
	UserUID   string    // Идентификатор пользователя у identity-провайдера
	Name      string    // Отображаемое имя
	Phone     string    // Телефон (опционально)
	Location  string    // Локация (опционально)
	Role      Role      // Роль, фиксируется при создании
	CreatedAt time.Time // Дата создания профиля
}
