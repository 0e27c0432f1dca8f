// Package jwt реализует парсинг токенов identity-провайдера.
//
// Из токена извлекаются только идентификатор пользователя и email:
// роль и состояние подписки из токена не читаются, их единственный
// источник — профиль и реестр подписок в хранилище.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims описывает данные identity-провайдера, хранящиеся в JWT.
type IdentityClaims struct {
	UserUID              string `json:"user_uid"` // Идентификатор пользователя
	Email                string `json:"email"`    // Электронная почта
	jwt.RegisteredClaims        // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// Maker описывает интерфейс для генерации и парсинга токенов identity-провайдера.
type Maker interface {
	// GenerateToken создаёт токен с user_uid и email
	GenerateToken(userUID, email string) (string, error)
	// ParseToken возвращает *IdentityClaims с user_uid и email
	ParseToken(tokenStr string) (*IdentityClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием общего с
// identity-провайдером секретного ключа.
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни генерируемых токенов.
}

// NewMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
