// Package reference отвечает за ссылки корреляции платежей.
//
// Ссылка — единственный ключ, связывающий локальную pending-подписку
// с транзакцией платёжного шлюза. Формат: agrichain_<user_uid>_<unix_millis>.
// Используются только URL-безопасные символы, так как ссылка проходит
// через query-параметры редиректа шлюза.
package reference

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const prefix = "agrichain"

// Mint создаёт новую уникальную ссылку для пользователя.
// userUID должен быть валидным UUID identity-провайдера.
func Mint(userUID string, now time.Time) (string, error) {
	const op = "reference.Mint"
	if _, err := uuid.Parse(userUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Sprintf("%s_%s_%d", prefix, userUID, now.UnixMilli()), nil
}

// Pick возвращает первый непустой кандидат из списка.
// Шлюзы возвращают ссылку в редиректе под разными именами параметров
// (reference, trxref и пр.), поэтому принимается любой известный псевдоним.
func Pick(candidates ...string) string {
	for _, c := range candidates {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}
