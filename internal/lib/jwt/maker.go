package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateToken создает JWT токен с заданными user_uid и email,
// подписывая его секретным ключом. Используется в тестах и локальной среде:
// в продакшене токены выпускает identity-провайдер.
func (j *MakerImpl) GenerateToken(userUID, email string) (string, error) {
	claims := IdentityClaims{
		UserUID: userUID,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userUID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken парсит JWT токен, проверяет его подпись и валидность,
// возвращает IdentityClaims с данными, если токен корректен.
func (j *MakerImpl) ParseToken(tokenStr string) (*IdentityClaims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &IdentityClaims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.UserUID == "" && claims.Subject != "" {
		claims.UserUID = claims.Subject
	}
	return claims, nil
}
