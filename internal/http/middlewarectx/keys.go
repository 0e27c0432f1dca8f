// Package middlewarectx содержит HTTP middleware: проверку токена
// identity-провайдера, сборку контекста запроса (профиль и текущая
// подписка) и ролевой/подписочный гейт на основе политики доступа.
package middlewarectx

import (
	"context"
	"net/http"

	"github.com/agrichain/subscription-platform/internal/models"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserUID — ключ идентификатора пользователя в контексте.
	UserUID Key = "user_uid"
	// Email — ключ email пользователя в контексте.
	Email Key = "email"
	// RequestCtx — ключ собранного контекста запроса.
	RequestCtx Key = "request_context"
)

// RequestContext — явный контекст запроса, протаскиваемый в политику доступа
// и обработчики. Заменяет любое глобальное состояние "текущего пользователя":
// всё, что известно о вызывающем, собирается заново на каждый запрос.
type RequestContext struct {
	UserUID      string
	Email        string
	Profile      *models.Profile
	Subscription *models.Subscription // nil — записей подписки нет
}

// FromRequest извлекает RequestContext из контекста запроса.
func FromRequest(r *http.Request) (*RequestContext, bool) {
	rc, ok := r.Context().Value(RequestCtx).(*RequestContext)
	return rc, ok
}

// WithRequestContext кладёт RequestContext в контекст.
func WithRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, RequestCtx, rc)
}
