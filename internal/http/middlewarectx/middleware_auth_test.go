package middlewarectx_test

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agrichain/subscription-platform/internal/http/middlewarectx"
	libjwt "github.com/agrichain/subscription-platform/internal/lib/jwt"
)

// TokenParserMock реализует интерфейс middlewarectx.TokenParser
type TokenParserMock struct {
	mock.Mock
}

func (m *TokenParserMock) ParseToken(tokenStr string) (*libjwt.IdentityClaims, error) {
	args := m.Called(tokenStr)
	claims, _ := args.Get(0).(*libjwt.IdentityClaims)
	return claims, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		setupMock      func(*TokenParserMock)
		wantStatusCode int
		wantCalled     bool
	}{
		{
			name:           "missing Authorization header",
			authHeader:     "",
			setupMock:      func(_ *TokenParserMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:           "invalid Authorization header prefix",
			authHeader:     "Basic sometoken",
			setupMock:      func(_ *TokenParserMock) {},
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:       "token parse error",
			authHeader: "Bearer badtoken",
			setupMock: func(m *TokenParserMock) {
				m.On("ParseToken", "badtoken").Return(nil, errors.New("signature invalid")).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:       "token without user uid",
			authHeader: "Bearer emptytoken",
			setupMock: func(m *TokenParserMock) {
				m.On("ParseToken", "emptytoken").Return(&libjwt.IdentityClaims{
					Email: "awa@example.com",
				}, nil).Once()
			},
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
		{
			name:       "valid token",
			authHeader: "Bearer goodtoken",
			setupMock: func(m *TokenParserMock) {
				m.On("ParseToken", "goodtoken").Return(&libjwt.IdentityClaims{
					UserUID: "b2f9f3a0-0000-4000-8000-000000000001",
					Email:   "awa@example.com",
				}, nil).Once()
			},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parserMock := new(TokenParserMock)
			tt.setupMock(parserMock)

			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				assert.Equal(t, "b2f9f3a0-0000-4000-8000-000000000001",
					r.Context().Value(middlewarectx.UserUID))
				assert.Equal(t, "awa@example.com", r.Context().Value(middlewarectx.Email))
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.JWTMiddleware(parserMock, newNoopLogger())(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			w := httptest.NewRecorder()

			mw.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)

			parserMock.AssertExpectations(t)
		})
	}
}
