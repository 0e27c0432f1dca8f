package initiate

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agrichain/subscription-platform/internal/http/middlewarectx"
	"github.com/agrichain/subscription-platform/internal/models"
	"github.com/agrichain/subscription-platform/internal/services/payment"
)

// MockService реализует интерфейс initiate.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Initiate(ctx context.Context, userUID, email string, planType models.PlanType, amount int) (*payment.InitiateResult, error) {
	args := m.Called(ctx, userUID, email, planType, amount)
	if res := args.Get(0); res != nil {
		return res.(*payment.InitiateResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestInitiateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	userUID := uuid.New().String()

	tests := []struct {
		name           string
		body           string
		withContext    bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешная инициация",
			body:        `{"plan_type":"producer","amount":500}`,
			withContext: true,
			setupMock: func(m *MockService) {
				m.On("Initiate", mock.Anything, userUID, "awa@example.com", models.PlanProducer, 500).
					Return(&payment.InitiateResult{
						AuthorizationURL: "https://checkout.paystack.com/abc",
						Reference:        "agrichain_" + userUID + "_1",
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"authorization_url":"https://checkout.paystack.com/abc"`,
		},
		{
			name:           "нет контекста запроса",
			body:           `{"plan_type":"producer","amount":500}`,
			withContext:    false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"user identification missing"`,
		},
		{
			name:           "некорректный план",
			body:           `{"plan_type":"enterprise","amount":500}`,
			withContext:    true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:           "отрицательная сумма",
			body:           `{"plan_type":"buyer","amount":-5}`,
			withContext:    true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"status":"Error"`,
		},
		{
			name:        "сумма не совпадает с каталогом",
			body:        `{"plan_type":"producer","amount":300}`,
			withContext: true,
			setupMock: func(m *MockService) {
				m.On("Initiate", mock.Anything, userUID, "awa@example.com", models.PlanProducer, 300).
					Return(nil, models.ErrInvalidPlanOrAmount)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"invalid plan type or amount"`,
		},
		{
			name:        "шлюз недоступен",
			body:        `{"plan_type":"producer","amount":500}`,
			withContext: true,
			setupMock: func(m *MockService) {
				m.On("Initiate", mock.Anything, userUID, "awa@example.com", models.PlanProducer, 500).
					Return(nil, models.ErrGatewayInit)
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `"payment gateway unavailable"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/subscriptions/initiate", strings.NewReader(tt.body))
			if tt.withContext {
				rc := &middlewarectx.RequestContext{
					UserUID: userUID,
					Email:   "awa@example.com",
					Profile: &models.Profile{UserUID: userUID, Role: models.RoleProducer},
				}
				req = req.WithContext(middlewarectx.WithRequestContext(req.Context(), rc))
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
