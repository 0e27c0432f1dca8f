package paystack

// TransactionSuccess статус успешной транзакции в ответе verify.
const TransactionSuccess = "success"

// InitializeRequest запрос на инициализацию транзакции.
// Сумма передаётся в минимальных единицах валюты (x100).
type InitializeRequest struct {
	Email       string            `json:"email"`
	Amount      int               `json:"amount"`
	Reference   string            `json:"reference"`
	Currency    string            `json:"currency"`
	CallbackURL string            `json:"callback_url"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// InitializeResponse ответ шлюза на инициализацию транзакции.
type InitializeResponse struct {
	Status  bool           `json:"status"`
	Message string         `json:"message"`
	Data    InitializeData `json:"data"`
}

// InitializeData полезная нагрузка успешной инициализации.
type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// VerifyResponse ответ шлюза на верификацию транзакции.
type VerifyResponse struct {
	Status  bool       `json:"status"`
	Message string     `json:"message"`
	Data    VerifyData `json:"data"`
}

// VerifyData данные транзакции из ответа verify.
type VerifyData struct {
	ID              int64          `json:"id"`
	Status          string         `json:"status"`
	Reference       string         `json:"reference"`
	Amount          int            `json:"amount"`
	GatewayResponse string         `json:"gateway_response"`
	PaidAt          string         `json:"paid_at"`
	Currency        string         `json:"currency"`
	Customer        VerifyCustomer `json:"customer"`
}

// VerifyCustomer данные покупателя из ответа verify.
type VerifyCustomer struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}
