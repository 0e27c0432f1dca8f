// Package paystack реализует клиент платёжного шлюза Paystack.
//
// Поддерживаются две операции контракта: инициализация транзакции
// (получение ссылки на hosted-страницу оплаты) и верификация транзакции
// по ссылке корреляции. Ответ verify — единственный источник истины
// о платеже, клиентский "success" из редиректа не учитывается.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client клиент API Paystack.
type Client struct {
	secretKey  string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт новый клиент Paystack.
func NewClient(secretKey, apiURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		secretKey:  secretKey,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	reqURL := c.apiURL + path
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, reqURL, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// Initialize отправляет запрос на инициализацию транзакции и возвращает
// ссылку на hosted-страницу оплаты вместе с подтверждённой ссылкой корреляции.
func (c *Client) Initialize(ctx context.Context, reqParams InitializeRequest) (*InitializeData, error) {
	const op = "paystack.Initialize"

	req, err := c.newRequest(ctx, http.MethodPost, "/transaction/initialize", reqParams)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var initResp InitializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&initResp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !initResp.Status {
		return nil, fmt.Errorf("%s: %s", op, initResp.Message)
	}
	return &initResp.Data, nil
}

// Verify запрашивает у шлюза статус транзакции по ссылке корреляции.
func (c *Client) Verify(ctx context.Context, ref string) (*VerifyData, error) {
	const op = "paystack.Verify"

	req, err := c.newRequest(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(ref), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var verifyResp VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&verifyResp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !verifyResp.Status {
		return nil, fmt.Errorf("%s: %s", op, verifyResp.Message)
	}
	return &verifyResp.Data, nil
}
