package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с платежным шлюзом
// Шлюз синхронный и идемпотентный по ключу: повтор запроса с тем же
// idempotency key возвращает результат исходного списания
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платежного шлюза
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Charge выполняет списание средств
func (c *Client) Charge(ctx context.Context, chargeReq *ChargeRequest) (*ChargeResponse, error) {
	c.log.Info("Charging payment: key=%s, amount=%.2f, method=%s",
		chargeReq.IdempotencyKey, chargeReq.Amount, chargeReq.Method)

	body, err := json.Marshal(chargeReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/payments/charge", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", chargeReq.IdempotencyKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusPaymentRequired, http.StatusUnprocessableEntity:
		return nil, ErrPaymentDeclined
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	var chargeResp ChargeResponse
	if err := json.NewDecoder(resp.Body).Decode(&chargeResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if chargeResp.Status != "succeeded" {
		c.log.Warn("Payment declined: key=%s, status=%s", chargeReq.IdempotencyKey, chargeResp.Status)
		return nil, ErrPaymentDeclined
	}

	c.log.Info("Payment succeeded: key=%s, transaction=%s", chargeReq.IdempotencyKey, chargeResp.TransactionID)
	return &chargeResp, nil
}
