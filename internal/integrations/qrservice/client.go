package qrservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

var (
	// ErrCodeNotFound возвращается, когда QR-код для бронирования не найден
	ErrCodeNotFound = errors.New("qr code not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("qrservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("qrservice client: invalid response")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Code QR-код бронирования
type Code struct {
	BookingID int64  `json:"booking_id"`
	ImageURL  string `json:"image_url"`
}

// Client клиент QR-сервиса
// QR-код генерируется внешним сервисом и привязан к ID бронирования
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента QR-сервиса
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetCode получает QR-код бронирования
func (c *Client) GetCode(ctx context.Context, bookingID int64) (*Code, error) {
	url := fmt.Sprintf("%s/internal/qr/bookings/%d", c.baseURL, bookingID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrCodeNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var code Code
	if err := json.NewDecoder(resp.Body).Decode(&code); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &code, nil
}

// GetCodeWithGracefulDegradation получает QR-код с graceful degradation:
// при недоступности сервиса бронирование отдается без кода
func (c *Client) GetCodeWithGracefulDegradation(ctx context.Context, bookingID int64) *Code {
	code, err := c.GetCode(ctx, bookingID)
	if err != nil {
		c.log.Warn("QR service unavailable for booking=%d, responding without code: %v", bookingID, err)
		return nil
	}
	return code
}
