package paymentgateway

// ChargeRequest запрос на списание средств
// IdempotencyKey строится из ID бронирования и намерения платежа:
// повторная отправка того же запроса не приводит к повторному списанию
type ChargeRequest struct {
	IdempotencyKey string  `json:"idempotency_key"`
	Amount         float64 `json:"amount"`
	Method         string  `json:"method"`
	Description    string  `json:"description,omitempty"`
}

// ChargeResponse ответ шлюза на списание
type ChargeResponse struct {
	TransactionID string `json:"transaction_id"`
	Status        string `json:"status"` // "succeeded" | "declined"
}

// ErrorResponse модель ошибки от шлюза
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
