package paymentgateway

import "errors"

var (
	// ErrPaymentDeclined возвращается, когда шлюз отклонил платеж
	ErrPaymentDeclined = errors.New("payment declined by gateway")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentgateway client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от шлюза
	ErrInvalidResponse = errors.New("paymentgateway client: invalid response")
)
