package pay_penalty

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrNotOverstay возвращается, когда бронирование не находится
	// в статусе overstay: платить штраф не за что
	ErrNotOverstay = errors.New("booking is not in overstay")

	// ErrPaymentDeclined возвращается при отказе платежного шлюза:
	// бронирование остается в overstay и продолжает удерживать слот
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrStaleState возвращается при конкурентном изменении бронирования
	ErrStaleState = errors.New("booking state changed concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("internal error")
)
