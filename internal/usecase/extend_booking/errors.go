package extend_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrNotExtendable возвращается для бронирований в финальном статусе
	// или в статусе overstay
	ErrNotExtendable = errors.New("booking cannot be extended")

	// ErrSlotUnavailable возвращается, когда слот занят следующим
	// бронированием и продление на месте невозможно
	ErrSlotUnavailable = errors.New("slot is taken for requested extension range")

	// ErrStaleState возвращается при конкурентном изменении бронирования
	ErrStaleState = errors.New("booking state changed concurrently")

	// ErrPaymentDeclined возвращается при отказе платежного шлюза:
	// продление откатывается к исходному времени окончания
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("internal error")
)
