package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrCannotCancel возвращается, когда бронирование в статусе,
	// не допускающем отмену
	ErrCannotCancel = errors.New("booking cannot be cancelled")

	// ErrCancellationWindowClosed возвращается при попытке отмены позже,
	// чем за 5 минут до начала бронирования
	ErrCancellationWindowClosed = errors.New("cancellation window closed")

	// ErrInvalidState возвращается при недопустимом для операции статусе бронирования
	ErrInvalidState = errors.New("invalid booking state for this operation")

	// ErrPenaltyDue возвращается при попытке завершить бронирование после
	// окончания его времени: завершение возможно только через оплату штрафа
	ErrPenaltyDue = errors.New("booking is overdue, penalty must be settled")

	// ErrStaleState возвращается при конкурентном изменении бронирования:
	// нужно перечитать текущее состояние и повторить операцию
	ErrStaleState = errors.New("booking state changed concurrently")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
