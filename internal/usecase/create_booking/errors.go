package create_booking

import "errors"

var (
	// ErrInvalidTimeRange возвращается при некорректном диапазоне времени
	ErrInvalidTimeRange = errors.New("start time must be before end time")

	// ErrStartInPast возвращается, когда начало бронирования уже прошло
	ErrStartInPast = errors.New("start time must be in the future")

	// ErrTooLong возвращается при превышении максимальной длительности бронирования
	ErrTooLong = errors.New("booking duration exceeds maximum")

	// ErrInvalidVehicleNumber возвращается при некорректном номере транспортного средства
	ErrInvalidVehicleNumber = errors.New("invalid vehicle number")

	// ErrInvalidRole возвращается при неизвестной роли инициатора
	ErrInvalidRole = errors.New("invalid requester role")

	// ErrOrganizationNotFound возвращается, когда организация не найдена
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrNoCapacity возвращается, когда ни на одной парковке организации
	// нет свободного слота на весь запрошенный диапазон
	ErrNoCapacity = errors.New("no free slots for requested time range")

	// ErrPaymentDeclined возвращается при отказе платежного шлюза:
	// бронирование остается в статусе pending и может быть оплачено повторно
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrConcurrentConflict возвращается, когда сериализуемая транзакция
	// не прошла из-за конкурентного бронирования даже после повтора
	ErrConcurrentConflict = errors.New("booking conflicts with a concurrent operation")

	// ErrInvalidInput возвращается при прочих некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("internal error")
)
