package inventory

import "errors"

var (
	// ErrNoCapacity возвращается, когда ни одна парковка организации
	// не имеет свободного слота на весь запрошенный диапазон
	ErrNoCapacity = errors.New("inventory: no capacity for requested time range")

	// ErrOrganizationNotFound возвращается, когда организация не найдена
	ErrOrganizationNotFound = errors.New("inventory: organization not found")

	// ErrLotNotFound возвращается, когда парковка не найдена
	ErrLotNotFound = errors.New("inventory: parking lot not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("inventory: internal error")
)
