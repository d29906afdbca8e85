package dbmetrics

import (
	"errors"

	"github.com/lib/pq"
)

// ErrSerializationConflict возвращается менеджерами транзакций, когда
// сериализуемая транзакция не прошла даже после повтора: конкурентная
// операция изменила те же данные
var ErrSerializationConflict = errors.New("serializable transaction conflict")

// Коды PostgreSQL, означающие конфликт сериализации
const (
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

// IsSerializationFailure распознает конфликт сериализации PostgreSQL.
// SSI-конфликт проявляется на коммите (SQLSTATE 40001), когда внутри
// транзакции не было строк для блокировки, например две вставки в пустой
// диапазон
func IsSerializationFailure(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == pqSerializationFailure || string(pqErr.Code) == pqDeadlockDetected
}
