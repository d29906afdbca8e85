package auto_expire

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("internal error")
)
