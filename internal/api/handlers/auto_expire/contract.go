package auto_expire

import (
	"context"

	autoExpire "github.com/m04kA/SMC-ParkingService/internal/usecase/auto_expire"
)

type AutoExpireUseCase interface {
	Execute(ctx context.Context) (*autoExpire.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
