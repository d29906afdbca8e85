package pay_penalty

import (
	"context"

	payPenalty "github.com/m04kA/SMC-ParkingService/internal/usecase/pay_penalty"
)

type PayPenaltyUseCase interface {
	Execute(ctx context.Context, req *payPenalty.Request) (*payPenalty.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
