package evaluate_balance

import (
	"context"

	evaluateBalance "github.com/m04kA/SMC-ReservationService/internal/usecase/evaluate_balance"
)

type EvaluateBalanceUseCase interface {
	Execute(ctx context.Context, req evaluateBalance.Request) (*evaluateBalance.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
