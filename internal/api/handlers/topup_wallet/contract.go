package topup_wallet

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/wallet/models"
)

type WalletService interface {
	TopUp(ctx context.Context, req *models.TopUpRequest) (*models.BalanceResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
