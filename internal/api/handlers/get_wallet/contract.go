package get_wallet

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/wallet/models"
)

type WalletService interface {
	Statement(ctx context.Context, userID int64) (*models.StatementResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
