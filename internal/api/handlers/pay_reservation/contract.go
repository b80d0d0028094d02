package pay_reservation

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/service/wallet/models"
)

type WalletService interface {
	Pay(ctx context.Context, reference string, req *models.PayRequest) (*models.PaymentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
