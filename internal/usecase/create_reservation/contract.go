package create_reservation

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/usecase/evaluate_booking"
)

// BookingEvaluator интерфейс проверки слота на конфликты
type BookingEvaluator interface {
	Execute(ctx context.Context, req evaluate_booking.Request) (*evaluate_booking.Response, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
}

// AuditRepository интерфейс журнала аудита
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) (*domain.AuditEntry, error)
}

// TxManager интерфейс менеджера транзакций
// Проверка конфликтов и запись выполняются в одной сериализуемой транзакции
type TxManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
