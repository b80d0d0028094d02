package sweep_expired

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifyservice"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	FindPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Reservation, error)
	Cancel(ctx context.Context, id int64, actor domain.CancelActor, reason string) error
}

// AuditRepository интерфейс журнала аудита
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) (*domain.AuditEntry, error)
}

// PaymentClient интерфейс клиента платёжного сервиса
type PaymentClient interface {
	ReleaseAuthorizationWithGracefulDegradation(ctx context.Context, authRef string) error
}

// NotifyClient интерфейс клиента сервиса уведомлений
type NotifyClient interface {
	SendWithGracefulDegradation(ctx context.Context, n notifyservice.Notification) error
}

// TxManager интерфейс менеджера транзакций
// Каждое истёкшее бронирование отменяется в собственной транзакции
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
