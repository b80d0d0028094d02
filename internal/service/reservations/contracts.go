package reservations

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifyservice"
)

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	GetByReference(ctx context.Context, reference string) (*domain.Reservation, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]*domain.Reservation, error)
	GetByBusinessWithFilter(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ReservationStatus) error
	Cancel(ctx context.Context, id int64, actor domain.CancelActor, reason string) error
	MarkRefunded(ctx context.Context, id int64) error
}

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	GetPolicyWithHierarchy(ctx context.Context, businessID int64, serviceID *int64) (*domain.ServicePolicy, error)
}

// LedgerRepository интерфейс леджера кошелька
type LedgerRepository interface {
	Append(ctx context.Context, entry *domain.WalletLedgerEntry) (*domain.WalletLedgerEntry, error)
	GetBalance(ctx context.Context, userID int64) (float64, error)
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

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
