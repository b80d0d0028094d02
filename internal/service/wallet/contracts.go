package wallet

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifyservice"
)

// LedgerRepository интерфейс леджера кошелька
type LedgerRepository interface {
	Append(ctx context.Context, entry *domain.WalletLedgerEntry) (*domain.WalletLedgerEntry, error)
	GetBalance(ctx context.Context, userID int64) (float64, error)
	ListByUser(ctx context.Context, userID int64) ([]*domain.WalletLedgerEntry, error)
}

// ReservationRepository интерфейс репозитория бронирований
type ReservationRepository interface {
	GetByReference(ctx context.Context, reference string) (*domain.Reservation, error)
	MarkPaid(ctx context.Context, id int64) error
}

// AuditRepository интерфейс журнала аудита
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) (*domain.AuditEntry, error)
}

// NotifyClient интерфейс клиента сервиса уведомлений
type NotifyClient interface {
	SendWithGracefulDegradation(ctx context.Context, n notifyservice.Notification) error
}

// TransactionManager интерфейс для управления транзакциями
// Баланс читается и записывается только в сериализуемых транзакциях
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
