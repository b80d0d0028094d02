package evaluate_balance

import "context"

// LedgerRepository интерфейс леджера кошелька
type LedgerRepository interface {
	GetBalance(ctx context.Context, userID int64) (float64, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
