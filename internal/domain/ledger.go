package domain

import "time"

// LedgerDirection направление движения средств
type LedgerDirection string

const (
	LedgerCredit LedgerDirection = "credit"
	LedgerDebit  LedgerDirection = "debit"
)

// LedgerSource источник записи в леджере
type LedgerSource string

const (
	SourceTopUp       LedgerSource = "top_up"
	SourceReservation LedgerSource = "reservation"
	SourceRefund      LedgerSource = "refund"
)

// WalletLedgerEntry запись append-only леджера кошелька
// Баланс никогда не мутируется на месте: текущий баланс = BalanceAfter последней записи
// и всегда пересчитываем как сумма всех записей
type WalletLedgerEntry struct {
	ID             int64
	UserID         int64
	Direction      LedgerDirection
	Amount         float64
	BalanceAfter   float64
	Source         LedgerSource
	ReservationRef *string // публичный reference бронирования-источника, если применимо
	CreatedAt      time.Time
}

// Signed возвращает сумму записи со знаком (debit уменьшает баланс)
func (e *WalletLedgerEntry) Signed() float64 {
	if e.Direction == LedgerDebit {
		return -e.Amount
	}
	return e.Amount
}
