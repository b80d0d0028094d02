package models

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Request модели

// TopUpRequest запрос на пополнение кошелька
type TopUpRequest struct {
	UserID int64   `json:"userId"`
	Amount float64 `json:"amount"`
}

// PayRequest запрос на оплату бронирования из кошелька
type PayRequest struct {
	UserID int64 `json:"userId"`
}

// Response модели

// BalanceResponse текущий баланс кошелька
type BalanceResponse struct {
	UserID  int64   `json:"userId"`
	Balance float64 `json:"balance"`
}

// LedgerEntryResponse запись выписки по кошельку
type LedgerEntryResponse struct {
	Direction      string    `json:"direction"`
	Amount         float64   `json:"amount"`
	BalanceAfter   float64   `json:"balanceAfter"`
	Source         string    `json:"source"`
	ReservationRef *string   `json:"reservationRef,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// StatementResponse выписка по кошельку
type StatementResponse struct {
	UserID  int64                 `json:"userId"`
	Balance float64               `json:"balance"`
	Entries []LedgerEntryResponse `json:"entries"`
}

// PaymentResponse результат успешной оплаты
type PaymentResponse struct {
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
	Balance   float64 `json:"balance"`
}

// Методы конвертации

// FromDomainLedgerEntry конвертирует domain модель в DTO
func FromDomainLedgerEntry(e *domain.WalletLedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		Direction:      string(e.Direction),
		Amount:         e.Amount,
		BalanceAfter:   e.BalanceAfter,
		Source:         string(e.Source),
		ReservationRef: e.ReservationRef,
		CreatedAt:      e.CreatedAt,
	}
}

// FromDomainLedgerEntries конвертирует список domain моделей в DTO
func FromDomainLedgerEntries(entries []*domain.WalletLedgerEntry) []LedgerEntryResponse {
	result := make([]LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, FromDomainLedgerEntry(e))
	}
	return result
}
