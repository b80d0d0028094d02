package domain

import "time"

// AuditAction тип события аудита
type AuditAction string

const (
	AuditReservationCreated   AuditAction = "reservation_created"
	AuditReservationCancelled AuditAction = "reservation_cancelled"
	AuditReservationExpired   AuditAction = "reservation_expired"
	AuditReservationPaid      AuditAction = "reservation_paid"
	AuditWalletTopUp          AuditAction = "wallet_top_up"
	AuditWalletRefund         AuditAction = "wallet_refund"
)

// AuditEntry запись журнала аудита
type AuditEntry struct {
	ID             int64
	Actor          string // "user:<id>", "business:<id>" или "system"
	Action         AuditAction
	ReservationRef string
	Detail         string
	CreatedAt      time.Time
}
