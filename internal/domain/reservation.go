package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCompleted ReservationStatus = "completed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusNoShow    ReservationStatus = "no_show"
)

// PaymentStatus represents the payment state of a reservation
type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "pending"
	PaymentPaid          PaymentStatus = "paid"
	PaymentPartiallyPaid PaymentStatus = "partially_paid"
	PaymentRefunded      PaymentStatus = "refunded"
)

// CancelActor identifies who cancelled a reservation
type CancelActor string

const (
	CancelledByUser     CancelActor = "user"
	CancelledByBusiness CancelActor = "business"
	CancelledBySystem   CancelActor = "system"
)

// Reservation represents a booked time slot for a service
type Reservation struct {
	ID         int64
	Reference  string // публичный идентификатор (UUID), только он попадает во внешние ответы
	UserID     int64
	BusinessID int64
	ServiceID  int64
	StaffID    *int64 // nil = бронирование на уровне бизнеса, без конкретного сотрудника

	BookingDate     time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString // всегда = StartTime + DurationMinutes на момент создания
	DurationMinutes int

	Amount        float64
	Status        ReservationStatus
	PaymentStatus PaymentStatus

	// Ссылка на внешнюю авторизацию платежа (hold), снимается best-effort при отмене
	PaymentAuthRef *string

	ServiceName string
	Notes       *string

	CancellationReason *string
	CancelledAt        *time.Time
	CancelledBy        *CancelActor

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the reservation still occupies its slot
func (r *Reservation) IsActive() bool {
	return r.Status != StatusCancelled && r.Status != StatusNoShow
}

// IsCancelled returns true if the reservation has been cancelled
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// CanBeCancelled returns true if the reservation can still be cancelled
// Отмена терминальна: из cancelled/completed/no_show переходов нет
func (r *Reservation) CanBeCancelled() bool {
	return r.Status == StatusPending || r.Status == StatusConfirmed
}

// IsUnpaid returns true if no payment has been received yet
func (r *Reservation) IsUnpaid() bool {
	return r.PaymentStatus == PaymentPending
}

// HasStarted returns true if the reservation's slot has already started at the given moment
func (r *Reservation) HasStarted(now time.Time) bool {
	bookingDay := time.Date(r.BookingDate.Year(), r.BookingDate.Month(), r.BookingDate.Day(), 0, 0, 0, 0, r.BookingDate.Location())
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	if bookingDay.Before(today) {
		return true
	}
	if bookingDay.After(today) {
		return false
	}
	return !r.StartTime.IsAfter(types.NewTimeString(now))
}

// ReservationsFilter фильтр для выборки бронирований бизнеса
type ReservationsFilter struct {
	BusinessID      int64              // Обязательный параметр
	StaffID         *int64             // Фильтр по сотруднику (опционально)
	StartDate       *time.Time         // Начало периода (опционально)
	EndDate         *time.Time         // Конец периода (опционально)
	Status          *ReservationStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отменённые и no-show
}
