package domain

import "time"

// ServicePolicy represents the booking policy for a service
// Supports hierarchical configuration:
// 1. Service-specific (business_id, service_id)
// 2. Business-wide default (business_id, NULL)
type ServicePolicy struct {
	ID         int64
	BusinessID int64
	ServiceID  *int64 // NULL = политика по умолчанию для всех услуг бизнеса

	DurationMinutes     int // длительность услуги
	SlotIntervalMinutes int // шаг сетки слотов для подбора альтернатив
	MinAdvanceHours     int // минимальное время до начала слота
	AdvanceBookingDays  int // максимальный горизонт бронирования, 0 = без ограничения
	CancellationHours   int // за сколько часов до начала ещё можно отменить
	MaxBookingsPerSlot  int // вместимость слота

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsBusinessDefault returns true if this is the business-wide default policy
func (p *ServicePolicy) IsBusinessDefault() bool {
	return p.ServiceID == nil
}

// HasAdvanceBookingLimit returns true if there's a limit on how far in advance bookings can be made
func (p *ServicePolicy) HasAdvanceBookingLimit() bool {
	return p.AdvanceBookingDays > 0
}

// SupportsParallelBookings returns true if the slot admits more than one concurrent reservation
func (p *ServicePolicy) SupportsParallelBookings() bool {
	return p.MaxBookingsPerSlot > 1
}

// DefaultServicePolicy возвращает политику с дефолтными значениями
// Используется, когда для бизнеса/услуги не настроена ни одна политика
func DefaultServicePolicy(businessID int64) *ServicePolicy {
	return &ServicePolicy{
		BusinessID:          businessID,
		DurationMinutes:     DefaultDurationMinutes,
		SlotIntervalMinutes: DefaultSlotIntervalMinutes,
		MinAdvanceHours:     DefaultMinAdvanceHours,
		AdvanceBookingDays:  DefaultAdvanceBookingDays,
		CancellationHours:   DefaultCancellationHours,
		MaxBookingsPerSlot:  DefaultMaxBookingsPerSlot,
	}
}
