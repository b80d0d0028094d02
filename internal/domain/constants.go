package domain

// Default policy values
const (
	DefaultDurationMinutes     = 60
	DefaultSlotIntervalMinutes = 30
	DefaultMinAdvanceHours     = 1
	DefaultAdvanceBookingDays  = 30 // 0 = unlimited
	DefaultCancellationHours   = 24
	DefaultMaxBookingsPerSlot  = 1
)

// Business validation constants
const (
	MinDurationMinutes          = 5
	MaxDurationMinutes          = 480 // 8 hours
	MinSlotIntervalMinutes      = 5
	MaxSlotIntervalMinutes      = 240
	MinBookingsPerSlot          = 1
	MaxBookingsPerSlotLimit     = 100
	MaxAdvanceBookingDaysLimit  = 365 // 1 year
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Suggestion engine bounds
const (
	MaxSameDaySuggestions   = 3
	MaxAlternativeStaff     = 3
	DefaultSuggestionWindow = 30 // дней вперёд при AdvanceBookingDays = 0
)

// Balance remediation constants
const (
	InstallmentThreshold = 500.0
	DownPaymentRate      = 0.30
)

// InstallmentMonths доступные сроки рассрочки
var InstallmentMonths = []int{3, 6, 12}

// CreditTiers фиксированная таблица пакетов кредитов
var CreditTiers = []int{10, 25, 50, 100}

// Expiration sweeper defaults
const (
	DefaultExpirationHours = 24
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses статусы бронирований, не занимающих слот
// Используется при подсчёте пересечений и доступных мест
var InactiveStatuses = []ReservationStatus{
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses статусы бронирований, занимающих слот
var ActiveStatuses = []ReservationStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
