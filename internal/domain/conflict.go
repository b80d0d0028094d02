package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// ConflictKind вид конфликта бронирования
type ConflictKind string

const (
	ConflictTimeSlotTaken        ConflictKind = "time_slot_taken"
	ConflictStaffUnavailable     ConflictKind = "staff_unavailable"
	ConflictBusinessClosed       ConflictKind = "business_closed"
	ConflictCapacityExceeded     ConflictKind = "capacity_exceeded"
	ConflictAdvanceLimitExceeded ConflictKind = "advance_limit_exceeded"
	ConflictMinimumNotice        ConflictKind = "minimum_notice_required"
)

// StaffUnavailableReason причина недоступности сотрудника
type StaffUnavailableReason string

const (
	StaffReasonBooked   StaffUnavailableReason = "booked"
	StaffReasonOffDuty  StaffUnavailableReason = "off_duty"
	StaffReasonOnBreak  StaffUnavailableReason = "on_break"
	StaffReasonVacation StaffUnavailableReason = "vacation"
)

// CollidingReservation публичная сводка пересекающегося бронирования
// Наружу уходит только публичный reference, не первичные ключи
type CollidingReservation struct {
	Reference   string           `json:"reference"`
	StartTime   types.TimeString `json:"startTime"`
	EndTime     types.TimeString `json:"endTime"`
	ServiceName string           `json:"serviceName,omitempty"`
	StaffID     *int64           `json:"staffId,omitempty"`
}

// SlotSuggestion предложение альтернативного слота
type SlotSuggestion struct {
	Date      time.Time        `json:"date"`
	StartTime types.TimeString `json:"startTime"`
}

// StaffSuggestion предложение того же слота у другого сотрудника
type StaffSuggestion struct {
	StaffID   int64            `json:"staffId"`
	Date      time.Time        `json:"date"`
	StartTime types.TimeString `json:"startTime"`
}

// SlotSuggestions альтернативы, прикладываемые к конфликту
// Все три списка best-effort: при любой внутренней ошибке остаются пустыми
type SlotSuggestions struct {
	SameDay          []SlotSuggestion  `json:"sameDay,omitempty"`
	NextAvailable    *SlotSuggestion   `json:"nextAvailable,omitempty"`
	AlternativeStaff []StaffSuggestion `json:"alternativeStaff,omitempty"`
}

// ConflictError структурированный результат-конфликт проверки бронирования
// Возвращается как error, вызывающая сторона разбирает его через errors.As
type ConflictError struct {
	Kind        ConflictKind           `json:"kind"`
	Message     string                 `json:"message"`
	Details     map[string]interface{} `json:"details,omitempty"`
	Colliding   []CollidingReservation `json:"colliding,omitempty"`
	Suggestions SlotSuggestions        `json:"suggestions"`
}

// Error реализует интерфейс error
func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking conflict (%s): %s", e.Kind, e.Message)
}

// requestDetails базовый набор деталей запрошенного слота
func requestDetails(date time.Time, startTime types.TimeString, durationMinutes int) map[string]interface{} {
	return map[string]interface{}{
		"requested_date":     date.Format(DateFormat),
		"requested_time":     startTime.String(),
		"requested_duration": durationMinutes,
	}
}

// NewBusinessClosedError конфликт: бизнес закрыт или слот вне рабочего окна
func NewBusinessClosedError(date time.Time, startTime types.TimeString, durationMinutes int, hours DayHours) *ConflictError {
	details := requestDetails(date, startTime, durationMinutes)
	if hours.IsOpen && hours.OpenTime != nil && hours.CloseTime != nil {
		details["working_hours"] = fmt.Sprintf("%s-%s", hours.OpenTime.String(), hours.CloseTime.String())
	} else {
		details["working_hours"] = "closed"
	}

	return &ConflictError{
		Kind:    ConflictBusinessClosed,
		Message: "the business is closed at the requested time",
		Details: details,
	}
}

// NewAdvanceLimitError конфликт: дата за пределами горизонта бронирования
func NewAdvanceLimitError(date time.Time, startTime types.TimeString, durationMinutes, maxDays int) *ConflictError {
	details := requestDetails(date, startTime, durationMinutes)
	details["max_advance_days"] = maxDays

	return &ConflictError{
		Kind:    ConflictAdvanceLimitExceeded,
		Message: fmt.Sprintf("reservations can be made at most %d days in advance", maxDays),
		Details: details,
	}
}

// NewMinimumNoticeError конфликт: слот начинается раньше, чем now + minHours
func NewMinimumNoticeError(date time.Time, startTime types.TimeString, durationMinutes, minHours int) *ConflictError {
	details := requestDetails(date, startTime, durationMinutes)
	details["min_advance_hours"] = minHours

	return &ConflictError{
		Kind:    ConflictMinimumNotice,
		Message: fmt.Sprintf("reservations require at least %d hours of advance notice", minHours),
		Details: details,
	}
}

// NewTimeSlotTakenError конфликт: слот занят другим бронированием
func NewTimeSlotTakenError(date time.Time, startTime types.TimeString, durationMinutes int, colliding []CollidingReservation) *ConflictError {
	return &ConflictError{
		Kind:      ConflictTimeSlotTaken,
		Message:   "the requested time slot is already taken",
		Details:   requestDetails(date, startTime, durationMinutes),
		Colliding: colliding,
	}
}

// NewStaffUnavailableError конфликт: запрошенный сотрудник недоступен
func NewStaffUnavailableError(date time.Time, startTime types.TimeString, durationMinutes int, reason StaffUnavailableReason, colliding []CollidingReservation) *ConflictError {
	details := requestDetails(date, startTime, durationMinutes)
	details["reason"] = string(reason)

	return &ConflictError{
		Kind:      ConflictStaffUnavailable,
		Message:   fmt.Sprintf("the requested staff member is unavailable (%s)", reason),
		Details:   details,
		Colliding: colliding,
	}
}

// NewCapacityExceededError конфликт: вместимость слота исчерпана
func NewCapacityExceededError(date time.Time, startTime types.TimeString, durationMinutes, current, max int, colliding []CollidingReservation) *ConflictError {
	details := requestDetails(date, startTime, durationMinutes)
	details["current_capacity"] = current
	details["max_capacity"] = max

	return &ConflictError{
		Kind:      ConflictCapacityExceeded,
		Message:   fmt.Sprintf("slot capacity exceeded (%d/%d)", current, max),
		Details:   details,
		Colliding: colliding,
	}
}
