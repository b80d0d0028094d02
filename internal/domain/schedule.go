package domain

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// OwnerType владелец расписания: бизнес или конкретный сотрудник
type OwnerType string

const (
	OwnerBusiness OwnerType = "business"
	OwnerStaff    OwnerType = "staff"
)

// DayHours рабочие часы на один день недели
// IsOpen = false (или отсутствие записи в БД) означает выходной
type DayHours struct {
	IsOpen    bool
	OpenTime  *types.TimeString
	CloseTime *types.TimeString
}

// WeekSchedule стандартное недельное расписание владельца
type WeekSchedule struct {
	Monday    DayHours
	Tuesday   DayHours
	Wednesday DayHours
	Thursday  DayHours
	Friday    DayHours
	Saturday  DayHours
	Sunday    DayHours
}

// ForDate возвращает рабочие часы на день недели указанной даты
func (s *WeekSchedule) ForDate(date time.Time) DayHours {
	switch date.Weekday() {
	case time.Monday:
		return s.Monday
	case time.Tuesday:
		return s.Tuesday
	case time.Wednesday:
		return s.Wednesday
	case time.Thursday:
		return s.Thursday
	case time.Friday:
		return s.Friday
	case time.Saturday:
		return s.Saturday
	case time.Sunday:
		return s.Sunday
	default:
		return DayHours{IsOpen: false}
	}
}

// SetForWeekday подставляет часы для дня недели (используется при сборке из строк БД)
func (s *WeekSchedule) SetForWeekday(weekday time.Weekday, hours DayHours) {
	switch weekday {
	case time.Monday:
		s.Monday = hours
	case time.Tuesday:
		s.Tuesday = hours
	case time.Wednesday:
		s.Wednesday = hours
	case time.Thursday:
		s.Thursday = hours
	case time.Friday:
		s.Friday = hours
	case time.Saturday:
		s.Saturday = hours
	case time.Sunday:
		s.Sunday = hours
	}
}

// ExceptionType тип исключения из стандартного расписания сотрудника
type ExceptionType string

const (
	ExceptionVacation  ExceptionType = "vacation"
	ExceptionSick      ExceptionType = "sick"
	ExceptionBlocked   ExceptionType = "blocked"
	ExceptionAvailable ExceptionType = "available" // override: работает вне стандартного расписания
)

// AvailabilityException исключение на конкретную дату, переопределяет недельное расписание
type AvailabilityException struct {
	ID        int64
	StaffID   int64
	Date      time.Time
	Type      ExceptionType
	StartTime *types.TimeString // nil вместе с EndTime = исключение на весь день
	EndTime   *types.TimeString
	CreatedAt time.Time
}

// IsClosing returns true if the exception removes availability (vacation/sick/blocked)
func (e *AvailabilityException) IsClosing() bool {
	return e.Type != ExceptionAvailable
}

// CoversWholeDay returns true if the exception has no time range and applies to the whole day
func (e *AvailabilityException) CoversWholeDay() bool {
	return e.StartTime == nil || e.EndTime == nil
}

// OpenWindow эффективное рабочее окно ресурса на конкретную дату
type OpenWindow struct {
	Open  types.TimeString
	Close types.TimeString
}

// Contains returns true if the half-open slot [start, end) lies fully inside the window
func (w OpenWindow) Contains(start, end types.TimeString) bool {
	return !start.IsBefore(w.Open) && !end.IsAfter(w.Close)
}
