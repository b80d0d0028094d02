package evaluate_booking

import (
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// resolvedWindow эффективное рабочее окно ресурса на дату
// При closed = true reason объясняет причину (для конфликта staff_unavailable)
type resolvedWindow struct {
	open   bool
	window domain.OpenWindow
	reason domain.StaffUnavailableReason

	// Заблокированный интервал внутри окна (исключение с временным диапазоном,
	// который не примыкает к границам окна). Слот, пересекающий его, недоступен
	blockedStart *types.TimeString
	blockedEnd   *types.TimeString
	blockedBy    domain.StaffUnavailableReason
}

// blocks возвращает true, если слот [start, end) пересекает заблокированный интервал
func (w resolvedWindow) blocks(start, end types.TimeString) bool {
	if w.blockedStart == nil || w.blockedEnd == nil {
		return false
	}
	return w.blockedStart.IsBefore(end) && w.blockedEnd.IsAfter(start)
}

// fits возвращает true, если слот целиком внутри окна и не задет блокировкой
func (w resolvedWindow) fits(start, end types.TimeString) bool {
	return w.open && w.window.Contains(start, end) && !w.blocks(start, end)
}

// exceptionReason переводит тип исключения в причину недоступности сотрудника
func exceptionReason(t domain.ExceptionType) domain.StaffUnavailableReason {
	switch t {
	case domain.ExceptionVacation, domain.ExceptionSick:
		return domain.StaffReasonVacation
	case domain.ExceptionBlocked:
		return domain.StaffReasonOnBreak
	default:
		return domain.StaffReasonOffDuty
	}
}

// resolveWindow вычисляет эффективное окно на дату:
// стандартные недельные часы, при наличии исключения - его переопределение.
// Закрывающее исключение без диапазона закрывает весь день; с диапазоном -
// сужает окно (или блокирует интервал внутри него). Исключение типа available
// с диапазоном открывает окно даже в нерабочий день
func resolveWindow(hours domain.DayHours, exc *domain.AvailabilityException) resolvedWindow {
	base := resolvedWindow{open: false, reason: domain.StaffReasonOffDuty}

	if hours.IsOpen && hours.OpenTime != nil && hours.CloseTime != nil {
		base = resolvedWindow{
			open:   true,
			window: domain.OpenWindow{Open: *hours.OpenTime, Close: *hours.CloseTime},
		}
	}

	if exc == nil {
		return base
	}

	if exc.Type == domain.ExceptionAvailable {
		if !exc.CoversWholeDay() {
			return resolvedWindow{
				open:   true,
				window: domain.OpenWindow{Open: *exc.StartTime, Close: *exc.EndTime},
			}
		}
		// available без диапазона подтверждает стандартное расписание
		return base
	}

	reason := exceptionReason(exc.Type)

	if exc.CoversWholeDay() {
		return resolvedWindow{open: false, reason: reason}
	}

	if !base.open {
		return base
	}

	// Сужаем окно, если диапазон примыкает к его границам
	start, end := *exc.StartTime, *exc.EndTime

	coversOpen := !start.IsAfter(base.window.Open)
	coversClose := !end.IsBefore(base.window.Close)

	switch {
	case coversOpen && coversClose:
		return resolvedWindow{open: false, reason: reason}
	case coversOpen:
		base.window.Open = end
	case coversClose:
		base.window.Close = start
	default:
		// Блокировка в середине дня: окно остаётся, но интервал недоступен
		base.blockedStart = &start
		base.blockedEnd = &end
		base.blockedBy = reason
	}

	return base
}
