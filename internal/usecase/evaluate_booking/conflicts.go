package evaluate_booking

import (
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// overlapResult результат подсчёта пересечений со снапшотом бронирований
type overlapResult struct {
	count     int
	colliding []domain.CollidingReservation
}

// findOverlapping находит активные бронирования, пересекающиеся со слотом [start, end)
// Пересечение считается по строгим неравенствам: примыкающие интервалы не конфликтуют
//
// Примеры:
// - Слот 11:30-12:00, бронирование 11:20-11:40 → ЕСТЬ пересечение (11:30-11:40)
// - Слот 11:30-12:00, бронирование 11:00-11:30 → НЕТ пересечения (граничат)
// - Слот 11:30-12:00, бронирование 12:00-12:30 → НЕТ пересечения (граничат)
//
// staffID != nil ограничивает подсчёт бронированиями этого сотрудника
// excludeID исключает бронирование из проверки (перенос существующего)
func findOverlapping(
	start, end types.TimeString,
	reservations []*domain.Reservation,
	staffID *int64,
	excludeID *int64,
) overlapResult {
	var result overlapResult

	for _, res := range reservations {
		if !res.IsActive() {
			continue
		}

		if excludeID != nil && res.ID == *excludeID {
			continue
		}

		if staffID != nil {
			if res.StaffID == nil || *res.StaffID != *staffID {
				continue
			}
		}

		resEnd := res.EndTime
		if resEnd.IsZero() {
			computed, err := res.StartTime.AddMinutes(res.DurationMinutes)
			if err != nil {
				// Не можем вычислить конец бронирования - пропускаем
				continue
			}
			resEnd = computed
		}

		if res.StartTime.IsBefore(end) && resEnd.IsAfter(start) {
			result.count++
			result.colliding = append(result.colliding, domain.CollidingReservation{
				Reference:   res.Reference,
				StartTime:   res.StartTime,
				EndTime:     resEnd,
				ServiceName: res.ServiceName,
				StaffID:     res.StaffID,
			})
		}
	}

	return result
}
