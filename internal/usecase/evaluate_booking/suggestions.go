package evaluate_booking

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// suggestionInput состояние, уже загруженное основной проверкой
// Подбор альтернатив не перечитывает его из БД
type suggestionInput struct {
	req          Request
	policy       *domain.ServicePolicy
	businessWeek *domain.WeekSchedule
	reservations []*domain.Reservation
	now          time.Time
}

// buildSuggestions собирает альтернативы для конфликта: слоты того же дня,
// ближайший свободный слот в будущем и тот же слот у других сотрудников.
// Любая внутренняя ошибка оставляет соответствующий список пустым
func (uc *Usecase) buildSuggestions(ctx context.Context, in suggestionInput) domain.SlotSuggestions {
	out := domain.SlotSuggestions{
		SameDay:       uc.sameDaySlots(ctx, in),
		NextAvailable: uc.nextAvailableSlot(ctx, in),
	}

	if in.req.StaffID != nil {
		out.AlternativeStaff = uc.alternativeStaff(ctx, in)
	}

	return out
}

// sameDaySlots свободные слоты запрошенной даты, ближайшие к запрошенному времени
func (uc *Usecase) sameDaySlots(ctx context.Context, in suggestionInput) []domain.SlotSuggestion {
	window := resolveWindow(in.businessWeek.ForDate(in.req.Date), nil)
	if !window.open {
		return nil
	}

	var staffWindow resolvedWindow
	haveStaff := in.req.StaffID != nil
	if haveStaff {
		sw, err := uc.resolveStaffWindow(ctx, *in.req.StaffID, in.req.Date)
		if err != nil {
			return nil
		}
		staffWindow = sw
	}

	type scoredSlot struct {
		slot     domain.SlotSuggestion
		distance int
	}

	var candidates []scoredSlot
	for _, start := range gridStarts(window.window, in.policy.SlotIntervalMinutes) {
		if start == in.req.StartTime {
			continue
		}
		if !uc.slotFree(in, in.req.Date, start, window, staffWindow, haveStaff, in.reservations) {
			continue
		}

		distance, err := in.req.StartTime.MinutesBetween(start)
		if err != nil {
			continue
		}
		if distance < 0 {
			distance = -distance
		}

		candidates = append(candidates, scoredSlot{
			slot:     domain.SlotSuggestion{Date: in.req.Date, StartTime: start},
			distance: distance,
		})
	}

	// Ближайшие к запрошенному времени идут первыми
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	limit := domain.MaxSameDaySuggestions
	if len(candidates) < limit {
		limit = len(candidates)
	}

	result := make([]domain.SlotSuggestion, 0, limit)
	for _, c := range candidates[:limit] {
		result = append(result, c.slot)
	}
	return result
}

// nextAvailableSlot свободный слот ближайшего будущего дня, по времени
// ближайший к запрошенному. Сканирование ограничено горизонтом политики
func (uc *Usecase) nextAvailableSlot(ctx context.Context, in suggestionInput) *domain.SlotSuggestion {
	horizon := in.policy.AdvanceBookingDays
	if horizon <= 0 {
		horizon = domain.DefaultSuggestionWindow
	}

	haveStaff := in.req.StaffID != nil

	for offset := 1; offset <= horizon; offset++ {
		date := in.req.Date.AddDate(0, 0, offset)

		window := resolveWindow(in.businessWeek.ForDate(date), nil)
		if !window.open {
			continue
		}

		var staffWindow resolvedWindow
		if haveStaff {
			sw, err := uc.resolveStaffWindow(ctx, *in.req.StaffID, date)
			if err != nil {
				return nil
			}
			if !sw.open {
				continue
			}
			staffWindow = sw
		}

		reservations, err := uc.dayReservations(ctx, in.req.BusinessID, date)
		if err != nil {
			return nil
		}

		// В найденном дне предпочитаем слот, ближайший к запрошенному времени
		var best *domain.SlotSuggestion
		bestDistance := 0
		for _, start := range gridStarts(window.window, in.policy.SlotIntervalMinutes) {
			if !uc.slotFree(in, date, start, window, staffWindow, haveStaff, reservations) {
				continue
			}

			distance, err := in.req.StartTime.MinutesBetween(start)
			if err != nil {
				continue
			}
			if distance < 0 {
				distance = -distance
			}

			if best == nil || distance < bestDistance {
				best = &domain.SlotSuggestion{Date: date, StartTime: start}
				bestDistance = distance
			}
		}
		if best != nil {
			return best
		}
	}

	return nil
}

// alternativeStaff другие квалифицированные сотрудники, свободные в запрошенный слот
func (uc *Usecase) alternativeStaff(ctx context.Context, in suggestionInput) []domain.StaffSuggestion {
	staffIDs, err := uc.schedules.ListQualifiedStaff(ctx, in.req.BusinessID, in.req.ServiceID)
	if err != nil {
		return nil
	}

	end, err := in.req.StartTime.AddMinutes(in.policy.DurationMinutes)
	if err != nil {
		return nil
	}

	// Слот должен оставлять место по общей вместимости бизнеса
	total := findOverlapping(in.req.StartTime, end, in.reservations, nil, in.req.ExcludeReservationID)
	if total.count >= in.policy.MaxBookingsPerSlot {
		return nil
	}

	var result []domain.StaffSuggestion
	for _, staffID := range staffIDs {
		if in.req.StaffID != nil && staffID == *in.req.StaffID {
			continue
		}

		window, err := uc.resolveStaffWindow(ctx, staffID, in.req.Date)
		if err != nil {
			continue
		}
		if !window.fits(in.req.StartTime, end) {
			continue
		}

		candidate := staffID
		if findOverlapping(in.req.StartTime, end, in.reservations, &candidate, in.req.ExcludeReservationID).count > 0 {
			continue
		}

		result = append(result, domain.StaffSuggestion{
			StaffID:   staffID,
			Date:      in.req.Date,
			StartTime: in.req.StartTime,
		})
		if len(result) >= domain.MaxAlternativeStaff {
			break
		}
	}

	return result
}

// slotFree проверяет кандидата: рабочие окна, горизонт, минимальное
// уведомление и занятость по снапшоту бронирований
func (uc *Usecase) slotFree(
	in suggestionInput,
	date time.Time,
	start types.TimeString,
	businessWindow, staffWindow resolvedWindow,
	haveStaff bool,
	reservations []*domain.Reservation,
) bool {
	end, err := start.AddMinutes(in.policy.DurationMinutes)
	if err != nil {
		return false
	}

	if !businessWindow.fits(start, end) {
		return false
	}

	startAt, err := start.AtDate(date)
	if err != nil {
		return false
	}

	if startAt.Before(in.now.Add(time.Duration(in.policy.MinAdvanceHours) * time.Hour)) {
		return false
	}

	// Горизонт считается по календарным датам, как и в основной проверке
	if in.policy.HasAdvanceBookingLimit() && dateOnly(date).After(dateOnly(in.now).AddDate(0, 0, in.policy.AdvanceBookingDays)) {
		return false
	}

	if haveStaff {
		if !staffWindow.fits(start, end) {
			return false
		}
		if findOverlapping(start, end, reservations, in.req.StaffID, in.req.ExcludeReservationID).count > 0 {
			return false
		}
	}

	return findOverlapping(start, end, reservations, nil, in.req.ExcludeReservationID).count < in.policy.MaxBookingsPerSlot
}

// gridStarts точки сетки слотов внутри окна с шагом interval минут
func gridStarts(window domain.OpenWindow, interval int) []types.TimeString {
	if interval <= 0 {
		interval = domain.DefaultSlotIntervalMinutes
	}

	var starts []types.TimeString
	current := window.Open
	for current.IsBefore(window.Close) {
		starts = append(starts, current)

		next, err := current.AddMinutes(interval)
		if err != nil {
			break
		}
		current = next
	}
	return starts
}
