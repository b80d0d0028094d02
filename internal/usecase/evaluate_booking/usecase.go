package evaluate_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	policystore "github.com/m04kA/SMC-ReservationService/internal/infra/storage/policy"
	schedulestore "github.com/m04kA/SMC-ReservationService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Usecase проверка доступности слота и выявление конфликтов бронирования
//
// Порядок проверок фиксирован: рабочее окно бизнеса, горизонт бронирования,
// минимальное уведомление, доступность сотрудника, занятость слота и вместимость.
// Возвращается первый найденный конфликт
type Usecase struct {
	reservations ReservationRepository
	schedules    ScheduleRepository
	policies     PolicyRepository
	timeProvider TimeProvider
	logger       Logger
}

// New создает новый usecase проверки слота
func New(
	reservations ReservationRepository,
	schedules ScheduleRepository,
	policies PolicyRepository,
	timeProvider TimeProvider,
	logger Logger,
) *Usecase {
	if timeProvider == nil {
		timeProvider = &RealTimeProvider{}
	}

	return &Usecase{
		reservations: reservations,
		schedules:    schedules,
		policies:     policies,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute проверяет запрошенный слот и возвращает вычисленное время конца
// и эффективную политику. При конфликте возвращает *domain.ConflictError,
// к которому best-effort приложены альтернативные слоты
func (uc *Usecase) Execute(ctx context.Context, req Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	policy, err := uc.resolvePolicy(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		uc.logger.Error("[EvaluateBooking] Failed to resolve policy: business_id=%d, service_id=%d, error=%v",
			req.BusinessID, req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}

	businessWeek, dayHours, err := uc.businessHours(ctx, req.BusinessID, req.Date)
	if err != nil {
		uc.logger.Error("[EvaluateBooking] Failed to load business schedule: business_id=%d, error=%v",
			req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to load business schedule: %v", ErrInternal, err)
	}

	reservations, err := uc.dayReservations(ctx, req.BusinessID, req.Date)
	if err != nil {
		uc.logger.Error("[EvaluateBooking] Failed to load reservations: business_id=%d, date=%s, error=%v",
			req.BusinessID, req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to load reservations: %v", ErrInternal, err)
	}

	in := suggestionInput{
		req:          req,
		policy:       policy,
		businessWeek: businessWeek,
		reservations: reservations,
		now:          uc.timeProvider.Now(),
	}

	// Слот, не помещающийся в сутки, не поместится ни в одно рабочее окно
	endTime, err := req.StartTime.AddMinutes(policy.DurationMinutes)
	if err != nil {
		return nil, uc.withSuggestions(ctx, in,
			domain.NewBusinessClosedError(req.Date, req.StartTime, policy.DurationMinutes, dayHours))
	}

	businessWindow := resolveWindow(dayHours, nil)
	if !businessWindow.fits(req.StartTime, endTime) {
		return nil, uc.withSuggestions(ctx, in,
			domain.NewBusinessClosedError(req.Date, req.StartTime, policy.DurationMinutes, dayHours))
	}

	slotStart, err := req.StartTime.AtDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}

	// Горизонт бронирования сравнивается по календарным датам:
	// последний разрешённый день доступен целиком, независимо от времени суток
	if policy.HasAdvanceBookingLimit() {
		horizon := dateOnly(in.now).AddDate(0, 0, policy.AdvanceBookingDays)
		if dateOnly(req.Date).After(horizon) {
			return nil, uc.withSuggestions(ctx, in,
				domain.NewAdvanceLimitError(req.Date, req.StartTime, policy.DurationMinutes, policy.AdvanceBookingDays))
		}
	}

	minStart := in.now.Add(time.Duration(policy.MinAdvanceHours) * time.Hour)
	if slotStart.Before(minStart) {
		return nil, uc.withSuggestions(ctx, in,
			domain.NewMinimumNoticeError(req.Date, req.StartTime, policy.DurationMinutes, policy.MinAdvanceHours))
	}

	if req.StaffID != nil {
		staffWindow, err := uc.resolveStaffWindow(ctx, *req.StaffID, req.Date)
		if err != nil {
			uc.logger.Error("[EvaluateBooking] Failed to resolve staff window: staff_id=%d, error=%v",
				*req.StaffID, err)
			return nil, fmt.Errorf("%w: failed to resolve staff schedule: %v", ErrInternal, err)
		}

		if !staffWindow.fits(req.StartTime, endTime) {
			reason := unavailableReason(staffWindow, req.StartTime, endTime)
			return nil, uc.withSuggestions(ctx, in,
				domain.NewStaffUnavailableError(req.Date, req.StartTime, policy.DurationMinutes, reason, nil))
		}

		staffOverlap := findOverlapping(req.StartTime, endTime, reservations, req.StaffID, req.ExcludeReservationID)
		if staffOverlap.count > 0 {
			return nil, uc.withSuggestions(ctx, in,
				domain.NewStaffUnavailableError(req.Date, req.StartTime, policy.DurationMinutes, domain.StaffReasonBooked, staffOverlap.colliding))
		}
	}

	overlap := findOverlapping(req.StartTime, endTime, reservations, nil, req.ExcludeReservationID)
	if overlap.count >= policy.MaxBookingsPerSlot {
		if policy.SupportsParallelBookings() {
			return nil, uc.withSuggestions(ctx, in,
				domain.NewCapacityExceededError(req.Date, req.StartTime, policy.DurationMinutes, overlap.count, policy.MaxBookingsPerSlot, overlap.colliding))
		}
		return nil, uc.withSuggestions(ctx, in,
			domain.NewTimeSlotTakenError(req.Date, req.StartTime, policy.DurationMinutes, overlap.colliding))
	}

	return &Response{
		EndTime: endTime,
		Policy:  policy,
	}, nil
}

// resolvePolicy возвращает эффективную политику: услуги, бизнеса или дефолтную
func (uc *Usecase) resolvePolicy(ctx context.Context, businessID, serviceID int64) (*domain.ServicePolicy, error) {
	policy, err := uc.policies.GetPolicyWithHierarchy(ctx, businessID, &serviceID)
	if err != nil {
		if errors.Is(err, policystore.ErrPolicyNotFound) {
			return domain.DefaultServicePolicy(businessID), nil
		}
		return nil, err
	}
	return policy, nil
}

// businessHours загружает недельное расписание бизнеса и часы на дату
// Отсутствие расписания трактуется как выходной, а не как ошибка
func (uc *Usecase) businessHours(ctx context.Context, businessID int64, date time.Time) (*domain.WeekSchedule, domain.DayHours, error) {
	week, err := uc.schedules.GetWeekSchedule(ctx, domain.OwnerBusiness, businessID)
	if err != nil {
		if errors.Is(err, schedulestore.ErrScheduleNotFound) {
			return &domain.WeekSchedule{}, domain.DayHours{IsOpen: false}, nil
		}
		return nil, domain.DayHours{}, err
	}
	return week, week.ForDate(date), nil
}

// dayReservations снапшот активных бронирований бизнеса на дату
// Внутри сериализуемой транзакции репозиторий добавляет FOR UPDATE
func (uc *Usecase) dayReservations(ctx context.Context, businessID int64, date time.Time) ([]*domain.Reservation, error) {
	filter := domain.ReservationsFilter{
		BusinessID: businessID,
		StartDate:  &date,
		EndDate:    &date,
	}
	return uc.reservations.GetByBusinessWithFilter(ctx, filter)
}

// resolveStaffWindow вычисляет эффективное окно сотрудника на дату:
// недельное расписание плюс исключение (отпуск, болезнь, блокировка, override)
func (uc *Usecase) resolveStaffWindow(ctx context.Context, staffID int64, date time.Time) (resolvedWindow, error) {
	var hours domain.DayHours

	week, err := uc.schedules.GetWeekSchedule(ctx, domain.OwnerStaff, staffID)
	if err != nil {
		if !errors.Is(err, schedulestore.ErrScheduleNotFound) {
			return resolvedWindow{}, err
		}
		hours = domain.DayHours{IsOpen: false}
	} else {
		hours = week.ForDate(date)
	}

	exc, err := uc.schedules.GetException(ctx, staffID, date)
	if err != nil {
		if !errors.Is(err, schedulestore.ErrExceptionNotFound) {
			return resolvedWindow{}, err
		}
		exc = nil
	}

	return resolveWindow(hours, exc), nil
}

// unavailableReason определяет причину недоступности сотрудника для слота
func unavailableReason(w resolvedWindow, start, end types.TimeString) domain.StaffUnavailableReason {
	if !w.open {
		return w.reason
	}
	if w.blocks(start, end) {
		return w.blockedBy
	}
	// Окно открыто, но слот выходит за его границы
	return domain.StaffReasonOffDuty
}

// dateOnly обнуляет время суток, оставляя календарную дату
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// withSuggestions прикладывает альтернативы к конфликту (best-effort)
func (uc *Usecase) withSuggestions(ctx context.Context, in suggestionInput, conflict *domain.ConflictError) *domain.ConflictError {
	conflict.Suggestions = uc.buildSuggestions(ctx, in)
	return conflict
}
