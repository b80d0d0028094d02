package evaluate_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	policystore "github.com/m04kA/SMC-ReservationService/internal/infra/storage/policy"
	schedulestore "github.com/m04kA/SMC-ReservationService/internal/infra/storage/schedule"
)

// --- фейки репозиториев ---

type fakeReservations struct {
	byDate map[string][]*domain.Reservation
	err    error
}

func (f *fakeReservations) GetByBusinessWithFilter(_ context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	if filter.StartDate == nil {
		return nil, nil
	}
	return f.byDate[filter.StartDate.Format(domain.DateFormat)], nil
}

type fakeSchedules struct {
	businessWeek *domain.WeekSchedule
	staffWeeks   map[int64]*domain.WeekSchedule
	exceptions   map[int64]*domain.AvailabilityException
	qualified    []int64
}

func (f *fakeSchedules) GetWeekSchedule(_ context.Context, ownerType domain.OwnerType, ownerID int64) (*domain.WeekSchedule, error) {
	if ownerType == domain.OwnerBusiness {
		if f.businessWeek == nil {
			return nil, schedulestore.ErrScheduleNotFound
		}
		return f.businessWeek, nil
	}
	week, ok := f.staffWeeks[ownerID]
	if !ok {
		return nil, schedulestore.ErrScheduleNotFound
	}
	return week, nil
}

func (f *fakeSchedules) GetException(_ context.Context, staffID int64, _ time.Time) (*domain.AvailabilityException, error) {
	exc, ok := f.exceptions[staffID]
	if !ok {
		return nil, schedulestore.ErrExceptionNotFound
	}
	return exc, nil
}

func (f *fakeSchedules) ListQualifiedStaff(_ context.Context, _, _ int64) ([]int64, error) {
	return f.qualified, nil
}

type fakePolicies struct {
	policy *domain.ServicePolicy
}

func (f *fakePolicies) GetPolicyWithHierarchy(_ context.Context, _ int64, _ *int64) (*domain.ServicePolicy, error) {
	if f.policy == nil {
		return nil, policystore.ErrPolicyNotFound
	}
	return f.policy, nil
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time {
	return f.now
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// --- фикстуры ---

// Понедельник
var monday = time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)

// Воскресенье той же недели
var sunday = time.Date(2026, 3, 22, 0, 0, 0, 0, time.UTC)

func mondayOnlyWeek(open, close string) *domain.WeekSchedule {
	week := &domain.WeekSchedule{}
	week.SetForWeekday(time.Monday, openHours(open, close))
	return week
}

func testPolicy() *domain.ServicePolicy {
	return &domain.ServicePolicy{
		ID:                  1,
		BusinessID:          1,
		DurationMinutes:     60,
		SlotIntervalMinutes: 30,
		MinAdvanceHours:     2,
		AdvanceBookingDays:  30,
		CancellationHours:   24,
		MaxBookingsPerSlot:  1,
	}
}

type fixture struct {
	reservations *fakeReservations
	schedules    *fakeSchedules
	policies     *fakePolicies
	uc           *Usecase
}

func newFixture(policy *domain.ServicePolicy) *fixture {
	f := &fixture{
		reservations: &fakeReservations{byDate: map[string][]*domain.Reservation{}},
		schedules: &fakeSchedules{
			businessWeek: mondayOnlyWeek("09:00", "18:00"),
			staffWeeks:   map[int64]*domain.WeekSchedule{},
			exceptions:   map[int64]*domain.AvailabilityException{},
		},
		policies: &fakePolicies{policy: policy},
	}

	// Сутки до запрошенного понедельника
	clock := &fixedTime{now: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)}
	f.uc = New(f.reservations, f.schedules, f.policies, clock, nopLogger{})
	return f
}

func (f *fixture) addReservation(res *domain.Reservation) {
	key := res.BookingDate.Format(domain.DateFormat)
	f.reservations.byDate[key] = append(f.reservations.byDate[key], res)
}

func conflictKind(t *testing.T, err error) *domain.ConflictError {
	t.Helper()
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	return conflict
}

// --- тесты ---

func TestExecute_Success(t *testing.T) {
	f := newFixture(testPolicy())

	resp, err := f.uc.Execute(context.Background(), Request{
		BusinessID: 1,
		ServiceID:  2,
		Date:       monday,
		StartTime:  ts("10:00"),
	})

	require.NoError(t, err)
	assert.Equal(t, ts("11:00"), resp.EndTime)
	assert.Equal(t, int64(1), resp.Policy.BusinessID)
}

func TestExecute_FallsBackToDefaultPolicy(t *testing.T) {
	f := newFixture(nil)

	resp, err := f.uc.Execute(context.Background(), Request{
		BusinessID: 1,
		ServiceID:  2,
		Date:       monday,
		StartTime:  ts("10:00"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultDurationMinutes, resp.Policy.DurationMinutes)
	assert.Equal(t, ts("11:00"), resp.EndTime)
}

func TestExecute_BusinessClosedDay(t *testing.T) {
	f := newFixture(testPolicy())

	_, err := f.uc.Execute(context.Background(), Request{
		BusinessID: 1,
		ServiceID:  2,
		Date:       sunday,
		StartTime:  ts("10:00"),
	})

	conflict := conflictKind(t, err)
	assert.Equal(t, domain.ConflictBusinessClosed, conflict.Kind)
	assert.Equal(t, "closed", conflict.Details["working_hours"])

	// В закрытый день нет слотов того же дня, но есть ближайший будущий,
	// по времени совпадающий с запрошенным
	assert.Empty(t, conflict.Suggestions.SameDay)
	require.NotNil(t, conflict.Suggestions.NextAvailable)
	assert.Equal(t, time.Date(2026, 3, 23, 0, 0, 0, 0, time.UTC), conflict.Suggestions.NextAvailable.Date)
	assert.Equal(t, ts("10:00"), conflict.Suggestions.NextAvailable.StartTime)
}

func TestExecute_SlotOutsideWorkingWindow(t *testing.T) {
	f := newFixture(testPolicy())

	_, err := f.uc.Execute(context.Background(), Request{
		BusinessID: 1,
		ServiceID:  2,
		Date:       monday,
		StartTime:  ts("17:30"), // конец 18:30 за пределами окна
	})

	conflict := conflictKind(t, err)
	assert.Equal(t, domain.ConflictBusinessClosed, conflict.Kind)
	assert.Equal(t, "09:00-18:00", conflict.Details["working_hours"])

	// Ближайшие свободные слоты того же дня
	require.Len(t, conflict.Suggestions.SameDay, domain.MaxSameDaySuggestions)
	assert.Equal(t, ts("17:00"), conflict.Suggestions.SameDay[0].StartTime)
	assert.Equal(t, ts("16:30"), conflict.Suggestions.SameDay[1].StartTime)
	assert.Equal(t, ts("16:00"), conflict.Suggestions.SameDay[2].StartTime)
}

func TestExecute_SlotPastMidnight(t *testing.T) {
	policy := testPolicy()
	policy.DurationMinutes = 120
	f := newFixture(policy)

	_, err := f.uc.Execute(context.Background(), Request{
		BusinessID: 1,
		ServiceID:  2,
		Date:       monday,
		StartTime:  ts("23:00"),
	})

	conflict := conflictKind(t, err)
	assert.Equal(t, domain.ConflictBusinessClosed, conflict.Kind)
}

func TestExecute_AdvanceLimitExceeded(t *testing.T) {
	f := newFixture(testPolicy())

	// Понедельник через 5 недель, за горизонтом в 30 дней
	farDate := monday.AddDate(0, 0, 35)

	_, err := f.uc.Execute(context.Background(), Request{
		BusinessID: 1,
		ServiceID:  2,
		Date:       farDate,
		StartTime:  ts("10:00"),
	})

	conflict := conflictKind(t, err)
	assert.Equal(t, domain.ConflictAdvanceLimitExceeded, conflict.Kind)
	assert.Equal(t, 30, conflict.Details["max_advance_days"])

	// За горизонтом альтернатив нет: соседние дни тоже недоступны
	assert.Empty(t, conflict.Suggestions.SameDay)
	assert.Nil(t, conflict.Suggestions.NextAvailable)
}

func TestExecute_AdvanceLimitLastAllowedDay(t *testing.T) {
	policy := testPolicy()
	policy.AdvanceBookingDays = 1
	f := newFixture(policy)

	// now = воскресенье 12:00, горизонт в один день покрывает весь понедельник,
	// включая слоты позже текущего времени суток
	resp, err := f.uc.Execute(context.Background(), Request{
		BusinessID: 1,
		ServiceID:  2,
		Date:       monday,
		StartTime:  ts("14:00"),
	})

	require.NoError(t, err)
	assert.Equal(t, ts("15:00"), resp.EndTime)
}

func TestExecute_MinimumNoticeRequired(t *testing.T) {
	f := newFixture(testPolicy())

	// now = воскресенье 12:00, запрос на понедельник 09:00 прошёл бы,
	// поэтому двигаем часы на утро понедельника
	f.uc.timeProvider = &fixedTime{now: time.Date(2026, 3, 16, 8, 30, 0, 0, time.UTC)}

	_, err := f.uc.Execute(context.Background(), Request{
		BusinessID: 1,
		ServiceID:  2,
		Date:       monday,
		StartTime:  ts("09:00"), // меньше двух часов до начала
	})

	conflict := conflictKind(t, err)
	assert.Equal(t, domain.ConflictMinimumNotice, conflict.Kind)
	assert.Equal(t, 2, conflict.Details["min_advance_hours"])

	// Слоты того же дня после истечения срока уведомления остаются доступными
	require.NotEmpty(t, conflict.Suggestions.SameDay)
	assert.Equal(t, ts("10:30"), conflict.Suggestions.SameDay[0].StartTime)
}

func TestExecute_StaffOffDuty(t *testing.T) {
	f := newFixture(testPolicy())
	// У сотрудника 5 нет расписания вовсе

	_, err := f.uc.Execute(context.Background(), Request{
		BusinessID: 1,
		ServiceID:  2,
		StaffID:    int64Ptr(5),
		Date:       monday,
		StartTime:  ts("10:00"),
	})

	conflict := conflictKind(t, err)
	assert.Equal(t, domain.ConflictStaffUnavailable, conflict.Kind)
	assert.Equal(t, "off_duty", conflict.Details["reason"])
}

func TestExecute_StaffOnVacation(t *testing.T) {
	f := newFixture(testPolicy())
	f.schedules.staffWeeks[5] = mondayOnlyWeek("09:00", "18:00")
	f.schedules.exceptions[5] = &domain.AvailabilityException{
		StaffID: 5,
		Date:    monday,
		Type:    domain.ExceptionVacation,
	}

	_, err := f.uc.Execute(context.Background(), Request{
		BusinessID: 1,
		ServiceID:  2,
		StaffID:    int64Ptr(5),
		Date:       monday,
		StartTime:  ts("10:00"),
	})

	conflict := conflictKind(t, err)
	assert.Equal(t, domain.ConflictStaffUnavailable, conflict.Kind)
	assert.Equal(t, "vacation", conflict.Details["reason"])
}

func TestExecute_StaffBookedWithAlternatives(t *testing.T) {
	policy := testPolicy()
	policy.MaxBookingsPerSlot = 2
	f := newFixture(policy)

	f.schedules.staffWeeks[5] = mondayOnlyWeek("09:00", "18:00")
	f.schedules.staffWeeks[7] = mondayOnlyWeek("09:00", "18:00")
	f.schedules.qualified = []int64{5, 7}

	f.addReservation(&domain.Reservation{
		ID:          10,
		Reference:   "busy",
		BusinessID:  1,
		StaffID:     int64Ptr(5),
		BookingDate: monday,
		StartTime:   ts("10:30"),
		EndTime:     ts("11:30"),
		Status:      domain.StatusConfirmed,
		ServiceName: "Haircut",
	})

	_, err := f.uc.Execute(context.Background(), Request{
		BusinessID: 1,
		ServiceID:  2,
		StaffID:    int64Ptr(5),
		Date:       monday,
		StartTime:  ts("10:00"),
	})

	conflict := conflictKind(t, err)
	assert.Equal(t, domain.ConflictStaffUnavailable, conflict.Kind)
	assert.Equal(t, "booked", conflict.Details["reason"])
	require.Len(t, conflict.Colliding, 1)
	assert.Equal(t, "busy", conflict.Colliding[0].Reference)

	// Тот же слот свободен у второго мастера
	require.Len(t, conflict.Suggestions.AlternativeStaff, 1)
	assert.Equal(t, int64(7), conflict.Suggestions.AlternativeStaff[0].StaffID)
	assert.Equal(t, ts("10:00"), conflict.Suggestions.AlternativeStaff[0].StartTime)
}

func TestExecute_TimeSlotTaken(t *testing.T) {
	f := newFixture(testPolicy())

	f.addReservation(&domain.Reservation{
		ID:          10,
		Reference:   "taken",
		BusinessID:  1,
		BookingDate: monday,
		StartTime:   ts("10:00"),
		EndTime:     ts("11:00"),
		Status:      domain.StatusPending,
	})

	_, err := f.uc.Execute(context.Background(), Request{
		BusinessID: 1,
		ServiceID:  2,
		Date:       monday,
		StartTime:  ts("10:00"),
	})

	conflict := conflictKind(t, err)
	assert.Equal(t, domain.ConflictTimeSlotTaken, conflict.Kind)
	require.Len(t, conflict.Colliding, 1)
	assert.Equal(t, "taken", conflict.Colliding[0].Reference)

	// Без запрошенного сотрудника альтернативный персонал не подбирается
	assert.Empty(t, conflict.Suggestions.AlternativeStaff)
	assert.NotEmpty(t, conflict.Suggestions.SameDay)
	for _, s := range conflict.Suggestions.SameDay {
		assert.NotEqual(t, ts("10:00"), s.StartTime)
		assert.NotEqual(t, ts("10:30"), s.StartTime) // пересекается с занятым слотом
	}
}

func TestExecute_CapacityExceeded(t *testing.T) {
	policy := testPolicy()
	policy.MaxBookingsPerSlot = 2
	f := newFixture(policy)

	for i, ref := range []string{"a", "b"} {
		f.addReservation(&domain.Reservation{
			ID:          int64(i + 1),
			Reference:   ref,
			BusinessID:  1,
			BookingDate: monday,
			StartTime:   ts("10:00"),
			EndTime:     ts("11:00"),
			Status:      domain.StatusConfirmed,
		})
	}

	_, err := f.uc.Execute(context.Background(), Request{
		BusinessID: 1,
		ServiceID:  2,
		Date:       monday,
		StartTime:  ts("10:00"),
	})

	conflict := conflictKind(t, err)
	assert.Equal(t, domain.ConflictCapacityExceeded, conflict.Kind)
	assert.Equal(t, 2, conflict.Details["current_capacity"])
	assert.Equal(t, 2, conflict.Details["max_capacity"])
	assert.Len(t, conflict.Colliding, 2)
}

func TestExecute_ParallelBookingsBelowCapacity(t *testing.T) {
	policy := testPolicy()
	policy.MaxBookingsPerSlot = 2
	f := newFixture(policy)

	f.addReservation(&domain.Reservation{
		ID:          1,
		Reference:   "a",
		BusinessID:  1,
		BookingDate: monday,
		StartTime:   ts("10:00"),
		EndTime:     ts("11:00"),
		Status:      domain.StatusConfirmed,
	})

	resp, err := f.uc.Execute(context.Background(), Request{
		BusinessID: 1,
		ServiceID:  2,
		Date:       monday,
		StartTime:  ts("10:00"),
	})

	require.NoError(t, err)
	assert.Equal(t, ts("11:00"), resp.EndTime)
}

func TestExecute_ExcludeReservation(t *testing.T) {
	f := newFixture(testPolicy())

	f.addReservation(&domain.Reservation{
		ID:          42,
		Reference:   "self",
		BusinessID:  1,
		BookingDate: monday,
		StartTime:   ts("10:00"),
		EndTime:     ts("11:00"),
		Status:      domain.StatusConfirmed,
	})

	// Перенос бронирования 42 на тот же слот не конфликтует с самим собой
	resp, err := f.uc.Execute(context.Background(), Request{
		BusinessID:           1,
		ServiceID:            2,
		Date:                 monday,
		StartTime:            ts("10:00"),
		ExcludeReservationID: int64Ptr(42),
	})

	require.NoError(t, err)
	assert.Equal(t, ts("11:00"), resp.EndTime)
}

func TestExecute_TouchingReservationDoesNotConflict(t *testing.T) {
	f := newFixture(testPolicy())

	f.addReservation(&domain.Reservation{
		ID:          1,
		Reference:   "before",
		BusinessID:  1,
		BookingDate: monday,
		StartTime:   ts("09:00"),
		EndTime:     ts("10:00"),
		Status:      domain.StatusConfirmed,
	})

	resp, err := f.uc.Execute(context.Background(), Request{
		BusinessID: 1,
		ServiceID:  2,
		Date:       monday,
		StartTime:  ts("10:00"),
	})

	require.NoError(t, err)
	assert.Equal(t, ts("11:00"), resp.EndTime)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture(testPolicy())

	cases := []Request{
		{BusinessID: 0, ServiceID: 2, Date: monday, StartTime: ts("10:00")},
		{BusinessID: 1, ServiceID: 0, Date: monday, StartTime: ts("10:00")},
		{BusinessID: 1, ServiceID: 2, Date: time.Time{}, StartTime: ts("10:00")},
		{BusinessID: 1, ServiceID: 2, Date: monday, StartTime: ts("25:00")},
		{BusinessID: 1, ServiceID: 2, StaffID: int64Ptr(0), Date: monday, StartTime: ts("10:00")},
	}

	for _, req := range cases {
		_, err := f.uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestExecute_RepositoryFailure(t *testing.T) {
	f := newFixture(testPolicy())
	f.reservations.err = errors.New("connection refused")

	_, err := f.uc.Execute(context.Background(), Request{
		BusinessID: 1,
		ServiceID:  2,
		Date:       monday,
		StartTime:  ts("10:00"),
	})

	assert.ErrorIs(t, err, ErrInternal)
}
