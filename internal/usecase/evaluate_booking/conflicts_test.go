package evaluate_booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func activeReservation(id int64, ref, start, end string, staffID *int64) *domain.Reservation {
	return &domain.Reservation{
		ID:        id,
		Reference: ref,
		StartTime: ts(start),
		EndTime:   ts(end),
		StaffID:   staffID,
		Status:    domain.StatusConfirmed,
	}
}

func TestFindOverlapping_PartialOverlap(t *testing.T) {
	reservations := []*domain.Reservation{
		activeReservation(1, "r1", "11:20", "11:40", nil),
	}

	result := findOverlapping(ts("11:30"), ts("12:00"), reservations, nil, nil)

	assert.Equal(t, 1, result.count)
	require.Len(t, result.colliding, 1)
	assert.Equal(t, "r1", result.colliding[0].Reference)
}

func TestFindOverlapping_TouchingEndpointsDoNotConflict(t *testing.T) {
	reservations := []*domain.Reservation{
		activeReservation(1, "before", "11:00", "11:30", nil),
		activeReservation(2, "after", "12:00", "12:30", nil),
	}

	result := findOverlapping(ts("11:30"), ts("12:00"), reservations, nil, nil)

	assert.Equal(t, 0, result.count)
	assert.Empty(t, result.colliding)
}

func TestFindOverlapping_SkipsInactive(t *testing.T) {
	cancelled := activeReservation(1, "r1", "11:00", "12:00", nil)
	cancelled.Status = domain.StatusCancelled
	noShow := activeReservation(2, "r2", "11:00", "12:00", nil)
	noShow.Status = domain.StatusNoShow

	result := findOverlapping(ts("11:00"), ts("12:00"), []*domain.Reservation{cancelled, noShow}, nil, nil)

	assert.Equal(t, 0, result.count)
}

func TestFindOverlapping_StaffFilter(t *testing.T) {
	reservations := []*domain.Reservation{
		activeReservation(1, "staff-5", "10:00", "11:00", int64Ptr(5)),
		activeReservation(2, "staff-7", "10:00", "11:00", int64Ptr(7)),
		activeReservation(3, "no-staff", "10:00", "11:00", nil),
	}

	result := findOverlapping(ts("10:00"), ts("11:00"), reservations, int64Ptr(5), nil)

	assert.Equal(t, 1, result.count)
	assert.Equal(t, "staff-5", result.colliding[0].Reference)
}

func TestFindOverlapping_ExcludesReservation(t *testing.T) {
	reservations := []*domain.Reservation{
		activeReservation(42, "self", "10:00", "11:00", nil),
	}

	// Перенос существующего бронирования не конфликтует сам с собой
	result := findOverlapping(ts("10:00"), ts("11:00"), reservations, nil, int64Ptr(42))

	assert.Equal(t, 0, result.count)
}

func TestFindOverlapping_ComputesEndFromDuration(t *testing.T) {
	res := &domain.Reservation{
		ID:              1,
		Reference:       "r1",
		StartTime:       ts("10:00"),
		DurationMinutes: 90,
		Status:          domain.StatusPending,
	}

	result := findOverlapping(ts("11:00"), ts("12:00"), []*domain.Reservation{res}, nil, nil)

	require.Equal(t, 1, result.count)
	assert.Equal(t, ts("11:30"), result.colliding[0].EndTime)
}

func TestFindOverlapping_ContainedSlot(t *testing.T) {
	reservations := []*domain.Reservation{
		activeReservation(1, "long", "09:00", "18:00", nil),
	}

	result := findOverlapping(ts("12:00"), ts("13:00"), reservations, nil, nil)

	assert.Equal(t, 1, result.count)
}
