package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

func TestReservation_IsActive(t *testing.T) {
	active := []ReservationStatus{StatusPending, StatusConfirmed, StatusCompleted}
	for _, status := range active {
		res := Reservation{Status: status}
		assert.True(t, res.IsActive(), "status %s", status)
	}

	inactive := []ReservationStatus{StatusCancelled, StatusNoShow}
	for _, status := range inactive {
		res := Reservation{Status: status}
		assert.False(t, res.IsActive(), "status %s", status)
	}
}

func TestReservation_CanBeCancelled(t *testing.T) {
	assert.True(t, (&Reservation{Status: StatusPending}).CanBeCancelled())
	assert.True(t, (&Reservation{Status: StatusConfirmed}).CanBeCancelled())

	// Отмена терминальна
	assert.False(t, (&Reservation{Status: StatusCancelled}).CanBeCancelled())
	assert.False(t, (&Reservation{Status: StatusCompleted}).CanBeCancelled())
	assert.False(t, (&Reservation{Status: StatusNoShow}).CanBeCancelled())
}

func TestReservation_HasStarted(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	past := Reservation{
		BookingDate: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("18:00"),
	}
	assert.True(t, past.HasStarted(now))

	future := Reservation{
		BookingDate: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("09:00"),
	}
	assert.False(t, future.HasStarted(now))

	todayEarlier := Reservation{
		BookingDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("11:00"),
	}
	assert.True(t, todayEarlier.HasStarted(now))

	todayExact := Reservation{
		BookingDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("12:00"),
	}
	assert.True(t, todayExact.HasStarted(now))

	todayLater := Reservation{
		BookingDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		StartTime:   types.TimeString("12:30"),
	}
	assert.False(t, todayLater.HasStarted(now))
}

func TestReservation_IsUnpaid(t *testing.T) {
	assert.True(t, (&Reservation{PaymentStatus: PaymentPending}).IsUnpaid())
	assert.False(t, (&Reservation{PaymentStatus: PaymentPaid}).IsUnpaid())
	assert.False(t, (&Reservation{PaymentStatus: PaymentRefunded}).IsUnpaid())
}

func TestOpenWindow_Contains(t *testing.T) {
	window := OpenWindow{Open: types.TimeString("09:00"), Close: types.TimeString("18:00")}

	assert.True(t, window.Contains("09:00", "10:00"))
	assert.True(t, window.Contains("17:00", "18:00"))
	assert.True(t, window.Contains("12:00", "13:00"))

	assert.False(t, window.Contains("08:30", "09:30"))
	assert.False(t, window.Contains("17:30", "18:30"))
}
