package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

func TestNewBusinessClosedError(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	open := types.TimeString("09:00")
	close := types.TimeString("18:00")

	conflict := NewBusinessClosedError(date, "19:00", 60, DayHours{
		IsOpen:    true,
		OpenTime:  &open,
		CloseTime: &close,
	})

	assert.Equal(t, ConflictBusinessClosed, conflict.Kind)
	assert.Equal(t, "2026-03-15", conflict.Details["requested_date"])
	assert.Equal(t, "19:00", conflict.Details["requested_time"])
	assert.Equal(t, 60, conflict.Details["requested_duration"])
	assert.Equal(t, "09:00-18:00", conflict.Details["working_hours"])

	closedDay := NewBusinessClosedError(date, "10:00", 60, DayHours{IsOpen: false})
	assert.Equal(t, "closed", closedDay.Details["working_hours"])
}

func TestNewStaffUnavailableError(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	colliding := []CollidingReservation{{Reference: "abc", StartTime: "10:00", EndTime: "11:00"}}

	conflict := NewStaffUnavailableError(date, "10:30", 60, StaffReasonBooked, colliding)

	assert.Equal(t, ConflictStaffUnavailable, conflict.Kind)
	assert.Equal(t, "booked", conflict.Details["reason"])
	require.Len(t, conflict.Colliding, 1)
	assert.Equal(t, "abc", conflict.Colliding[0].Reference)
}

func TestNewCapacityExceededError(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	conflict := NewCapacityExceededError(date, "10:00", 60, 3, 3, nil)

	assert.Equal(t, ConflictCapacityExceeded, conflict.Kind)
	assert.Equal(t, 3, conflict.Details["current_capacity"])
	assert.Equal(t, 3, conflict.Details["max_capacity"])
	assert.Contains(t, conflict.Error(), "capacity_exceeded")
}

func TestNewAdvanceLimitError(t *testing.T) {
	date := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	conflict := NewAdvanceLimitError(date, "10:00", 60, 30)

	assert.Equal(t, ConflictAdvanceLimitExceeded, conflict.Kind)
	assert.Equal(t, 30, conflict.Details["max_advance_days"])
}

func TestNewMinimumNoticeError(t *testing.T) {
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	conflict := NewMinimumNoticeError(date, "10:00", 60, 2)

	assert.Equal(t, ConflictMinimumNotice, conflict.Kind)
	assert.Equal(t, 2, conflict.Details["min_advance_hours"])
}
