package evaluate_booking

import (
	"fmt"
)

// validateRequest проверяет корректность входных данных запроса
func validateRequest(req Request) error {
	if req.BusinessID <= 0 {
		return fmt.Errorf("%w: businessID must be positive, got %d", ErrInvalidInput, req.BusinessID)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive, got %d", ErrInvalidInput, req.ServiceID)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffID must be positive, got %d", ErrInvalidInput, *req.StaffID)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: startTime: %v", ErrInvalidInput, err)
	}

	if req.ExcludeReservationID != nil && *req.ExcludeReservationID <= 0 {
		return fmt.Errorf("%w: excludeReservationID must be positive, got %d", ErrInvalidInput, *req.ExcludeReservationID)
	}

	return nil
}
