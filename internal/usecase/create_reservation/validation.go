package create_reservation

import (
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// validateRequest проверяет корректность входных данных запроса
func validateRequest(req Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive, got %d", ErrInvalidInput, req.UserID)
	}

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

	if req.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative, got %.2f", ErrInvalidInput, req.Amount)
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}
