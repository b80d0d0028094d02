package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	createReservation "github.com/m04kA/SMC-ReservationService/internal/usecase/create_reservation"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// CreateReservationRequest HTTP request model
type CreateReservationRequest struct {
	BusinessID     int64   `json:"businessId"`
	ServiceID      int64   `json:"serviceId"`
	StaffID        *int64  `json:"staffId,omitempty"`
	BookingDate    string  `json:"bookingDate"` // "2026-03-15"
	StartTime      string  `json:"startTime"`   // "10:00"
	ServiceName    string  `json:"serviceName"`
	Amount         float64 `json:"amount"`
	Notes          *string `json:"notes,omitempty"`
	PaymentAuthRef *string `json:"paymentAuthRef,omitempty"`
}

// ReservationResponse HTTP response model
type ReservationResponse struct {
	Reference       string  `json:"reference"`
	UserID          int64   `json:"userId"`
	BusinessID      int64   `json:"businessId"`
	ServiceID       int64   `json:"serviceId"`
	StaffID         *int64  `json:"staffId,omitempty"`
	BookingDate     string  `json:"bookingDate"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	PaymentStatus   string  `json:"paymentStatus"`
	Amount          float64 `json:"amount"`
	ServiceName     string  `json:"serviceName"`
	Notes           *string `json:"notes,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) (createReservation.Request, error) {
	bookingDate, err := time.Parse(domain.DateFormat, r.BookingDate)
	if err != nil {
		return createReservation.Request{}, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return createReservation.Request{}, err
	}

	return createReservation.Request{
		UserID:         userID,
		BusinessID:     r.BusinessID,
		ServiceID:      r.ServiceID,
		StaffID:        r.StaffID,
		Date:           bookingDate,
		StartTime:      startTime,
		ServiceName:    r.ServiceName,
		Amount:         r.Amount,
		Notes:          r.Notes,
		PaymentAuthRef: r.PaymentAuthRef,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createReservation.Response) *ReservationResponse {
	res := resp.Reservation

	return &ReservationResponse{
		Reference:       res.Reference,
		UserID:          res.UserID,
		BusinessID:      res.BusinessID,
		ServiceID:       res.ServiceID,
		StaffID:         res.StaffID,
		BookingDate:     res.BookingDate.Format(domain.DateFormat),
		StartTime:       res.StartTime.String(),
		EndTime:         res.EndTime.String(),
		DurationMinutes: res.DurationMinutes,
		Status:          string(res.Status),
		PaymentStatus:   string(res.PaymentStatus),
		Amount:          res.Amount,
		ServiceName:     res.ServiceName,
		Notes:           res.Notes,
		CreatedAt:       res.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       res.UpdatedAt.Format(time.RFC3339),
	}
}
