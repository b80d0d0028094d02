package cancel_reservation

// CancelReservationRequest HTTP request model
type CancelReservationRequest struct {
	BusinessID *int64 `json:"businessId,omitempty"` // заполнен при отмене со стороны бизнеса
	Reason     string `json:"reason"`
}
