package update_reservation_status

// UpdateStatusRequest HTTP request model
// Допустимые значения status: completed, no_show
type UpdateStatusRequest struct {
	BusinessID int64  `json:"businessId"`
	Status     string `json:"status"`
}
