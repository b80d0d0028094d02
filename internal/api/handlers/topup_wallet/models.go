package topup_wallet

// TopUpRequest HTTP request model
type TopUpRequest struct {
	Amount float64 `json:"amount"`
}
