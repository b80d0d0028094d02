package evaluate_balance

import (
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	evaluateBalance "github.com/m04kA/SMC-ReservationService/internal/usecase/evaluate_balance"
)

// EvaluateBalanceRequest HTTP request model
// available можно не передавать для kind=wallet, тогда баланс берётся из леджера
type EvaluateBalanceRequest struct {
	Required  float64  `json:"required"`
	Available *float64 `json:"available,omitempty"`
	Kind      string   `json:"kind"`
}

// EvaluateBalanceResponse HTTP response model: средств достаточно
type EvaluateBalanceResponse struct {
	Sufficient bool    `json:"sufficient"`
	Required   float64 `json:"required"`
	Available  float64 `json:"available"`
	Kind       string  `json:"kind"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *EvaluateBalanceRequest) ToUseCaseRequest(userID int64) evaluateBalance.Request {
	return evaluateBalance.Request{
		UserID:    userID,
		Required:  r.Required,
		Available: r.Available,
		Kind:      domain.BalanceKind(r.Kind),
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *evaluateBalance.Response) *EvaluateBalanceResponse {
	return &EvaluateBalanceResponse{
		Sufficient: true,
		Required:   resp.Required,
		Available:  resp.Available,
		Kind:       string(resp.Kind),
	}
}
