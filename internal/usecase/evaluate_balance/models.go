package evaluate_balance

import "github.com/m04kA/SMC-ReservationService/internal/domain"

// Request модель запроса на проверку достаточности средств
// Available передаётся явно для неперсистентных видов балансов;
// для кошелька (wallet) при Available = nil баланс берётся из леджера
type Request struct {
	UserID    int64
	Required  float64
	Available *float64
	Kind      domain.BalanceKind
}

// Response результат проверки: средств достаточно
type Response struct {
	Required  float64
	Available float64
	Kind      domain.BalanceKind
}
