package evaluate_balance

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// Usecase проверка достаточности средств перед оплатой бронирования
type Usecase struct {
	ledger LedgerRepository
	logger Logger
}

// New создает новый usecase проверки баланса
func New(ledger LedgerRepository, logger Logger) *Usecase {
	return &Usecase{
		ledger: ledger,
		logger: logger,
	}
}

// Execute проверяет достаточность средств
// При нехватке возвращает *domain.BalanceShortage с вариантами пополнения
func (uc *Usecase) Execute(ctx context.Context, req Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	available, err := uc.resolveAvailable(ctx, req)
	if err != nil {
		uc.logger.Error("[EvaluateBalance] Failed to resolve balance: user_id=%d, error=%v", req.UserID, err)
		return nil, fmt.Errorf("%w: failed to resolve balance: %v", ErrInternal, err)
	}

	if shortage := domain.EvaluateBalance(req.Required, available, req.Kind); shortage != nil {
		uc.logger.Info("[EvaluateBalance] Shortage: user_id=%d, kind=%s, required=%.2f, available=%.2f",
			req.UserID, req.Kind, req.Required, available)
		return nil, shortage
	}

	return &Response{
		Required:  req.Required,
		Available: available,
		Kind:      req.Kind,
	}, nil
}

// resolveAvailable возвращает доступные средства: из запроса или из леджера кошелька
func (uc *Usecase) resolveAvailable(ctx context.Context, req Request) (float64, error) {
	if req.Available != nil {
		return *req.Available, nil
	}
	return uc.ledger.GetBalance(ctx, req.UserID)
}

// validateRequest проверяет корректность входных данных запроса
func validateRequest(req Request) error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: userID must be positive, got %d", ErrInvalidInput, req.UserID)
	}

	if req.Required < 0 {
		return fmt.Errorf("%w: required must not be negative, got %.2f", ErrInvalidInput, req.Required)
	}

	if req.Available != nil && *req.Available < 0 {
		return fmt.Errorf("%w: available must not be negative, got %.2f", ErrInvalidInput, *req.Available)
	}

	if !req.Kind.IsValid() {
		return fmt.Errorf("%w: unknown balance kind %q", ErrInvalidInput, req.Kind)
	}

	return nil
}
