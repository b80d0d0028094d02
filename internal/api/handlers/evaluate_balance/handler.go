package evaluate_balance

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	evaluateBalance "github.com/m04kA/SMC-ReservationService/internal/usecase/evaluate_balance"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные параметры проверки баланса"
	msgInsufficientFunds  = "недостаточно средств"
	msgUnauthorized       = "пользователь не аутентифицирован"
)

type Handler struct {
	useCase EvaluateBalanceUseCase
	logger  Logger
}

func NewHandler(useCase EvaluateBalanceUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/balance/evaluate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req EvaluateBalanceRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /balance/evaluate - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		var shortage *domain.BalanceShortage
		switch {
		case errors.As(err, &shortage):
			h.logger.Info("POST /balance/evaluate - Shortage: user_id=%d, kind=%s, short=%.2f",
				userID, shortage.Kind, shortage.Shortage)
			handlers.RespondPaymentRequired(w, msgInsufficientFunds, shortage)

		case errors.Is(err, evaluateBalance.ErrInvalidInput):
			h.logger.Warn("POST /balance/evaluate - Invalid input: user_id=%d, error=%v", userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /balance/evaluate - Failed: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
