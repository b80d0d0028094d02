package topup_wallet

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/wallet"
	"github.com/m04kA/SMC-ReservationService/internal/service/wallet/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidAmount      = "сумма пополнения должна быть положительной"
	msgUnauthorized       = "пользователь не аутентифицирован"
)

type Handler struct {
	service WalletService
	logger  Logger
}

func NewHandler(service WalletService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/wallet/top-up
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	var req TopUpRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /wallet/top-up - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.TopUp(r.Context(), &models.TopUpRequest{
		UserID: userID,
		Amount: req.Amount,
	})
	if err != nil {
		if errors.Is(err, wallet.ErrInvalidInput) {
			h.logger.Warn("POST /wallet/top-up - Invalid amount: user_id=%d, amount=%.2f", userID, req.Amount)
			handlers.RespondBadRequest(w, msgInvalidAmount)
			return
		}
		h.logger.Error("POST /wallet/top-up - Failed: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /wallet/top-up - Topped up: user_id=%d, amount=%.2f, balance=%.2f",
		userID, req.Amount, result.Balance)
	handlers.RespondJSON(w, http.StatusOK, result)
}
