package pay_reservation

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/service/wallet"
	"github.com/m04kA/SMC-ReservationService/internal/service/wallet/models"
)

const (
	msgMissingReference    = "отсутствует reference бронирования"
	msgReservationNotFound = "бронирование не найдено"
	msgAccessDenied        = "нет доступа к этому бронированию"
	msgAlreadyPaid         = "бронирование уже оплачено"
	msgNotPayable          = "бронирование не может быть оплачено"
	msgInsufficientFunds   = "недостаточно средств на кошельке"
	msgUnauthorized        = "пользователь не аутентифицирован"
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

// Handle POST /api/v1/reservations/{reference}/pay
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	reference := mux.Vars(r)["reference"]
	if reference == "" {
		handlers.RespondBadRequest(w, msgMissingReference)
		return
	}

	result, err := h.service.Pay(r.Context(), reference, &models.PayRequest{UserID: userID})
	if err != nil {
		var shortage *domain.BalanceShortage
		switch {
		case errors.As(err, &shortage):
			h.logger.Warn("POST /reservations/{reference}/pay - Insufficient funds: reference=%s, user_id=%d, short=%.2f",
				reference, userID, shortage.Shortage)
			handlers.RespondPaymentRequired(w, msgInsufficientFunds, shortage)

		case errors.Is(err, wallet.ErrReservationNotFound):
			h.logger.Warn("POST /reservations/{reference}/pay - Not found: reference=%s", reference)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, wallet.ErrAccessDenied):
			h.logger.Warn("POST /reservations/{reference}/pay - Access denied: reference=%s, user_id=%d",
				reference, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, wallet.ErrAlreadyPaid):
			h.logger.Warn("POST /reservations/{reference}/pay - Already paid: reference=%s", reference)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyPaid)

		case errors.Is(err, wallet.ErrNotPayable):
			h.logger.Warn("POST /reservations/{reference}/pay - Not payable: reference=%s", reference)
			handlers.RespondError(w, http.StatusConflict, msgNotPayable)

		default:
			h.logger.Error("POST /reservations/{reference}/pay - Failed: reference=%s, error=%v", reference, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations/{reference}/pay - Paid: reference=%s, user_id=%d, amount=%.2f",
		reference, userID, result.Amount)
	handlers.RespondJSON(w, http.StatusOK, result)
}
