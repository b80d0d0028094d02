package cancel_reservation

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	"github.com/m04kA/SMC-ReservationService/internal/api/middleware"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgMissingReference    = "отсутствует reference бронирования"
	msgReservationNotFound = "бронирование не найдено"
	msgAccessDenied        = "нет доступа к этому бронированию"
	msgCannotCancel        = "бронирование не может быть отменено"
	msgWindowPassed        = "срок отмены бронирования истёк"
	msgUnauthorized        = "пользователь не аутентифицирован"
)

type Handler struct {
	service ReservationsService
	logger  Logger
}

func NewHandler(service ReservationsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/reservations/{reference}/cancel
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

	var req CancelReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /reservations/{reference}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err := h.service.Cancel(r.Context(), reference, &models.CancelReservationRequest{
		UserID:     userID,
		BusinessID: req.BusinessID,
		Reason:     req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, reservations.ErrReservationNotFound):
			h.logger.Warn("PATCH /reservations/{reference}/cancel - Not found: reference=%s", reference)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, reservations.ErrAccessDenied):
			h.logger.Warn("PATCH /reservations/{reference}/cancel - Access denied: reference=%s, user_id=%d",
				reference, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, reservations.ErrCannotCancel):
			h.logger.Warn("PATCH /reservations/{reference}/cancel - Cannot cancel: reference=%s", reference)
			handlers.RespondError(w, http.StatusConflict, msgCannotCancel)

		case errors.Is(err, reservations.ErrCancellationWindowPassed):
			h.logger.Warn("PATCH /reservations/{reference}/cancel - Window passed: reference=%s", reference)
			handlers.RespondError(w, http.StatusConflict, msgWindowPassed)

		default:
			h.logger.Error("PATCH /reservations/{reference}/cancel - Failed: reference=%s, error=%v", reference, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /reservations/{reference}/cancel - Cancelled: reference=%s, user_id=%d", reference, userID)
	handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
