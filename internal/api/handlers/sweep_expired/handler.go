package sweep_expired

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SMC-ReservationService/internal/api/handlers"
	sweepExpired "github.com/m04kA/SMC-ReservationService/internal/usecase/sweep_expired"
)

const msgInvalidParams = "некорректные параметры уборки"

type Handler struct {
	useCase SweepExpiredUseCase
	logger  Logger
}

func NewHandler(useCase SweepExpiredUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /internal/sweep?expirationHours=24&dryRun=true&notify=true
// Внутренний эндпоинт для запуска уборки вручную, обычно её гоняет планировщик
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req sweepExpired.Request

	query := r.URL.Query()
	if raw := query.Get("expirationHours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		req.ExpirationHours = hours
	}
	if raw := query.Get("dryRun"); raw != "" {
		dryRun, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		req.DryRun = dryRun
	}
	if raw := query.Get("notify"); raw != "" {
		notify, err := strconv.ParseBool(raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		req.Notify = notify
	}

	report, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, sweepExpired.ErrInvalidInput) {
			h.logger.Warn("POST /internal/sweep - Invalid params: %v", err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("POST /internal/sweep - Failed: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /internal/sweep - Done: cancelled=%d, failed=%d, dry_run=%t",
		report.CancelledCount, report.FailedCount, report.DryRun)
	handlers.RespondJSON(w, http.StatusOK, report)
}
