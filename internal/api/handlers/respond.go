// Package handlers общие помощники HTTP слоя: декодирование запросов
// и сериализация ответов в едином формате
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
)

// ErrorResponse единый формат ошибки API
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ConflictResponse формат ответа 409 с деталями конфликта бронирования
type ConflictResponse struct {
	Code     int                   `json:"code"`
	Message  string                `json:"message"`
	Conflict *domain.ConflictError `json:"conflict"`
}

// ShortageResponse формат ответа 402 с вариантами устранения нехватки средств
type ShortageResponse struct {
	Code     int                     `json:"code"`
	Message  string                  `json:"message"`
	Shortage *domain.BalanceShortage `json:"shortage"`
}

// DecodeJSON декодирует тело запроса в v
func DecodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}

// RespondJSON пишет ответ с указанным статусом и JSON телом
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		// Ошибку кодирования уже не доставить клиенту, заголовки отправлены
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// RespondError пишет ошибку с указанным статусом
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Code: status, Message: message})
}

// RespondBadRequest пишет ошибку 400
func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

// RespondNotFound пишет ошибку 404
func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

// RespondForbidden пишет ошибку 403
func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

// RespondInternalError пишет ошибку 500
func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
}

// RespondConflict пишет ответ 409 со структурированным конфликтом бронирования:
// kind, детали, пересекающиеся бронирования и предложенные альтернативы
func RespondConflict(w http.ResponseWriter, message string, conflict *domain.ConflictError) {
	RespondJSON(w, http.StatusConflict, ConflictResponse{
		Code:     http.StatusConflict,
		Message:  message,
		Conflict: conflict,
	})
}

// RespondPaymentRequired пишет ответ 402 со структурированной нехваткой средств
func RespondPaymentRequired(w http.ResponseWriter, message string, shortage *domain.BalanceShortage) {
	RespondJSON(w, http.StatusPaymentRequired, ShortageResponse{
		Code:     http.StatusPaymentRequired,
		Message:  message,
		Shortage: shortage,
	})
}
