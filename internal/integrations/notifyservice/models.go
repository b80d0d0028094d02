package notifyservice

// Notification запрос на отправку уведомления пользователю
type Notification struct {
	UserID         int64  `json:"user_id"`
	Template       string `json:"template"`
	ReservationRef string `json:"reservation_ref"`
	Reason         string `json:"reason,omitempty"`
}

// Шаблоны уведомлений
const (
	TemplateReservationExpired   = "reservation_expired"
	TemplateReservationCancelled = "reservation_cancelled"
	TemplateReservationConfirmed = "reservation_confirmed"
)

// ErrorResponse модель ошибки от NotifyService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
