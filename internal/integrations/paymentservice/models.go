package paymentservice

// ReleaseResponse ответ PaymentService на снятие холда
type ReleaseResponse struct {
	AuthorizationRef string  `json:"authorization_ref"`
	Status           string  `json:"status"`
	ReleasedAmount   float64 `json:"released_amount"`
}

// ErrorResponse модель ошибки от PaymentService
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
