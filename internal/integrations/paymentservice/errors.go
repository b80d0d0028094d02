package paymentservice

import "errors"

var (
	// ErrAuthorizationNotFound возвращается, когда авторизация платежа не найдена
	ErrAuthorizationNotFound = errors.New("paymentservice client: authorization not found")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("paymentservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Снятие холда best-effort: его неудача логируется и не влияет на отмену бронирования
	ErrServiceDegraded = errors.New("paymentservice unavailable: graceful degradation applied")
)
