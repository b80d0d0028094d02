package wallet

import "errors"

var (
	// ErrReservationNotFound возвращается, когда бронирование не найдено
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrAccessDenied возвращается при попытке оплатить чужое бронирование
	ErrAccessDenied = errors.New("access denied")

	// ErrAlreadyPaid возвращается при повторной оплате бронирования
	ErrAlreadyPaid = errors.New("reservation is already paid")

	// ErrNotPayable возвращается при оплате отменённого или завершённого бронирования
	ErrNotPayable = errors.New("reservation is not payable")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
