package sweep_expired

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("sweep_expired: invalid input data")

	// ErrInternal возвращается, когда не удалось получить список кандидатов
	ErrInternal = errors.New("sweep_expired: internal error")
)
