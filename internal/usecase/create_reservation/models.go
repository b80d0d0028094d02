package create_reservation

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID     int64            // ID пользователя (из заголовка авторизации)
	BusinessID int64            // ID бизнеса
	ServiceID  int64            // ID услуги
	StaffID    *int64           // ID сотрудника (опционально)
	Date       time.Time        // Дата бронирования
	StartTime  types.TimeString // Время начала слота

	ServiceName    string  // Название услуги для сводок и уведомлений
	Amount         float64 // Стоимость услуги
	Notes          *string // Комментарий клиента (опционально)
	PaymentAuthRef *string // Ссылка на авторизацию платежа (hold), если есть
}

// Response модель ответа с созданным бронированием
type Response struct {
	Reservation *domain.Reservation
}
