package evaluate_booking

import (
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request модель запроса на проверку слота
type Request struct {
	BusinessID int64            // ID бизнеса
	ServiceID  int64            // ID услуги
	StaffID    *int64           // ID сотрудника (опционально)
	Date       time.Time        // Дата бронирования (без времени)
	StartTime  types.TimeString // Время начала слота (например, "10:00")

	// ID бронирования, исключаемого из проверки (при переносе существующего)
	ExcludeReservationID *int64
}

// Response результат успешной проверки слота
type Response struct {
	EndTime types.TimeString      // Вычисленное время конца слота
	Policy  *domain.ServicePolicy // Эффективная политика (услуги, бизнеса или дефолтная)
}
