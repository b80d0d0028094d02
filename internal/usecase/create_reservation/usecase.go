package create_reservation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/usecase/evaluate_booking"
)

// Usecase создание бронирования
//
// Проверка конфликтов и вставка выполняются в одной сериализуемой транзакции:
// снапшот бронирований берётся с FOR UPDATE, поэтому два конкурирующих запроса
// на один слот не могут закоммититься оба
type Usecase struct {
	evaluator    BookingEvaluator
	reservations ReservationRepository
	audit        AuditRepository
	txManager    TxManager
	logger       Logger
}

// New создает новый usecase создания бронирования
func New(
	evaluator BookingEvaluator,
	reservations ReservationRepository,
	audit AuditRepository,
	txManager TxManager,
	logger Logger,
) *Usecase {
	return &Usecase{
		evaluator:    evaluator,
		reservations: reservations,
		audit:        audit,
		txManager:    txManager,
		logger:       logger,
	}
}

// Execute создает бронирование после проверки слота на конфликты
// При конфликте возвращает *domain.ConflictError без изменений в БД
func (uc *Usecase) Execute(ctx context.Context, req Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	var created *domain.Reservation

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		eval, err := uc.evaluator.Execute(txCtx, evaluate_booking.Request{
			BusinessID: req.BusinessID,
			ServiceID:  req.ServiceID,
			StaffID:    req.StaffID,
			Date:       req.Date,
			StartTime:  req.StartTime,
		})
		if err != nil {
			return err
		}

		reservation := &domain.Reservation{
			Reference:       uuid.NewString(),
			UserID:          req.UserID,
			BusinessID:      req.BusinessID,
			ServiceID:       req.ServiceID,
			StaffID:         req.StaffID,
			BookingDate:     req.Date,
			StartTime:       req.StartTime,
			EndTime:         eval.EndTime,
			DurationMinutes: eval.Policy.DurationMinutes,
			Amount:          req.Amount,
			Status:          domain.StatusPending,
			PaymentStatus:   domain.PaymentPending,
			PaymentAuthRef:  req.PaymentAuthRef,
			ServiceName:     req.ServiceName,
			Notes:           req.Notes,
		}

		created, err = uc.reservations.Create(txCtx, reservation)
		if err != nil {
			return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
		}

		_, err = uc.audit.Append(txCtx, &domain.AuditEntry{
			Actor:          fmt.Sprintf("user:%d", req.UserID),
			Action:         domain.AuditReservationCreated,
			ReservationRef: created.Reference,
			Detail: fmt.Sprintf("business=%d service=%d date=%s time=%s",
				req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime),
		})
		if err != nil {
			return fmt.Errorf("%w: failed to append audit entry: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			uc.logger.Info("[CreateReservation] Conflict: user_id=%d, business_id=%d, kind=%s",
				req.UserID, req.BusinessID, conflict.Kind)
			return nil, conflict
		}
		if errors.Is(err, evaluate_booking.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		uc.logger.Error("[CreateReservation] Failed: user_id=%d, business_id=%d, error=%v",
			req.UserID, req.BusinessID, err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("[CreateReservation] Created: reference=%s, user_id=%d, business_id=%d, date=%s, time=%s",
		created.Reference, req.UserID, req.BusinessID, req.Date.Format(domain.DateFormat), req.StartTime)

	return &Response{Reservation: created}, nil
}
