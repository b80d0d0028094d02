package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	policyRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/policy"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-ReservationService/internal/service/reservations/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	reservationRepo ReservationRepository
	policyRepo      PolicyRepository
	ledgerRepo      LedgerRepository
	auditRepo       AuditRepository
	paymentClient   PaymentClient
	notifyClient    NotifyClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	reservationRepo ReservationRepository,
	policyRepo PolicyRepository,
	ledgerRepo LedgerRepository,
	auditRepo AuditRepository,
	paymentClient PaymentClient,
	notifyClient NotifyClient,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		policyRepo:      policyRepo,
		ledgerRepo:      ledgerRepo,
		auditRepo:       auditRepo,
		paymentClient:   paymentClient,
		notifyClient:    notifyClient,
		txManager:       txManager,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// GetByReference получает бронирование по публичному reference
// Пользователь может видеть только своё бронирование
func (s *Service) GetByReference(ctx context.Context, reference string, userID int64) (*models.ReservationResponse, error) {
	s.logger.Info("GetByReference: fetching reservation reference=%s for user=%d", reference, userID)

	reservation, err := s.fetchByReference(ctx, reference, "GetByReference")
	if err != nil {
		return nil, err
	}

	if reservation.UserID != userID {
		s.logger.Warn("GetByReference: access denied for user=%d to reservation reference=%s", userID, reference)
		return nil, ErrAccessDenied
	}

	return models.FromDomainReservation(reservation), nil
}

// GetUserReservations получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserReservations(ctx context.Context, req *models.GetUserReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetUserReservations: fetching reservations for user=%d, status=%v", req.UserID, req.Status)

	var domainStatus *domain.ReservationStatus
	if req.Status != nil {
		status, err := models.ToDomainReservationStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserReservations: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	reservations, err := s.reservationRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserReservations: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserReservations: fetched %d reservations for user=%d", len(reservations), req.UserID)
	return models.FromDomainReservationList(reservations), nil
}

// GetBusinessReservations получает бронирования бизнеса с гибкой фильтрацией
// Поддерживает фильтрацию по сотруднику, периоду, статусу и включение неактивных
func (s *Service) GetBusinessReservations(ctx context.Context, req *models.GetBusinessReservationsRequest) (*models.ReservationListResponse, error) {
	s.logger.Info("GetBusinessReservations: fetching reservations for business=%d", req.BusinessID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetBusinessReservations: invalid filter for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	reservations, err := s.reservationRepo.GetByBusinessWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetBusinessReservations: repository error for business=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: GetBusinessReservations - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetBusinessReservations: fetched %d reservations for business=%d", len(reservations), req.BusinessID)
	return models.FromDomainReservationList(reservations), nil
}

// Cancel отменяет бронирование
// Пользователь может отменить своё бронирование в пределах окна отмены политики,
// бизнес отменяет свои бронирования без ограничения по времени.
// Для оплаченных бронирований в той же транзакции начисляется возврат в кошелёк
func (s *Service) Cancel(ctx context.Context, reference string, req *models.CancelReservationRequest) error {
	s.logger.Info("Cancel: cancelling reservation reference=%s by user=%d", reference, req.UserID)

	reservation, err := s.fetchByReference(ctx, reference, "Cancel")
	if err != nil {
		return err
	}

	if !reservation.CanBeCancelled() {
		s.logger.Warn("Cancel: reservation reference=%s cannot be cancelled, status=%s", reference, reservation.Status)
		return ErrCannotCancel
	}

	actor, err := s.resolveCancelActor(reservation, req)
	if err != nil {
		return err
	}

	if actor == domain.CancelledByUser {
		if err := s.checkCancellationWindow(ctx, reservation); err != nil {
			return err
		}
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if err := s.reservationRepo.Cancel(txCtx, reservation.ID, actor, req.Reason); err != nil {
			return err
		}

		if _, err := s.auditRepo.Append(txCtx, &domain.AuditEntry{
			Actor:          auditActor(actor, req),
			Action:         domain.AuditReservationCancelled,
			ReservationRef: reservation.Reference,
			Detail:         fmt.Sprintf("reason=%q", req.Reason),
		}); err != nil {
			return err
		}

		if reservation.PaymentStatus == domain.PaymentPaid {
			return s.refundToWallet(txCtx, reservation)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			// Гонка с другой отменой: бронирование уже не в отменяемом статусе
			s.logger.Warn("Cancel: reservation reference=%s already finalized", reference)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: failed for reservation reference=%s: %v", reference, err)
		return fmt.Errorf("%w: Cancel - transaction error: %v", ErrInternal, err)
	}

	// Снятие холда и уведомление best-effort, отмена уже зафиксирована
	if reservation.PaymentAuthRef != nil {
		_ = s.paymentClient.ReleaseAuthorizationWithGracefulDegradation(ctx, *reservation.PaymentAuthRef)
	}

	_ = s.notifyClient.SendWithGracefulDegradation(ctx, notifyservice.Notification{
		UserID:         reservation.UserID,
		Template:       notifyservice.TemplateReservationCancelled,
		ReservationRef: reservation.Reference,
		Reason:         req.Reason,
	})

	s.logger.Info("Cancel: cancelled reservation reference=%s by %s", reference, actor)
	return nil
}

// UpdateStatus обновляет статус бронирования
// Доступно только бизнесу-владельцу, допустимые целевые статусы: completed, no_show
func (s *Service) UpdateStatus(ctx context.Context, reference string, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: updating reservation reference=%s to status=%s by business=%d",
		reference, req.Status, req.BusinessID)

	reservation, err := s.fetchByReference(ctx, reference, "UpdateStatus")
	if err != nil {
		return err
	}

	if reservation.BusinessID != req.BusinessID {
		s.logger.Warn("UpdateStatus: access denied for business=%d to reservation reference=%s", req.BusinessID, reference)
		return ErrAccessDenied
	}

	newStatus, err := models.ToDomainReservationStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for reservation reference=%s", req.Status, reference)
		return fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	if newStatus != domain.StatusCompleted && newStatus != domain.StatusNoShow {
		s.logger.Warn("UpdateStatus: status=%s is not an allowed outcome for reference=%s", newStatus, reference)
		return ErrInvalidStatus
	}

	if !reservation.IsActive() {
		s.logger.Warn("UpdateStatus: reservation reference=%s is not active, status=%s", reference, reservation.Status)
		return ErrInvalidStatus
	}

	if err := s.reservationRepo.UpdateStatus(ctx, reservation.ID, newStatus); err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			return ErrReservationNotFound
		}
		s.logger.Error("UpdateStatus: repository error for reference=%s: %v", reference, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateStatus: updated reservation reference=%s to status=%s", reference, newStatus)
	return nil
}

// Вспомогательные методы

func (s *Service) fetchByReference(ctx context.Context, reference, method string) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.GetByReference(ctx, reference)
	if err != nil {
		if errors.Is(err, reservationRepo.ErrReservationNotFound) {
			s.logger.Warn("%s: reservation reference=%s not found", method, reference)
			return nil, ErrReservationNotFound
		}
		s.logger.Error("%s: repository error for reference=%s: %v", method, reference, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, method, err)
	}
	return reservation, nil
}

// resolveCancelActor определяет, кто отменяет: владелец или бизнес
func (s *Service) resolveCancelActor(reservation *domain.Reservation, req *models.CancelReservationRequest) (domain.CancelActor, error) {
	if reservation.UserID == req.UserID {
		return domain.CancelledByUser, nil
	}

	if req.BusinessID != nil && *req.BusinessID == reservation.BusinessID {
		return domain.CancelledByBusiness, nil
	}

	s.logger.Warn("Cancel: access denied for user=%d to reservation reference=%s", req.UserID, reservation.Reference)
	return "", ErrAccessDenied
}

// checkCancellationWindow проверяет, что до начала слота осталось не меньше,
// чем требует политика отмены
func (s *Service) checkCancellationWindow(ctx context.Context, reservation *domain.Reservation) error {
	policy, err := s.policyRepo.GetPolicyWithHierarchy(ctx, reservation.BusinessID, &reservation.ServiceID)
	if err != nil {
		if !errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Error("Cancel: failed to resolve policy for business=%d: %v", reservation.BusinessID, err)
			return fmt.Errorf("%w: Cancel - failed to resolve policy: %v", ErrInternal, err)
		}
		policy = domain.DefaultServicePolicy(reservation.BusinessID)
	}

	slotStart, err := reservation.StartTime.AtDate(reservation.BookingDate)
	if err != nil {
		return fmt.Errorf("%w: Cancel - invalid reservation start time: %v", ErrInternal, err)
	}

	deadline := slotStart.Add(-time.Duration(policy.CancellationHours) * time.Hour)
	if s.timeProvider.Now().After(deadline) {
		s.logger.Warn("Cancel: cancellation window passed for reference=%s, deadline=%s",
			reservation.Reference, deadline.Format(time.RFC3339))
		return ErrCancellationWindowPassed
	}

	return nil
}

// refundToWallet начисляет возврат на кошелёк пользователя
// Вызывается внутри сериализуемой транзакции отмены
func (s *Service) refundToWallet(txCtx context.Context, reservation *domain.Reservation) error {
	balance, err := s.ledgerRepo.GetBalance(txCtx, reservation.UserID)
	if err != nil {
		return err
	}

	ref := reservation.Reference
	if _, err := s.ledgerRepo.Append(txCtx, &domain.WalletLedgerEntry{
		UserID:         reservation.UserID,
		Direction:      domain.LedgerCredit,
		Amount:         reservation.Amount,
		BalanceAfter:   balance + reservation.Amount,
		Source:         domain.SourceRefund,
		ReservationRef: &ref,
	}); err != nil {
		return err
	}

	if err := s.reservationRepo.MarkRefunded(txCtx, reservation.ID); err != nil {
		return err
	}

	_, err = s.auditRepo.Append(txCtx, &domain.AuditEntry{
		Actor:          "system",
		Action:         domain.AuditWalletRefund,
		ReservationRef: reservation.Reference,
		Detail:         fmt.Sprintf("amount=%.2f", reservation.Amount),
	})
	return err
}

// auditActor строит идентификатор актора для журнала аудита
func auditActor(actor domain.CancelActor, req *models.CancelReservationRequest) string {
	if actor == domain.CancelledByBusiness && req.BusinessID != nil {
		return fmt.Sprintf("business:%d", *req.BusinessID)
	}
	return fmt.Sprintf("user:%d", req.UserID)
}
