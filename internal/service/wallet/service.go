package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifyservice"
	"github.com/m04kA/SMC-ReservationService/internal/service/wallet/models"
)

// Service сервис кошелька: пополнение, оплата бронирований, выписка
//
// Все операции над балансом идут через append-only леджер в сериализуемых
// транзакциях: два конкурирующих списания не могут оба пройти по одному балансу
type Service struct {
	ledgerRepo      LedgerRepository
	reservationRepo ReservationRepository
	auditRepo       AuditRepository
	notifyClient    NotifyClient
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса кошелька
func NewService(
	ledgerRepo LedgerRepository,
	reservationRepo ReservationRepository,
	auditRepo AuditRepository,
	notifyClient NotifyClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		ledgerRepo:      ledgerRepo,
		reservationRepo: reservationRepo,
		auditRepo:       auditRepo,
		notifyClient:    notifyClient,
		txManager:       txManager,
		logger:          logger,
	}
}

// TopUp пополняет кошелёк пользователя
func (s *Service) TopUp(ctx context.Context, req *models.TopUpRequest) (*models.BalanceResponse, error) {
	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive, got %.2f", ErrInvalidInput, req.Amount)
	}

	var newBalance float64

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		balance, err := s.ledgerRepo.GetBalance(txCtx, req.UserID)
		if err != nil {
			return err
		}

		newBalance = balance + req.Amount
		if _, err := s.ledgerRepo.Append(txCtx, &domain.WalletLedgerEntry{
			UserID:       req.UserID,
			Direction:    domain.LedgerCredit,
			Amount:       req.Amount,
			BalanceAfter: newBalance,
			Source:       domain.SourceTopUp,
		}); err != nil {
			return err
		}

		_, err = s.auditRepo.Append(txCtx, &domain.AuditEntry{
			Actor:  fmt.Sprintf("user:%d", req.UserID),
			Action: domain.AuditWalletTopUp,
			Detail: fmt.Sprintf("amount=%.2f", req.Amount),
		})
		return err
	})
	if err != nil {
		s.logger.Error("TopUp: failed for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: TopUp - transaction error: %v", ErrInternal, err)
	}

	s.logger.Info("TopUp: user=%d topped up %.2f, balance=%.2f", req.UserID, req.Amount, newBalance)
	return &models.BalanceResponse{UserID: req.UserID, Balance: newBalance}, nil
}

// Pay оплачивает бронирование из кошелька
// При нехватке средств возвращает *domain.BalanceShortage с вариантами пополнения,
// состояние кошелька и бронирования при этом не меняется
func (s *Service) Pay(ctx context.Context, reference string, req *models.PayRequest) (*models.PaymentResponse, error) {
	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	var result *models.PaymentResponse
	var reservation *domain.Reservation

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		res, err := s.reservationRepo.GetByReference(txCtx, reference)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		reservation = res

		if res.UserID != req.UserID {
			return ErrAccessDenied
		}
		if !res.IsUnpaid() {
			return ErrAlreadyPaid
		}
		if !res.IsActive() || res.Status == domain.StatusCompleted {
			return ErrNotPayable
		}

		balance, err := s.ledgerRepo.GetBalance(txCtx, req.UserID)
		if err != nil {
			return err
		}

		if shortage := domain.EvaluateBalance(res.Amount, balance, domain.BalanceWallet); shortage != nil {
			return shortage
		}

		newBalance := balance - res.Amount
		ref := res.Reference
		if _, err := s.ledgerRepo.Append(txCtx, &domain.WalletLedgerEntry{
			UserID:         req.UserID,
			Direction:      domain.LedgerDebit,
			Amount:         res.Amount,
			BalanceAfter:   newBalance,
			Source:         domain.SourceReservation,
			ReservationRef: &ref,
		}); err != nil {
			return err
		}

		if err := s.reservationRepo.MarkPaid(txCtx, res.ID); err != nil {
			return err
		}

		if _, err := s.auditRepo.Append(txCtx, &domain.AuditEntry{
			Actor:          fmt.Sprintf("user:%d", req.UserID),
			Action:         domain.AuditReservationPaid,
			ReservationRef: res.Reference,
			Detail:         fmt.Sprintf("amount=%.2f", res.Amount),
		}); err != nil {
			return err
		}

		result = &models.PaymentResponse{
			Reference: res.Reference,
			Amount:    res.Amount,
			Balance:   newBalance,
		}
		return nil
	})
	if err != nil {
		var shortage *domain.BalanceShortage
		switch {
		case errors.As(err, &shortage):
			s.logger.Info("Pay: insufficient funds for user=%d, reference=%s, short=%.2f",
				req.UserID, reference, shortage.Shortage)
			return nil, shortage
		case errors.Is(err, ErrReservationNotFound),
			errors.Is(err, ErrAccessDenied),
			errors.Is(err, ErrAlreadyPaid),
			errors.Is(err, ErrNotPayable):
			s.logger.Warn("Pay: rejected for user=%d, reference=%s: %v", req.UserID, reference, err)
			return nil, err
		default:
			s.logger.Error("Pay: failed for user=%d, reference=%s: %v", req.UserID, reference, err)
			return nil, fmt.Errorf("%w: Pay - transaction error: %v", ErrInternal, err)
		}
	}

	// Уведомление best-effort, оплата уже зафиксирована
	_ = s.notifyClient.SendWithGracefulDegradation(ctx, notifyservice.Notification{
		UserID:         req.UserID,
		Template:       notifyservice.TemplateReservationConfirmed,
		ReservationRef: reservation.Reference,
	})

	s.logger.Info("Pay: user=%d paid %.2f for reference=%s", req.UserID, result.Amount, reference)
	return result, nil
}

// Statement возвращает текущий баланс и выписку по кошельку
func (s *Service) Statement(ctx context.Context, userID int64) (*models.StatementResponse, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}

	balance, err := s.ledgerRepo.GetBalance(ctx, userID)
	if err != nil {
		s.logger.Error("Statement: failed to get balance for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: Statement - repository error: %v", ErrInternal, err)
	}

	entries, err := s.ledgerRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("Statement: failed to list entries for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: Statement - repository error: %v", ErrInternal, err)
	}

	return &models.StatementResponse{
		UserID:  userID,
		Balance: balance,
		Entries: models.FromDomainLedgerEntries(entries),
	}, nil
}
