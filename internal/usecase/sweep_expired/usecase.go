package sweep_expired

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/notifyservice"
)

const cancelReason = "expired: not paid within the expiration window"

// Usecase уборка истёкших неоплаченных бронирований
//
// Каждое бронирование отменяется в собственной транзакции: сбой на одном
// не мешает обработать остальные. Снятие холда и уведомление выполняются
// best-effort после коммита отмены
type Usecase struct {
	reservations ReservationRepository
	audit        AuditRepository
	payments     PaymentClient
	notify       NotifyClient
	txManager    TxManager
	timeProvider TimeProvider
	logger       Logger
}

// New создает новый usecase уборки истёкших бронирований
func New(
	reservations ReservationRepository,
	audit AuditRepository,
	payments PaymentClient,
	notify NotifyClient,
	txManager TxManager,
	timeProvider TimeProvider,
	logger Logger,
) *Usecase {
	if timeProvider == nil {
		timeProvider = &realTimeProvider{}
	}

	return &Usecase{
		reservations: reservations,
		audit:        audit,
		payments:     payments,
		notify:       notify,
		txManager:    txManager,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Execute выполняет один проход уборки и возвращает отчёт
// Повторный запуск на том же наборе данных ничего не отменяет:
// кандидаты выбираются только среди pending, а отмена терминальна
func (uc *Usecase) Execute(ctx context.Context, req Request) (*Report, error) {
	if req.ExpirationHours < 0 {
		return nil, fmt.Errorf("%w: expirationHours must not be negative, got %d", ErrInvalidInput, req.ExpirationHours)
	}

	expirationHours := req.ExpirationHours
	if expirationHours == 0 {
		expirationHours = domain.DefaultExpirationHours
	}

	now := uc.timeProvider.Now()
	cutoff := now.Add(-time.Duration(expirationHours) * time.Hour)

	candidates, err := uc.reservations.FindPendingCreatedBefore(ctx, cutoff)
	if err != nil {
		uc.logger.Error("[SweepExpired] Failed to find candidates: cutoff=%s, error=%v",
			cutoff.Format(time.RFC3339), err)
		return nil, fmt.Errorf("%w: failed to find expired reservations: %v", ErrInternal, err)
	}

	report := &Report{DryRun: req.DryRun}

	for _, res := range candidates {
		// Начавшийся слот не трогаем: клиент мог прийти и оплатить на месте
		if res.HasStarted(now) {
			continue
		}

		if req.DryRun {
			report.CancelledCount++
			report.TotalAmountReleased += res.Amount
			report.CancelledRefs = append(report.CancelledRefs, res.Reference)
			continue
		}

		if err := uc.cancelOne(ctx, res); err != nil {
			uc.logger.Error("[SweepExpired] Failed to cancel: reference=%s, error=%v", res.Reference, err)
			report.FailedCount++
			continue
		}

		report.CancelledCount++
		report.TotalAmountReleased += res.Amount
		report.CancelledRefs = append(report.CancelledRefs, res.Reference)

		uc.releaseAndNotify(ctx, res, req.Notify)
	}

	uc.logger.Info("[SweepExpired] Done: cancelled=%d, failed=%d, released=%.2f, dry_run=%t",
		report.CancelledCount, report.FailedCount, report.TotalAmountReleased, report.DryRun)

	return report, nil
}

// cancelOne атомарно отменяет бронирование и пишет запись аудита
func (uc *Usecase) cancelOne(ctx context.Context, res *domain.Reservation) error {
	return uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.reservations.Cancel(txCtx, res.ID, domain.CancelledBySystem, cancelReason); err != nil {
			return err
		}

		_, err := uc.audit.Append(txCtx, &domain.AuditEntry{
			Actor:          "system",
			Action:         domain.AuditReservationExpired,
			ReservationRef: res.Reference,
			Detail:         fmt.Sprintf("amount=%.2f created_at=%s", res.Amount, res.CreatedAt.Format(time.RFC3339)),
		})
		return err
	})
}

// releaseAndNotify best-effort снимает холд платежа и, если запрошено,
// уведомляет пользователя. Ошибки обоих вызовов уже залогированы клиентами
// и не влияют на отчёт
func (uc *Usecase) releaseAndNotify(ctx context.Context, res *domain.Reservation, notify bool) {
	if res.PaymentAuthRef != nil {
		_ = uc.payments.ReleaseAuthorizationWithGracefulDegradation(ctx, *res.PaymentAuthRef)
	}

	if !notify {
		return
	}

	_ = uc.notify.SendWithGracefulDegradation(ctx, notifyservice.Notification{
		UserID:         res.UserID,
		Template:       notifyservice.TemplateReservationExpired,
		ReservationRef: res.Reference,
		Reason:         cancelReason,
	})
}

type realTimeProvider struct{}

func (p *realTimeProvider) Now() time.Time {
	return time.Now()
}
